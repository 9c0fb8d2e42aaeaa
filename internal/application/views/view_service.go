package views

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/domain/views"
	"github.com/google/uuid"
)

// ViewService stores user-scoped grid state: column layouts, filters, label
// history. Payloads are opaque JSON.
type ViewService struct {
	repo views.Repository
}

// NewViewService creates a new ViewService
func NewViewService(repo views.Repository) *ViewService {
	return &ViewService{repo: repo}
}

// ViewResponse represents a saved view in API responses
type ViewResponse struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Get returns one saved view by key for the user
func (s *ViewService) Get(ctx context.Context, userID uuid.UUID, key string) (*ViewResponse, error) {
	view, err := s.repo.FindByUserAndKey(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	return toViewResponse(view), nil
}

// List returns all of the user's saved views ordered by key
func (s *ViewService) List(ctx context.Context, userID uuid.UUID) ([]ViewResponse, error) {
	stored, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]ViewResponse, 0, len(stored))
	for _, view := range stored {
		responses = append(responses, *toViewResponse(view))
	}
	return responses, nil
}

// Put creates or replaces the user's view under the key
func (s *ViewService) Put(ctx context.Context, userID uuid.UUID, key string, payload json.RawMessage) (*ViewResponse, error) {
	if !json.Valid(payload) {
		return nil, shared.NewDomainError("INVALID_INPUT", "View payload must be valid JSON")
	}

	view, err := s.repo.FindByUserAndKey(ctx, userID, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		view, err = views.NewSavedView(userID, key, payload)
		if err != nil {
			return nil, err
		}
	} else if err := view.Replace(payload); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, view); err != nil {
		return nil, err
	}
	return toViewResponse(view), nil
}

// Delete removes the user's view under the key
func (s *ViewService) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	view, err := s.repo.FindByUserAndKey(ctx, userID, key)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, view.ID)
}

func toViewResponse(view *views.SavedView) *ViewResponse {
	return &ViewResponse{
		Key:       view.Key,
		Payload:   json.RawMessage(view.Payload),
		UpdatedAt: view.UpdatedAt,
	}
}
