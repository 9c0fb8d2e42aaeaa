package warranty

import (
	"context"
	"time"

	"github.com/butcetakip/backend/internal/domain/analytics"
	"github.com/butcetakip/backend/internal/domain/warranty"
	"github.com/google/uuid"
)

// itemMatcher drives the free-text q= filter over the list endpoint.
var itemMatcher = analytics.Matcher[warranty.Item]{
	TextFields: []func(warranty.Item) string{
		func(i warranty.Item) string { return i.Name },
		func(i warranty.Item) string { return i.Location },
		func(i warranty.Item) string { return i.Domain },
		func(i warranty.Item) string { return i.Issuer },
		func(i warranty.Item) string { return i.RenewalResponsible },
	},
	EqualFields: map[string]func(warranty.Item) string{
		"type": func(i warranty.Item) string { return string(i.Type) },
	},
}

// WarrantyService provides application-level warranty and renewal tracking
type WarrantyService struct {
	repo warranty.Repository
	now  func() time.Time
}

// NewWarrantyService creates a new WarrantyService
func NewWarrantyService(repo warranty.Repository) *WarrantyService {
	return &WarrantyService{repo: repo, now: time.Now}
}

// ItemResponse represents a warranty item in API responses. DaysLeft and
// Status are derived at read time, never stored.
type ItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Type               string     `json:"type"`
	Name               string     `json:"name"`
	Location           string     `json:"location,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	Note               string     `json:"note,omitempty"`
	Domain             string     `json:"domain,omitempty"`
	Issuer             string     `json:"issuer,omitempty"`
	RenewalResponsible string     `json:"renewal_responsible,omitempty"`
	ReminderDays       int        `json:"reminder_days"`
	IsActive           bool       `json:"is_active"`
	DaysLeft           *int       `json:"days_left,omitempty"`
	Status             string     `json:"status"`
	StatusLabel        string     `json:"status_label"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateItemRequest represents a request to create a warranty item
type CreateItemRequest struct {
	Type               string     `json:"type" binding:"required"`
	Name               string     `json:"name" binding:"required"`
	Location           string     `json:"location"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Note               string     `json:"note"`
	Domain             string     `json:"domain"`
	Issuer             string     `json:"issuer"`
	RenewalResponsible string     `json:"renewal_responsible"`
	ReminderDays       int        `json:"reminder_days"`
}

// UpdateItemRequest represents a request to update a warranty item
type UpdateItemRequest struct {
	Type               string     `json:"type" binding:"required"`
	Name               string     `json:"name" binding:"required"`
	Location           string     `json:"location"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Note               string     `json:"note"`
	Domain             string     `json:"domain"`
	Issuer             string     `json:"issuer"`
	RenewalResponsible string     `json:"renewal_responsible"`
	ReminderDays       int        `json:"reminder_days"`
	IsActive           *bool      `json:"is_active"`
}

// ItemListFilter defines filtering options for the warranty list
type ItemListFilter struct {
	Query           string `form:"q"`
	Type            string `form:"type"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Create creates a warranty item
func (s *WarrantyService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := warranty.NewItem(warranty.ItemType(req.Type), req.Name, req.Location, req.EndDate)
	if err != nil {
		return nil, err
	}
	item.StartDate = req.StartDate
	item.Note = req.Note
	item.Domain = req.Domain
	item.Issuer = req.Issuer
	item.RenewalResponsible = req.RenewalResponsible
	if req.ReminderDays > 0 {
		item.ReminderDays = req.ReminderDays
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return s.toResponse(item), nil
}

// Get returns a single warranty item by ID
func (s *WarrantyService) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(item), nil
}

// List returns warranty items ordered by end date, soonest first. The q and
// type filters are applied in memory over the ordered set.
func (s *WarrantyService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, error) {
	items, err := s.repo.FindActive(ctx, filter.IncludeInactive)
	if err != nil {
		return nil, err
	}
	items = analytics.Filter(itemMatcher, items, filter.Query, map[string]string{"type": filter.Type})

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *s.toResponse(&items[i]))
	}
	return responses, nil
}

// Critical returns active items inside the renewal window: expiring within
// 30 days but not yet expired.
func (s *WarrantyService) Critical(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.repo.FindActive(ctx, false)
	if err != nil {
		return nil, err
	}
	now := s.now()
	responses := make([]ItemResponse, 0)
	for i := range items {
		if items[i].IsCritical(now) {
			responses = append(responses, *s.toResponse(&items[i]))
		}
	}
	return responses, nil
}

// Update updates a warranty item's editable fields
func (s *WarrantyService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(warranty.ItemType(req.Type), req.Name, req.Location, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	item.Note = req.Note
	item.Domain = req.Domain
	item.Issuer = req.Issuer
	item.RenewalResponsible = req.RenewalResponsible
	if req.ReminderDays > 0 {
		item.ReminderDays = req.ReminderDays
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return s.toResponse(item), nil
}

// Delete deactivates a warranty item; the row stays queryable for history
func (s *WarrantyService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	item.Deactivate()
	return s.repo.Save(ctx, item)
}

func (s *WarrantyService) toResponse(item *warranty.Item) *ItemResponse {
	now := s.now()
	status, daysLeft := warranty.Resolve("", item.EndDate, now)
	return &ItemResponse{
		ID:                 item.ID,
		Type:               string(item.Type),
		Name:               item.Name,
		Location:           item.Location,
		StartDate:          item.StartDate,
		EndDate:            item.EndDate,
		Note:               item.Note,
		Domain:             item.Domain,
		Issuer:             item.Issuer,
		RenewalResponsible: item.RenewalResponsible,
		ReminderDays:       item.ReminderDays,
		IsActive:           item.IsActive,
		DaysLeft:           daysLeft,
		Status:             string(status),
		StatusLabel:        status.Label(),
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}
