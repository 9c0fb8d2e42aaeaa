package budget

import (
	"context"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardInvalidator drops cached dashboard payloads for a budget year.
// Satisfied by cache.DashboardCache.
type DashboardInvalidator interface {
	InvalidateYear(ctx context.Context, year int) error
}

// PlanService provides application-level plan entry operations
type PlanService struct {
	planRepo     budget.PlanEntryRepository
	itemRepo     budget.BudgetItemRepository
	scenarioRepo budget.ScenarioRepository
	invalidator  DashboardInvalidator
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planRepo budget.PlanEntryRepository,
	itemRepo budget.BudgetItemRepository,
	scenarioRepo budget.ScenarioRepository,
	invalidator DashboardInvalidator,
) *PlanService {
	return &PlanService{
		planRepo:     planRepo,
		itemRepo:     itemRepo,
		scenarioRepo: scenarioRepo,
		invalidator:  invalidator,
	}
}

// PlanEntryResponse represents a plan entry in API responses
type PlanEntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Amount       decimal.Decimal `json:"amount"`
	ScenarioID   uuid.UUID       `json:"scenario_id"`
	BudgetItemID uuid.UUID       `json:"budget_item_id"`
	Department   string          `json:"department,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreatePlanEntryRequest represents a request to create a plan entry
type CreatePlanEntryRequest struct {
	Year         int             `json:"year" binding:"required"`
	Month        int             `json:"month" binding:"required,min=1,max=12"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ScenarioID   uuid.UUID       `json:"scenario_id" binding:"required"`
	BudgetItemID uuid.UUID       `json:"budget_item_id" binding:"required"`
	Department   string          `json:"department"`
}

// UpdatePlanEntryRequest represents a request to update a plan entry
type UpdatePlanEntryRequest struct {
	Month      int             `json:"month" binding:"required,min=1,max=12"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Department string          `json:"department"`
}

// PlanListFilter defines filtering options for plan entry list queries
type PlanListFilter struct {
	Year         int        `form:"year"`
	ScenarioID   *uuid.UUID `form:"scenario_id"`
	BudgetItemID *uuid.UUID `form:"budget_item_id"`
	Department   string     `form:"department"`
}

// Create creates a plan entry after resolving its references
func (s *PlanService) Create(ctx context.Context, req CreatePlanEntryRequest) (*PlanEntryResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, req.BudgetItemID); err != nil {
		return nil, err
	}
	if _, err := s.scenarioRepo.FindByID(ctx, req.ScenarioID); err != nil {
		return nil, err
	}

	entry, err := budget.NewPlanEntry(req.Year, req.Month, req.Amount, req.ScenarioID, req.BudgetItemID, req.Department)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateYear(ctx, entry.Year)
	return toPlanEntryResponse(entry), nil
}

// Get returns a single plan entry by ID
func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*PlanEntryResponse, error) {
	entry, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPlanEntryResponse(entry), nil
}

// List returns plan entries matching the filter ordered by month
func (s *PlanService) List(ctx context.Context, filter PlanListFilter) ([]PlanEntryResponse, error) {
	entries, err := s.planRepo.FindFiltered(ctx, budget.PlanFilter{
		Year:         filter.Year,
		ScenarioID:   filter.ScenarioID,
		BudgetItemID: filter.BudgetItemID,
		Department:   filter.Department,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]PlanEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toPlanEntryResponse(&entries[i]))
	}
	return responses, nil
}

// Aggregate sums plan entries per (budget item, month) for one year
func (s *PlanService) Aggregate(ctx context.Context, year int, scenarioID *uuid.UUID) ([]budget.PlanAggregateRow, error) {
	return s.planRepo.AggregateByItemMonth(ctx, year, scenarioID)
}

// Departments lists distinct non-empty departments across all plan entries
func (s *PlanService) Departments(ctx context.Context) ([]string, error) {
	return s.planRepo.Departments(ctx)
}

// Update updates a plan entry's editable fields
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanEntryRequest) (*PlanEntryResponse, error) {
	entry, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Update(req.Month, req.Amount, req.Department); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidateYear(ctx, entry.Year)
	return toPlanEntryResponse(entry), nil
}

// Delete removes a plan entry
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateYear(ctx, entry.Year)
	return nil
}

// A stale dashboard entry expires on its own TTL, so invalidation failures
// are logged and swallowed.
func (s *PlanService) invalidateYear(ctx context.Context, year int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateYear(ctx, year); err != nil {
		logger.L(ctx).Warn("dashboard cache invalidation failed",
			zap.Int("year", year),
			zap.Error(err))
	}
}

func toPlanEntryResponse(entry *budget.PlanEntry) *PlanEntryResponse {
	return &PlanEntryResponse{
		ID:           entry.ID,
		Year:         entry.Year,
		Month:        entry.Month,
		Amount:       entry.Amount,
		ScenarioID:   entry.ScenarioID,
		BudgetItemID: entry.BudgetItemID,
		Department:   entry.Department,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}
