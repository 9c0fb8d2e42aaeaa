package budget

import (
	"context"
	"strings"
	"time"

	"github.com/butcetakip/backend/internal/domain/analytics"
	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// expenseMatcher drives the free-text q= filter over fields the database
// query does not index.
var expenseMatcher = analytics.Matcher[budget.Expense]{
	TextFields: []func(budget.Expense) string{
		func(e budget.Expense) string { return e.Vendor },
		func(e budget.Expense) string { return e.Description },
	},
}

// ExpenseService provides application-level expense operations
type ExpenseService struct {
	expenseRepo budget.ExpenseRepository
	itemRepo    budget.BudgetItemRepository
	invalidator DashboardInvalidator
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo budget.ExpenseRepository,
	itemRepo budget.BudgetItemRepository,
	invalidator DashboardInvalidator,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		itemRepo:    itemRepo,
		invalidator: invalidator,
	}
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	BudgetItemID  uuid.UUID       `json:"budget_item_id"`
	ScenarioID    *uuid.UUID      `json:"scenario_id,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
	Amount        decimal.Decimal `json:"amount"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Vendor        string          `json:"vendor,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	IsOutOfBudget bool            `json:"is_out_of_budget"`
	IsImported    bool            `json:"is_imported"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	BudgetItemID  uuid.UUID       `json:"budget_item_id" binding:"required"`
	ScenarioID    *uuid.UUID      `json:"scenario_id"`
	ExpenseDate   time.Time       `json:"expense_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	Vendor        string          `json:"vendor"`
	Description   string          `json:"description"`
	IsOutOfBudget bool            `json:"is_out_of_budget"`
	CreatedBy     *uuid.UUID      `json:"-"` // set from JWT context, not from request body
}

// UpdateExpenseRequest represents a request to update an expense
type UpdateExpenseRequest struct {
	ExpenseDate   time.Time       `json:"expense_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	Vendor        string          `json:"vendor"`
	Description   string          `json:"description"`
	IsOutOfBudget bool            `json:"is_out_of_budget"`
}

// ExpenseListFilter defines filtering options for expense list queries.
// IncludeOutOfBudget defaults to true when the parameter is absent.
type ExpenseListFilter struct {
	Year               int        `form:"year"`
	BudgetItemID       *uuid.UUID `form:"budget_item_id"`
	ScenarioID         *uuid.UUID `form:"scenario_id"`
	StartDate          *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate            *time.Time `form:"end_date" time_format:"2006-01-02"`
	Status             string     `form:"status"`
	IncludeOutOfBudget *bool      `form:"include_out_of_budget"`
	MineOnly           bool       `form:"mine_only"`
	TodayOnly          bool       `form:"today_only"`
	Query              string     `form:"q"`
}

// Actor identifies the authenticated user an operation runs as.
type Actor struct {
	UserID uuid.UUID
	Role   identity.Role
}

// CanEditExpense reports whether the actor may modify the expense. Regular
// users may only touch their own records.
func (a Actor) CanEditExpense(e *budget.Expense) bool {
	return a.Role == identity.RoleAdmin || e.IsOwnedBy(a.UserID)
}

// Create records an expense; the amount is computed from quantity and unit price
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, req.BudgetItemID); err != nil {
		return nil, err
	}

	expense, err := budget.NewExpense(req.BudgetItemID, req.ScenarioID, req.ExpenseDate, req.Quantity, req.UnitPrice, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	expense.Vendor = strings.TrimSpace(req.Vendor)
	expense.Description = strings.TrimSpace(req.Description)
	expense.IsOutOfBudget = req.IsOutOfBudget

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidateYear(ctx, expense.ExpenseDate.Year())
	return toExpenseResponse(expense), nil
}

// Get returns a single expense by ID
func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List returns expenses matching the filter, newest first. The q parameter
// is applied in memory over vendor and description after the database query.
func (s *ExpenseService) List(ctx context.Context, actor Actor, filter ExpenseListFilter) ([]ExpenseResponse, error) {
	f := budget.ExpenseFilter{
		Year:               filter.Year,
		BudgetItemID:       filter.BudgetItemID,
		ScenarioID:         filter.ScenarioID,
		StartDate:          filter.StartDate,
		EndDate:            filter.EndDate,
		IncludeOutOfBudget: filter.IncludeOutOfBudget == nil || *filter.IncludeOutOfBudget,
	}
	if filter.Status != "" {
		for _, raw := range strings.Split(filter.Status, ",") {
			status := budget.ExpenseStatus(strings.TrimSpace(raw))
			if !status.IsValid() {
				return nil, shared.NewDomainError("INVALID_INPUT", "Unknown expense status: "+string(status))
			}
			f.Statuses = append(f.Statuses, status)
		}
	}
	if filter.MineOnly {
		userID := actor.UserID
		f.CreatedBy = &userID
	}
	if filter.TodayOnly {
		today := time.Now()
		f.OnDate = &today
	}

	expenses, err := s.expenseRepo.FindFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	expenses = analytics.Filter(expenseMatcher, expenses, filter.Query, nil)

	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, *toExpenseResponse(&expenses[i]))
	}
	return responses, nil
}

// Update updates an expense owned by the actor (or any expense for admins)
func (s *ExpenseService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEditExpense(expense) {
		return nil, shared.NewDomainError("FORBIDDEN", "You may only modify your own expenses")
	}
	if err := expense.Update(req.ExpenseDate, req.Quantity, req.UnitPrice, req.Vendor, req.Description); err != nil {
		return nil, err
	}
	expense.IsOutOfBudget = req.IsOutOfBudget

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidateYear(ctx, expense.ExpenseDate.Year())
	return toExpenseResponse(expense), nil
}

// Cancel marks an expense cancelled, removing it from every aggregate
func (s *ExpenseService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEditExpense(expense) {
		return nil, shared.NewDomainError("FORBIDDEN", "You may only modify your own expenses")
	}
	if err := expense.Cancel(); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidateYear(ctx, expense.ExpenseDate.Year())
	return toExpenseResponse(expense), nil
}

// Delete removes an expense owned by the actor (or any expense for admins)
func (s *ExpenseService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanEditExpense(expense) {
		return shared.NewDomainError("FORBIDDEN", "You may only delete your own expenses")
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateYear(ctx, expense.ExpenseDate.Year())
	return nil
}

func (s *ExpenseService) invalidateYear(ctx context.Context, year int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateYear(ctx, year); err != nil {
		logger.L(ctx).Warn("dashboard cache invalidation failed",
			zap.Int("year", year),
			zap.Error(err))
	}
}

func toExpenseResponse(e *budget.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		BudgetItemID:  e.BudgetItemID,
		ScenarioID:    e.ScenarioID,
		ExpenseDate:   e.ExpenseDate,
		Amount:        e.Amount,
		Quantity:      e.Quantity,
		UnitPrice:     e.UnitPrice,
		Vendor:        e.Vendor,
		Description:   e.Description,
		Status:        string(e.Status),
		IsOutOfBudget: e.IsOutOfBudget,
		IsImported:    e.IsImported,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
