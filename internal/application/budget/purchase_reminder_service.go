package budget

import (
	"context"
	"errors"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseReminderService surfaces planned spends that still lack a recorded
// expense and tracks whether a purchase form was prepared for each of them.
type PurchaseReminderService struct {
	planRepo    budget.PlanEntryRepository
	expenseRepo budget.ExpenseRepository
	statusRepo  budget.PurchaseFormStatusRepository
}

// NewPurchaseReminderService creates a new PurchaseReminderService
func NewPurchaseReminderService(
	planRepo budget.PlanEntryRepository,
	expenseRepo budget.ExpenseRepository,
	statusRepo budget.PurchaseFormStatusRepository,
) *PurchaseReminderService {
	return &PurchaseReminderService{
		planRepo:    planRepo,
		expenseRepo: expenseRepo,
		statusRepo:  statusRepo,
	}
}

// ReminderRow is one planned (budget item, month) cell with no recorded spend
type ReminderRow struct {
	BudgetItemID   uuid.UUID       `json:"budget_item_id"`
	BudgetCode     string          `json:"budget_code"`
	BudgetName     string          `json:"budget_name"`
	Month          int             `json:"month"`
	PlannedAmount  decimal.Decimal `json:"planned_amount"`
	IsFormPrepared bool            `json:"is_form_prepared"`
	UpdatedBy      string          `json:"updated_by,omitempty"`
	PreparedAt     *time.Time      `json:"prepared_at,omitempty"`
}

// MarkPreparedRequest flips the prepared flag for one reminder cell
type MarkPreparedRequest struct {
	BudgetCode string    `json:"budget_code" binding:"required"`
	Year       int       `json:"year" binding:"required"`
	Month      int       `json:"month" binding:"required,min=1,max=12"`
	ScenarioID uuid.UUID `json:"scenario_id" binding:"required"`
	Department string    `json:"department"`
	Prepared   bool      `json:"prepared"`
}

// List returns planned cells for the year that have no recorded, in-budget
// expense, joined against the prepared-form flags. An optional month narrows
// the result to one month.
func (s *PurchaseReminderService) List(ctx context.Context, year int, scenarioID uuid.UUID, month int) ([]ReminderRow, error) {
	sid := scenarioID
	aggregates, err := s.planRepo.AggregateByItemMonth(ctx, year, &sid)
	if err != nil {
		return nil, err
	}
	recorded, err := s.expenseRepo.RecordedItemMonths(ctx, year, &sid)
	if err != nil {
		return nil, err
	}
	statuses, err := s.statusRepo.FindForPeriod(ctx, year, &sid)
	if err != nil {
		return nil, err
	}

	type statusKey struct {
		code  string
		month int
	}
	flags := make(map[statusKey]*budget.PurchaseFormStatus, len(statuses))
	for i := range statuses {
		st := &statuses[i]
		flags[statusKey{st.BudgetCode, st.Month}] = st
	}

	rows := make([]ReminderRow, 0, len(aggregates))
	for _, agg := range aggregates {
		if !agg.Amount.IsPositive() {
			continue
		}
		if month != 0 && agg.Month != month {
			continue
		}
		if _, ok := recorded[budget.ItemMonth{BudgetItemID: agg.BudgetItemID, Month: agg.Month}]; ok {
			continue
		}
		row := ReminderRow{
			BudgetItemID:  agg.BudgetItemID,
			BudgetCode:    agg.BudgetCode,
			BudgetName:    agg.BudgetName,
			Month:         agg.Month,
			PlannedAmount: agg.Amount,
		}
		if st, ok := flags[statusKey{agg.BudgetCode, agg.Month}]; ok {
			row.IsFormPrepared = st.IsFormPrepared
			row.UpdatedBy = st.UpdatedBy
			row.PreparedAt = st.PreparedAt
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarkPrepared upserts the prepared-form flag for one reminder cell
func (s *PurchaseReminderService) MarkPrepared(ctx context.Context, updatedBy string, req MarkPreparedRequest) error {
	status, err := s.statusRepo.FindByKey(ctx, req.BudgetCode, req.Year, req.Month, req.ScenarioID, req.Department)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		status, err = budget.NewPurchaseFormStatus(req.BudgetCode, req.Year, req.Month, req.ScenarioID, req.Department)
		if err != nil {
			return err
		}
	}
	status.SetPrepared(req.Prepared, updatedBy)
	return s.statusRepo.Save(ctx, status)
}

// MarkPreparedBulk applies several prepared-flag changes; the first failure
// stops the batch.
func (s *PurchaseReminderService) MarkPreparedBulk(ctx context.Context, updatedBy string, reqs []MarkPreparedRequest) (int, error) {
	for i, req := range reqs {
		if err := s.MarkPrepared(ctx, updatedBy, req); err != nil {
			return i, err
		}
	}
	return len(reqs), nil
}
