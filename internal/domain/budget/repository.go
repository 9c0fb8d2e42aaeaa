package budget

import (
	"context"
	"time"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetItemRepository persists budget line items
type BudgetItemRepository interface {
	shared.Repository[BudgetItem]
	FindByCode(ctx context.Context, code string) (*BudgetItem, error)
}

// ScenarioRepository persists budget scenarios
type ScenarioRepository interface {
	shared.Repository[Scenario]
	FindByNameAndYear(ctx context.Context, name string, year int) (*Scenario, error)
	FindByYear(ctx context.Context, year int) ([]Scenario, error)
}

// PlanFilter narrows plan entry queries. Zero or nil fields leave that
// dimension unconstrained.
type PlanFilter struct {
	Year         int
	ScenarioID   *uuid.UUID
	BudgetItemID *uuid.UUID
	Department   string
}

// PlanAggregateRow is one (budget item, month) sum over plan entries.
type PlanAggregateRow struct {
	BudgetItemID uuid.UUID       `json:"budget_item_id"`
	BudgetCode   string          `json:"budget_code"`
	BudgetName   string          `json:"budget_name"`
	Month        int             `json:"month"`
	Amount       decimal.Decimal `json:"amount"`
}

// PlanEntryRepository persists monthly plan figures
type PlanEntryRepository interface {
	shared.Repository[PlanEntry]
	FindFiltered(ctx context.Context, f PlanFilter) ([]PlanEntry, error)
	// AggregateByItemMonth sums duplicate rows per (budget item, month),
	// ordered by budget code then month.
	AggregateByItemMonth(ctx context.Context, year int, scenarioID *uuid.UUID) ([]PlanAggregateRow, error)
	SumByMonth(ctx context.Context, f PlanFilter) (map[int]decimal.Decimal, error)
	SumByItem(ctx context.Context, year int, scenarioID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// Departments lists distinct non-empty departments.
	Departments(ctx context.Context) ([]string, error)
	DeleteFiltered(ctx context.Context, f PlanFilter) (int64, error)
}

// ExpenseFilter narrows expense queries. Nil pointers leave that dimension
// unconstrained; Statuses empty means any status.
type ExpenseFilter struct {
	Year               int
	BudgetItemID       *uuid.UUID
	ScenarioID         *uuid.UUID
	StartDate          *time.Time
	EndDate            *time.Time
	Statuses           []ExpenseStatus
	IncludeOutOfBudget bool
	CreatedBy          *uuid.UUID
	OnDate             *time.Time
	ImportedOnly       bool
}

// ItemMonth keys a (budget item, month) pair.
type ItemMonth struct {
	BudgetItemID uuid.UUID
	Month        int
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	shared.Repository[Expense]
	FindFiltered(ctx context.Context, f ExpenseFilter) ([]Expense, error)
	// SumByMonth sums recorded, in-budget expense amounts per calendar
	// month. Expenses without a scenario count toward every scenario.
	SumByMonth(ctx context.Context, year int, scenarioID, budgetItemID *uuid.UUID) (map[int]decimal.Decimal, error)
	SumByItem(ctx context.Context, year int, scenarioID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// RecordedItemMonths returns the (item, month) pairs that have at least
	// one recorded, in-budget expense in the year.
	RecordedItemMonths(ctx context.Context, year int, scenarioID *uuid.UUID) (map[ItemMonth]struct{}, error)
	DeleteFiltered(ctx context.Context, f ExpenseFilter) (int64, error)
}

// PurchaseFormStatusRepository persists prepared-form tracking rows
type PurchaseFormStatusRepository interface {
	Save(ctx context.Context, status *PurchaseFormStatus) error
	FindByKey(ctx context.Context, budgetCode string, year, month int, scenarioID uuid.UUID, department string) (*PurchaseFormStatus, error)
	FindForPeriod(ctx context.Context, year int, scenarioID *uuid.UUID) ([]PurchaseFormStatus, error)
}
