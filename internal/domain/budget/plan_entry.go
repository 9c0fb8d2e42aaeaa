package budget

import (
	"strings"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanEntry is one planned-spend figure for one budget item, one month, one
// scenario. Uniqueness over (item, month, scenario) is not enforced;
// aggregation sums all matching rows.
type PlanEntry struct {
	shared.BaseEntity
	Year         int
	Month        int
	Amount       decimal.Decimal
	ScenarioID   uuid.UUID
	BudgetItemID uuid.UUID
	Department   string
}

// NewPlanEntry creates a monthly plan figure
func NewPlanEntry(year, month int, amount decimal.Decimal, scenarioID, budgetItemID uuid.UUID, department string) (*PlanEntry, error) {
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan year is out of range")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan amount cannot be negative")
	}
	if scenarioID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan scenario is required")
	}
	if budgetItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan budget item is required")
	}

	return &PlanEntry{
		BaseEntity:   shared.NewBaseEntity(),
		Year:         year,
		Month:        month,
		Amount:       amount,
		ScenarioID:   scenarioID,
		BudgetItemID: budgetItemID,
		Department:   strings.TrimSpace(department),
	}, nil
}

// Update replaces the editable fields
func (p *PlanEntry) Update(month int, amount decimal.Decimal, department string) error {
	if month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_INPUT", "Plan month must be between 1 and 12")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Plan amount cannot be negative")
	}

	p.Month = month
	p.Amount = amount
	p.Department = strings.TrimSpace(department)
	p.Touch()
	return nil
}
