package budget

import (
	"strings"
	"time"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseFormStatus tracks whether a purchase form has been prepared for a
// planned spend that has no recorded expense yet. Rows are upserted on the
// bulk mark-prepared action, keyed by (budget_code, year, month, scenario,
// department).
type PurchaseFormStatus struct {
	shared.BaseEntity
	BudgetCode     string
	Year           int
	Month          int
	ScenarioID     uuid.UUID
	Department     string
	IsFormPrepared bool
	UpdatedBy      string
	PreparedAt     *time.Time
}

// NewPurchaseFormStatus creates a tracking row for one reminder cell.
func NewPurchaseFormStatus(budgetCode string, year, month int, scenarioID uuid.UUID, department string) (*PurchaseFormStatus, error) {
	budgetCode = strings.TrimSpace(budgetCode)
	if budgetCode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Budget code is required")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Month must be between 1 and 12")
	}
	if scenarioID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Scenario is required")
	}

	return &PurchaseFormStatus{
		BaseEntity: shared.NewBaseEntity(),
		BudgetCode: budgetCode,
		Year:       year,
		Month:      month,
		ScenarioID: scenarioID,
		Department: strings.TrimSpace(department),
	}, nil
}

// SetPrepared flips the prepared flag and records who changed it.
func (p *PurchaseFormStatus) SetPrepared(prepared bool, updatedBy string) {
	p.IsFormPrepared = prepared
	p.UpdatedBy = updatedBy
	if prepared {
		now := time.Now()
		p.PreparedAt = &now
	} else {
		p.PreparedAt = nil
	}
	p.Touch()
}
