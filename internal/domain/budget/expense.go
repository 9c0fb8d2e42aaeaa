package budget

import (
	"strings"
	"time"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the lifecycle state of a recorded expense
type ExpenseStatus string

const (
	ExpenseStatusRecorded  ExpenseStatus = "recorded"
	ExpenseStatusCancelled ExpenseStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s ExpenseStatus) IsValid() bool {
	return s == ExpenseStatusRecorded || s == ExpenseStatusCancelled
}

// Expense is one actual spend transaction against a budget item. Amount is
// always recomputed from quantity and unit price on every write; a stored
// amount inconsistent with the pair never survives an update.
type Expense struct {
	shared.BaseEntity
	BudgetItemID  uuid.UUID
	ScenarioID    *uuid.UUID
	ExpenseDate   time.Time
	Amount        decimal.Decimal
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Vendor        string
	Description   string
	Status        ExpenseStatus
	IsOutOfBudget bool
	IsImported    bool
	CreatedBy     *uuid.UUID
}

// CalculateAmount derives the expense amount as quantity times unit price
// rounded half-up to two decimals.
func CalculateAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// NewExpense records an expense
func NewExpense(budgetItemID uuid.UUID, scenarioID *uuid.UUID, expenseDate time.Time, quantity, unitPrice decimal.Decimal, createdBy *uuid.UUID) (*Expense, error) {
	if budgetItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense budget item is required")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense date is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense unit price cannot be negative")
	}

	return &Expense{
		BaseEntity:   shared.NewBaseEntity(),
		BudgetItemID: budgetItemID,
		ScenarioID:   scenarioID,
		ExpenseDate:  expenseDate,
		Amount:       CalculateAmount(quantity, unitPrice),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Status:       ExpenseStatusRecorded,
		CreatedBy:    createdBy,
	}, nil
}

// Update replaces the editable fields and recomputes the amount.
func (e *Expense) Update(expenseDate time.Time, quantity, unitPrice decimal.Decimal, vendor, description string) error {
	if expenseDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Expense date is required")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Expense quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Expense unit price cannot be negative")
	}

	e.ExpenseDate = expenseDate
	e.Quantity = quantity
	e.UnitPrice = unitPrice
	e.Amount = CalculateAmount(quantity, unitPrice)
	e.Vendor = strings.TrimSpace(vendor)
	e.Description = strings.TrimSpace(description)
	e.Touch()
	return nil
}

// Cancel marks the expense cancelled; cancelled expenses are excluded from
// every aggregate.
func (e *Expense) Cancel() error {
	if e.Status == ExpenseStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Expense is already cancelled")
	}
	e.Status = ExpenseStatusCancelled
	e.Touch()
	return nil
}

// MarkImported flags the expense as created by a bulk import.
func (e *Expense) MarkImported() {
	e.IsImported = true
}

// IsOwnedBy reports whether userID created this expense.
func (e *Expense) IsOwnedBy(userID uuid.UUID) bool {
	return e.CreatedBy != nil && *e.CreatedBy == userID
}
