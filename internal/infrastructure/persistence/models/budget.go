package models

import (
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetItemModel is the persistence model for budget line items
type BudgetItemModel struct {
	BaseModel
	Code         string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(255);not null"`
	Description  string `gorm:"type:text"`
	MapCategory  string `gorm:"type:varchar(128)"`
	MapAttribute string `gorm:"type:varchar(128)"`
}

// TableName specifies the table name
func (BudgetItemModel) TableName() string {
	return "budget_items"
}

// ToDomain converts the model to a domain entity
func (m *BudgetItemModel) ToDomain() *budget.BudgetItem {
	return &budget.BudgetItem{
		BaseEntity:   m.BaseModel.ToDomain(),
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		MapCategory:  m.MapCategory,
		MapAttribute: m.MapAttribute,
	}
}

// BudgetItemModelFromDomain converts a domain entity to the model
func BudgetItemModelFromDomain(b *budget.BudgetItem) *BudgetItemModel {
	m := &BudgetItemModel{
		Code:         b.Code,
		Name:         b.Name,
		Description:  b.Description,
		MapCategory:  b.MapCategory,
		MapAttribute: b.MapAttribute,
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// ScenarioModel is the persistence model for budget scenarios
type ScenarioModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(128);not null;index:idx_scenarios_name_year,unique"`
	Year        int    `gorm:"not null;index:idx_scenarios_name_year,unique"`
	Description string `gorm:"type:text"`
}

// TableName specifies the table name
func (ScenarioModel) TableName() string {
	return "scenarios"
}

// ToDomain converts the model to a domain entity
func (m *ScenarioModel) ToDomain() *budget.Scenario {
	return &budget.Scenario{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Year:        m.Year,
		Description: m.Description,
	}
}

// ScenarioModelFromDomain converts a domain entity to the model
func ScenarioModelFromDomain(s *budget.Scenario) *ScenarioModel {
	m := &ScenarioModel{
		Name:        s.Name,
		Year:        s.Year,
		Description: s.Description,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// PlanEntryModel is the persistence model for monthly plan figures
type PlanEntryModel struct {
	BaseModel
	Year         int             `gorm:"not null;index:idx_plan_entries_period"`
	Month        int             `gorm:"not null;index:idx_plan_entries_period"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ScenarioID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BudgetItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Department   string          `gorm:"type:varchar(128)"`
}

// TableName specifies the table name
func (PlanEntryModel) TableName() string {
	return "plan_entries"
}

// ToDomain converts the model to a domain entity
func (m *PlanEntryModel) ToDomain() *budget.PlanEntry {
	return &budget.PlanEntry{
		BaseEntity:   m.BaseModel.ToDomain(),
		Year:         m.Year,
		Month:        m.Month,
		Amount:       m.Amount,
		ScenarioID:   m.ScenarioID,
		BudgetItemID: m.BudgetItemID,
		Department:   m.Department,
	}
}

// PlanEntryModelFromDomain converts a domain entity to the model
func PlanEntryModelFromDomain(p *budget.PlanEntry) *PlanEntryModel {
	m := &PlanEntryModel{
		Year:         p.Year,
		Month:        p.Month,
		Amount:       p.Amount,
		ScenarioID:   p.ScenarioID,
		BudgetItemID: p.BudgetItemID,
		Department:   p.Department,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ExpenseModel is the persistence model for expenses
type ExpenseModel struct {
	BaseModel
	BudgetItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ScenarioID    *uuid.UUID      `gorm:"type:uuid;index"`
	ExpenseDate   time.Time       `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Vendor        string          `gorm:"type:varchar(255)"`
	Description   string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null;index"`
	IsOutOfBudget bool            `gorm:"not null;default:false"`
	IsImported    bool            `gorm:"not null;default:false"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName specifies the table name
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain entity
func (m *ExpenseModel) ToDomain() *budget.Expense {
	return &budget.Expense{
		BaseEntity:    m.BaseModel.ToDomain(),
		BudgetItemID:  m.BudgetItemID,
		ScenarioID:    m.ScenarioID,
		ExpenseDate:   m.ExpenseDate,
		Amount:        m.Amount,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Vendor:        m.Vendor,
		Description:   m.Description,
		Status:        budget.ExpenseStatus(m.Status),
		IsOutOfBudget: m.IsOutOfBudget,
		IsImported:    m.IsImported,
		CreatedBy:     m.CreatedBy,
	}
}

// ExpenseModelFromDomain converts a domain entity to the model
func ExpenseModelFromDomain(e *budget.Expense) *ExpenseModel {
	m := &ExpenseModel{
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
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// PurchaseFormStatusModel is the persistence model for prepared-form tracking
type PurchaseFormStatusModel struct {
	BaseModel
	BudgetCode     string     `gorm:"type:varchar(64);not null;index:idx_purchase_form_key,unique"`
	Year           int        `gorm:"not null;index:idx_purchase_form_key,unique"`
	Month          int        `gorm:"not null;index:idx_purchase_form_key,unique"`
	ScenarioID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_purchase_form_key,unique"`
	Department     string     `gorm:"type:varchar(128);not null;default:'';index:idx_purchase_form_key,unique"`
	IsFormPrepared bool       `gorm:"not null;default:false"`
	UpdatedBy      string `gorm:"type:varchar(255)"`
	PreparedAt     *time.Time
}

// TableName specifies the table name
func (PurchaseFormStatusModel) TableName() string {
	return "purchase_form_statuses"
}

// ToDomain converts the model to a domain entity
func (m *PurchaseFormStatusModel) ToDomain() *budget.PurchaseFormStatus {
	return &budget.PurchaseFormStatus{
		BaseEntity:     m.BaseModel.ToDomain(),
		BudgetCode:     m.BudgetCode,
		Year:           m.Year,
		Month:          m.Month,
		ScenarioID:     m.ScenarioID,
		Department:     m.Department,
		IsFormPrepared: m.IsFormPrepared,
		UpdatedBy:      m.UpdatedBy,
		PreparedAt:     m.PreparedAt,
	}
}

// PurchaseFormStatusModelFromDomain converts a domain entity to the model
func PurchaseFormStatusModelFromDomain(p *budget.PurchaseFormStatus) *PurchaseFormStatusModel {
	m := &PurchaseFormStatusModel{
		BudgetCode:     p.BudgetCode,
		Year:           p.Year,
		Month:          p.Month,
		ScenarioID:     p.ScenarioID,
		Department:     p.Department,
		IsFormPrepared: p.IsFormPrepared,
		UpdatedBy:      p.UpdatedBy,
		PreparedAt:     p.PreparedAt,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
