package budget

import (
	"strings"

	"github.com/butcetakip/backend/internal/domain/shared"
)

// BudgetItem identifies one budget line. MapCategory and MapAttribute are
// free-form classification tags used only for filtering and labeling.
type BudgetItem struct {
	shared.BaseEntity
	Code         string
	Name         string
	Description  string
	MapCategory  string
	MapAttribute string
}

// NewBudgetItem creates a budget line item
func NewBudgetItem(code, name string) (*BudgetItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Budget item code is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = code
	}

	return &BudgetItem{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
	}, nil
}

// Update replaces the editable fields; the code is immutable once created.
func (b *BudgetItem) Update(name, description, mapCategory, mapAttribute string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Budget item name is required")
	}

	b.Name = name
	b.Description = description
	b.MapCategory = mapCategory
	b.MapAttribute = mapAttribute
	b.Touch()
	return nil
}
