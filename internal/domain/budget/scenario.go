package budget

import (
	"strings"

	"github.com/butcetakip/backend/internal/domain/shared"
)

// Scenario is a named, year-scoped version of a budget plan, e.g. a baseline
// versus a mid-year revision.
type Scenario struct {
	shared.BaseEntity
	Name        string
	Year        int
	Description string
}

// NewScenario creates a budget scenario
func NewScenario(name string, year int) (*Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Scenario name is required")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Scenario year is out of range")
	}

	return &Scenario{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Year:       year,
	}, nil
}

// Update replaces the editable fields
func (s *Scenario) Update(name, description string, year int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Scenario name is required")
	}
	if year < 2000 || year > 2100 {
		return shared.NewDomainError("INVALID_INPUT", "Scenario year is out of range")
	}

	s.Name = name
	s.Description = description
	s.Year = year
	s.Touch()
	return nil
}
