package budget

import (
	"context"
	"errors"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ScenarioService provides application-level scenario operations
type ScenarioService struct {
	scenarioRepo budget.ScenarioRepository
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(scenarioRepo budget.ScenarioRepository) *ScenarioService {
	return &ScenarioService{scenarioRepo: scenarioRepo}
}

// ScenarioResponse represents a scenario in API responses
type ScenarioResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateScenarioRequest represents a request to create a scenario
type CreateScenarioRequest struct {
	Name        string `json:"name" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Description string `json:"description"`
}

// UpdateScenarioRequest represents a request to update a scenario
type UpdateScenarioRequest struct {
	Name        string `json:"name" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Description string `json:"description"`
}

// ScenarioListFilter defines filtering options for scenario list queries
type ScenarioListFilter struct {
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// Create creates a scenario. (name, year) must be unique.
func (s *ScenarioService) Create(ctx context.Context, req CreateScenarioRequest) (*ScenarioResponse, error) {
	existing, err := s.scenarioRepo.FindByNameAndYear(ctx, req.Name, req.Year)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A scenario with this name already exists for the year")
	}

	scenario, err := budget.NewScenario(req.Name, req.Year)
	if err != nil {
		return nil, err
	}
	scenario.Description = req.Description

	if err := s.scenarioRepo.Save(ctx, scenario); err != nil {
		return nil, err
	}
	return toScenarioResponse(scenario), nil
}

// Get returns a single scenario by ID
func (s *ScenarioService) Get(ctx context.Context, id uuid.UUID) (*ScenarioResponse, error) {
	scenario, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toScenarioResponse(scenario), nil
}

// List returns scenarios matching the filter with pagination
func (s *ScenarioService) List(ctx context.Context, filter ScenarioListFilter) (*shared.Paginated[ScenarioResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Year != 0 {
		f.Filters["year"] = filter.Year
	}

	scenarios, err := s.scenarioRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.scenarioRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]ScenarioResponse, 0, len(scenarios))
	for i := range scenarios {
		responses = append(responses, *toScenarioResponse(&scenarios[i]))
	}
	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// ListByYear returns all scenarios for one year ordered by name
func (s *ScenarioService) ListByYear(ctx context.Context, year int) ([]ScenarioResponse, error) {
	scenarios, err := s.scenarioRepo.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	responses := make([]ScenarioResponse, 0, len(scenarios))
	for i := range scenarios {
		responses = append(responses, *toScenarioResponse(&scenarios[i]))
	}
	return responses, nil
}

// Update updates a scenario's editable fields
func (s *ScenarioService) Update(ctx context.Context, id uuid.UUID, req UpdateScenarioRequest) (*ScenarioResponse, error) {
	scenario, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scenario.Update(req.Name, req.Description, req.Year); err != nil {
		return nil, err
	}
	if err := s.scenarioRepo.Save(ctx, scenario); err != nil {
		return nil, err
	}
	return toScenarioResponse(scenario), nil
}

// Delete removes a scenario
func (s *ScenarioService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scenarioRepo.Delete(ctx, id)
}

func toScenarioResponse(scenario *budget.Scenario) *ScenarioResponse {
	return &ScenarioResponse{
		ID:          scenario.ID,
		Name:        scenario.Name,
		Year:        scenario.Year,
		Description: scenario.Description,
		CreatedAt:   scenario.CreatedAt,
		UpdatedAt:   scenario.UpdatedAt,
	}
}
