package budget

import (
	"context"
	"errors"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BudgetItemService provides application-level budget item operations
type BudgetItemService struct {
	itemRepo budget.BudgetItemRepository
}

// NewBudgetItemService creates a new BudgetItemService
func NewBudgetItemService(itemRepo budget.BudgetItemRepository) *BudgetItemService {
	return &BudgetItemService{itemRepo: itemRepo}
}

// BudgetItemResponse represents a budget item in API responses
type BudgetItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	MapCategory  string    `json:"map_category,omitempty"`
	MapAttribute string    `json:"map_attribute,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateBudgetItemRequest represents a request to create a budget item
type CreateBudgetItemRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	MapCategory  string `json:"map_category"`
	MapAttribute string `json:"map_attribute"`
}

// UpdateBudgetItemRequest represents a request to update a budget item
type UpdateBudgetItemRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	MapCategory  string `json:"map_category"`
	MapAttribute string `json:"map_attribute"`
}

// BudgetItemListFilter defines filtering options for budget item list queries
type BudgetItemListFilter struct {
	Search      string `form:"search"`
	MapCategory string `form:"map_category"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir"`
}

// Create creates a budget item. The code must be unique.
func (s *BudgetItemService) Create(ctx context.Context, req CreateBudgetItemRequest) (*BudgetItemResponse, error) {
	existing, err := s.itemRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A budget item with this code already exists")
	}

	item, err := budget.NewBudgetItem(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.MapCategory = req.MapCategory
	item.MapAttribute = req.MapAttribute

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toBudgetItemResponse(item), nil
}

// Get returns a single budget item by ID
func (s *BudgetItemService) Get(ctx context.Context, id uuid.UUID) (*BudgetItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBudgetItemResponse(item), nil
}

// List returns budget items matching the filter with pagination
func (s *BudgetItemService) List(ctx context.Context, filter BudgetItemListFilter) (*shared.Paginated[BudgetItemResponse], error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
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
	if filter.MapCategory != "" {
		f.Filters["map_category"] = filter.MapCategory
	}

	items, err := s.itemRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]BudgetItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toBudgetItemResponse(&items[i]))
	}
	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// Update updates a budget item's editable fields. The code is immutable.
func (s *BudgetItemService) Update(ctx context.Context, id uuid.UUID, req UpdateBudgetItemRequest) (*BudgetItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Name, req.Description, req.MapCategory, req.MapAttribute); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toBudgetItemResponse(item), nil
}

// Delete removes a budget item
func (s *BudgetItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

func toBudgetItemResponse(item *budget.BudgetItem) *BudgetItemResponse {
	return &BudgetItemResponse{
		ID:           item.ID,
		Code:         item.Code,
		Name:         item.Name,
		Description:  item.Description,
		MapCategory:  item.MapCategory,
		MapAttribute: item.MapAttribute,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
