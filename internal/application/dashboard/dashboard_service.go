package dashboard

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/butcetakip/backend/internal/domain/analytics"
	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/cache"
	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how stale a cached dashboard payload can get.
const DefaultCacheTTL = 5 * time.Minute

// itemPageSize caps the reference-data fetch used to resolve budget names.
const itemPageSize = 1000

// DashboardService computes the budget dashboard aggregates
type DashboardService struct {
	planRepo    budget.PlanEntryRepository
	expenseRepo budget.ExpenseRepository
	itemRepo    budget.BudgetItemRepository
	cache       cache.DashboardCache
	ttl         time.Duration
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	planRepo budget.PlanEntryRepository,
	expenseRepo budget.ExpenseRepository,
	itemRepo budget.BudgetItemRepository,
	dashboardCache cache.DashboardCache,
) *DashboardService {
	return &DashboardService{
		planRepo:    planRepo,
		expenseRepo: expenseRepo,
		itemRepo:    itemRepo,
		cache:       dashboardCache,
		ttl:         DefaultCacheTTL,
	}
}

// Query scopes a dashboard request. Nil pointers mean the dimension is not
// constrained.
type Query struct {
	Year         int
	ScenarioID   *uuid.UUID
	BudgetItemID *uuid.UUID
}

func (q Query) keyParts() []string {
	scenario, item := "", ""
	if q.ScenarioID != nil {
		scenario = q.ScenarioID.String()
	}
	if q.BudgetItemID != nil {
		item = q.BudgetItemID.String()
	}
	return []string{scenario, item}
}

// SummaryResponse is the main dashboard payload
type SummaryResponse struct {
	Year      int                      `json:"year"`
	KPI       analytics.Totals         `json:"kpi"`
	Monthly   []analytics.MonthlyPoint `json:"monthly"`
	Quarterly []analytics.QuarterPoint `json:"quarterly"`
}

// TrendResponse is the monthly trend for one budget line
type TrendResponse struct {
	Year       int                      `json:"year"`
	BudgetCode string                   `json:"budget_code"`
	BudgetName string                   `json:"budget_name"`
	Monthly    []analytics.MonthlyPoint `json:"monthly"`
}

// OverBudgetResponse ranks the budget lines that exceeded their plan
type OverBudgetResponse struct {
	Year    int                      `json:"year"`
	Items   []analytics.RankedItem   `json:"items"`
	Summary analytics.RankingSummary `json:"summary"`
}

// Summary returns the KPI totals with the 12-month and quarterly series
func (s *DashboardService) Summary(ctx context.Context, q Query) (*SummaryResponse, error) {
	key := cache.Key("summary", q.Year, q.keyParts()...)
	var cached SummaryResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	planned, err := s.planRepo.SumByMonth(ctx, budget.PlanFilter{
		Year:         q.Year,
		ScenarioID:   q.ScenarioID,
		BudgetItemID: q.BudgetItemID,
	})
	if err != nil {
		return nil, err
	}
	actual, err := s.expenseRepo.SumByMonth(ctx, q.Year, q.ScenarioID, q.BudgetItemID)
	if err != nil {
		return nil, err
	}

	resp := buildSummary(q.Year, planned, actual)
	s.toCache(ctx, key, resp)
	return resp, nil
}

// Trend returns the monthly series for one budget line addressed by code
func (s *DashboardService) Trend(ctx context.Context, year int, scenarioID *uuid.UUID, budgetCode string) (*TrendResponse, error) {
	item, err := s.itemRepo.FindByCode(ctx, budgetCode)
	if err != nil {
		return nil, err
	}

	scenario := ""
	if scenarioID != nil {
		scenario = scenarioID.String()
	}
	key := cache.Key("trend", year, scenario, item.Code)
	var cached TrendResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	itemID := item.ID
	planned, err := s.planRepo.SumByMonth(ctx, budget.PlanFilter{
		Year:         year,
		ScenarioID:   scenarioID,
		BudgetItemID: &itemID,
	})
	if err != nil {
		return nil, err
	}
	actual, err := s.expenseRepo.SumByMonth(ctx, year, scenarioID, &itemID)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(year, planned, actual)
	resp := &TrendResponse{
		Year:       year,
		BudgetCode: item.Code,
		BudgetName: item.Name,
		Monthly:    summary.Monthly,
	}
	s.toCache(ctx, key, resp)
	return resp, nil
}

// OverBudget ranks budget lines by overrun amount, largest first
func (s *DashboardService) OverBudget(ctx context.Context, year int, scenarioID *uuid.UUID, limit int) (*OverBudgetResponse, error) {
	if limit <= 0 {
		limit = analytics.DefaultRankingLimit
	}

	scenario := ""
	if scenarioID != nil {
		scenario = scenarioID.String()
	}
	key := cache.Key("overbudget", year, scenario, strconv.Itoa(limit))
	var cached OverBudgetResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	planByItem, err := s.planRepo.SumByItem(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}
	actualByItem, err := s.expenseRepo.SumByItem(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}
	names, err := s.itemNames(ctx)
	if err != nil {
		return nil, err
	}

	itemIDs := make(map[uuid.UUID]struct{}, len(planByItem)+len(actualByItem))
	for id := range planByItem {
		itemIDs[id] = struct{}{}
	}
	for id := range actualByItem {
		itemIDs[id] = struct{}{}
	}

	lines := make([]analytics.LineItem, 0, len(itemIDs))
	for id := range itemIDs {
		ref, ok := names[id]
		if !ok {
			continue
		}
		lines = append(lines, analytics.LineItem{
			BudgetCode: ref.code,
			BudgetName: ref.name,
			Plan:       planByItem[id],
			Actual:     actualByItem[id],
		})
	}
	// Map iteration order is random; rank ties must not be.
	sortLinesByCode(lines)

	ranked := analytics.Rank(lines)
	resp := &OverBudgetResponse{
		Year:    year,
		Items:   analytics.Top(ranked, limit),
		Summary: analytics.Summarize(ranked),
	}
	s.toCache(ctx, key, resp)
	return resp, nil
}

func buildSummary(year int, planned, actual map[int]decimal.Decimal) *SummaryResponse {
	buckets := make(map[int]analytics.MonthlyBucket, 12)
	for month := 1; month <= 12; month++ {
		buckets[month] = analytics.MonthlyBucket{
			Planned: planned[month],
			Actual:  actual[month],
		}
	}
	monthly := analytics.MonthlySeries(buckets)

	var totalPlan, totalActual, overrunFloor decimal.Decimal
	for _, p := range monthly {
		totalPlan = totalPlan.Add(p.Planned)
		totalActual = totalActual.Add(p.Actual)
		overrunFloor = overrunFloor.Add(p.Overrun)
	}

	return &SummaryResponse{
		Year:      year,
		KPI:       analytics.Normalize(totalPlan, totalActual, overrunFloor),
		Monthly:   monthly,
		Quarterly: analytics.QuarterlyRollup(monthly),
	}
}

type itemRef struct {
	code string
	name string
}

func (s *DashboardService) itemNames(ctx context.Context) (map[uuid.UUID]itemRef, error) {
	f := shared.DefaultFilter()
	f.PageSize = itemPageSize
	f.OrderBy = "code"
	f.OrderDir = "asc"
	items, err := s.itemRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]itemRef, len(items))
	for i := range items {
		names[items[i].ID] = itemRef{code: items[i].Code, name: items[i].Name}
	}
	return names, nil
}

func sortLinesByCode(lines []analytics.LineItem) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].BudgetCode < lines[j].BudgetCode
	})
}

func (s *DashboardService) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.L(ctx).Warn("dashboard cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DashboardService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		logger.L(ctx).Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
