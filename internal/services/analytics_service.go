package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

const analyticsCacheTTL = 10 * time.Minute

// AnalyticsService answers dashboard queries over the order history.
// Results are cached in Redis; cache misses recompute from the database.
type AnalyticsService struct {
	Analytics *repositories.AnalyticsRepository
}

func NewAnalyticsService(analytics *repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{Analytics: analytics}
}

// BestSellers ranks products by order score (total quantity times number of
// distinct orders), highest first.
func (s *AnalyticsService) BestSellers(ctx context.Context, topN int) ([]*models.ProductSalesStat, error) {
	key := fmt.Sprintf("%s:%d", cache.BestSellersKey, topN)
	if cached, ok := cache.GetCached(ctx, key); ok {
		var stats []*models.ProductSalesStat
		if json.Unmarshal(cached, &stats) == nil {
			return stats, nil
		}
	}

	stats, err := s.scoredStats(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].OrderScore != stats[j].OrderScore {
			return stats[i].OrderScore > stats[j].OrderScore
		}
		return stats[i].ProductName < stats[j].ProductName
	})
	stats = capStats(stats, topN)

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, key, data, analyticsCacheTTL)
	}
	return stats, nil
}

// WorstSellers ranks products by order score, lowest first.
func (s *AnalyticsService) WorstSellers(ctx context.Context, topN int) ([]*models.ProductSalesStat, error) {
	key := fmt.Sprintf("%s:%d", cache.WorstSellersKey, topN)
	if cached, ok := cache.GetCached(ctx, key); ok {
		var stats []*models.ProductSalesStat
		if json.Unmarshal(cached, &stats) == nil {
			return stats, nil
		}
	}

	stats, err := s.scoredStats(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].OrderScore != stats[j].OrderScore {
			return stats[i].OrderScore < stats[j].OrderScore
		}
		return stats[i].ProductName < stats[j].ProductName
	})
	stats = capStats(stats, topN)

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, key, data, analyticsCacheTTL)
	}
	return stats, nil
}

func (s *AnalyticsService) scoredStats(ctx context.Context) ([]*models.ProductSalesStat, error) {
	stats, err := s.Analytics.ProductSalesStats(ctx)
	if err != nil {
		return nil, err
	}

	var totalRevenue float64
	for _, st := range stats {
		totalRevenue += st.Revenue
	}
	for _, st := range stats {
		st.OrderScore = st.TotalQuantity * st.NumberOfOrders
		if totalRevenue > 0 {
			st.RevenuePercentage = round2(st.Revenue / totalRevenue * 100)
		}
	}
	return stats, nil
}

func capStats(stats []*models.ProductSalesStat, topN int) []*models.ProductSalesStat {
	if topN > 0 && len(stats) > topN {
		return stats[:topN]
	}
	return stats
}

// Segmentation finds product combinations that are ordered together,
// ranked by how often the exact combination occurs. Ties prefer the
// smaller combination.
func (s *AnalyticsService) Segmentation(ctx context.Context, topN int) ([]*models.ProductSegment, error) {
	key := fmt.Sprintf("%s:%d", cache.SegmentationKey, topN)
	if cached, ok := cache.GetCached(ctx, key); ok {
		var segments []*models.ProductSegment
		if json.Unmarshal(cached, &segments) == nil {
			return segments, nil
		}
	}

	sets, err := s.Analytics.OrderProductSets(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.Analytics.ProductNames(ctx)
	if err != nil {
		return nil, err
	}

	freq := make(map[string]int)
	idsByKey := make(map[string][]int)
	for _, ids := range sets {
		if len(ids) == 0 {
			continue
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		k := strings.Join(parts, ",")
		freq[k]++
		idsByKey[k] = ids
	}

	segments := make([]*models.ProductSegment, 0, len(freq))
	for k, n := range freq {
		ids := idsByKey[k]
		segNames := make([]string, len(ids))
		for i, id := range ids {
			segNames[i] = names[id]
		}
		segments = append(segments, &models.ProductSegment{
			ProductIDs:   ids,
			ProductNames: segNames,
			Frequency:    n,
		})
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Frequency != segments[j].Frequency {
			return segments[i].Frequency > segments[j].Frequency
		}
		return len(segments[i].ProductIDs) < len(segments[j].ProductIDs)
	})
	if topN > 0 && len(segments) > topN {
		segments = segments[:topN]
	}

	if data, err := json.Marshal(segments); err == nil {
		cache.SetCached(ctx, key, data, analyticsCacheTTL)
	}
	return segments, nil
}

// ChartData returns contiguous monthly buckets of order counts and new
// customers, zero-filled from the earliest month seen to the latest.
func (s *AnalyticsService) ChartData(ctx context.Context) ([]*models.ChartPoint, error) {
	if cached, ok := cache.GetCached(ctx, cache.ChartDataKey); ok {
		var points []*models.ChartPoint
		if json.Unmarshal(cached, &points) == nil {
			return points, nil
		}
	}

	orders, err := s.Analytics.OrderCountsByMonth(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.Analytics.StoreCountsByMonth(ctx)
	if err != nil {
		return nil, err
	}

	points := fillMonths(orders, stores)

	if data, err := json.Marshal(points); err == nil {
		cache.SetCached(ctx, cache.ChartDataKey, data, analyticsCacheTTL)
	}
	return points, nil
}

func fillMonths(orders, stores map[string]int) []*models.ChartPoint {
	var min, max string
	for ym := range orders {
		if min == "" || ym < min {
			min = ym
		}
		if ym > max {
			max = ym
		}
	}
	for ym := range stores {
		if min == "" || ym < min {
			min = ym
		}
		if ym > max {
			max = ym
		}
	}
	if min == "" {
		return []*models.ChartPoint{}
	}

	start, err := time.Parse("2006-01", min)
	if err != nil {
		return []*models.ChartPoint{}
	}
	end, err := time.Parse("2006-01", max)
	if err != nil {
		return []*models.ChartPoint{}
	}

	var points []*models.ChartPoint
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		ym := m.Format("2006-01")
		points = append(points, &models.ChartPoint{
			YearMonth: ym,
			Orders:    orders[ym],
			NewStores: stores[ym],
		})
	}
	return points
}
