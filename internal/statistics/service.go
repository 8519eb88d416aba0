package statistics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

const statsCacheTTL = 5 * time.Minute

var hundred = decimal.NewFromInt(100)

// PlatformStats is the per-marketplace slice of the dashboard.
type PlatformStats struct {
	Platform        enums.Platform  `json:"platform"`
	OrderCount      int             `json:"order_count"`
	CollectionCount int             `json:"collection_count"`
	TotalExpected   decimal.Decimal `json:"total_expected"`
	TotalCollected  decimal.Decimal `json:"total_collected"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	CollectionRate  decimal.Decimal `json:"collection_rate"`
}

// PaymentDistribution buckets orders by how their collected amount
// compares to what was expected.
type PaymentDistribution struct {
	Paid    int `json:"paid"`
	Unpaid  int `json:"unpaid"`
	Partial int `json:"partial"`
	Over    int `json:"over"`
}

// WeeklyPoint is one step of the collected-amount trend line.
type WeeklyPoint struct {
	Year      int             `json:"year"`
	Week      int             `json:"week"`
	Orders    int             `json:"orders"`
	Collected decimal.Decimal `json:"collected"`
}

// Stats is the full dashboard payload.
type Stats struct {
	TotalOrders         int                 `json:"total_orders"`
	TotalCollections    int                 `json:"total_collections"`
	LinkedCollections   int                 `json:"linked_collections"`
	UnlinkedCollections int                 `json:"unlinked_collections"`
	TotalExpected       decimal.Decimal     `json:"total_expected"`
	TotalCollected      decimal.Decimal     `json:"total_collected"`
	TotalNetProfit      decimal.Decimal     `json:"total_net_profit"`
	CollectionRate      decimal.Decimal     `json:"collection_rate"`
	Platforms           []PlatformStats     `json:"platforms"`
	Payments            PaymentDistribution `json:"payments"`
	WeeklyTrend         []WeeklyPoint       `json:"weekly_trend"`
}

// Service serves dashboard statistics, cached when redis is available.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo  Repository
	cache *redis.Client
	logg  *logger.Logger
}

// NewService builds a statistics service. The cache client may be nil
// when redis is disabled.
func NewService(repo Repository, cache *redis.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("statistics repository required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	key := s.cache.CacheKey("stats")
	if cached, err := s.cache.GetCache(ctx, key); err == nil && cached != "" {
		var stats Stats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	orders, collections, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading stats snapshot")
	}

	stats := compute(orders, collections)

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.SetCache(ctx, key, string(payload), statsCacheTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "stats cache write failed")
		}
	}
	return stats, nil
}

func compute(orders []models.Order, collections []models.Collection) *Stats {
	stats := &Stats{
		TotalOrders:      len(orders),
		TotalCollections: len(collections),
		TotalExpected:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalNetProfit:   decimal.Zero,
		CollectionRate:   decimal.Zero,
	}

	for _, c := range collections {
		if c.Linked {
			stats.LinkedCollections++
		} else {
			stats.UnlinkedCollections++
		}
	}

	byPlatform := make(map[enums.Platform]*PlatformStats)
	trend := make(map[[2]int]*WeeklyPoint)

	for _, order := range orders {
		expected := order.ProductTotal.Add(order.ShippingCharged)

		ps := byPlatform[order.Platform]
		if ps == nil {
			ps = &PlatformStats{
				Platform:       order.Platform,
				TotalExpected:  decimal.Zero,
				TotalCollected: decimal.Zero,
				NetProfit:      decimal.Zero,
				CollectionRate: decimal.Zero,
			}
			byPlatform[order.Platform] = ps
		}
		ps.OrderCount++
		ps.TotalExpected = ps.TotalExpected.Add(expected)
		stats.TotalExpected = stats.TotalExpected.Add(expected)

		collected := decimal.Zero
		if order.AmountCollected.Valid {
			collected = order.AmountCollected.Decimal
			ps.TotalCollected = ps.TotalCollected.Add(collected)
			stats.TotalCollected = stats.TotalCollected.Add(collected)
		}
		if order.NetProfit.Valid {
			ps.NetProfit = ps.NetProfit.Add(order.NetProfit.Decimal)
			stats.TotalNetProfit = stats.TotalNetProfit.Add(order.NetProfit.Decimal)
		}

		bucketPayment(&stats.Payments, order, expected)

		when := order.CreatedAt
		if order.OrderDate != nil {
			when = *order.OrderDate
		}
		year, week := when.ISOWeek()
		point := trend[[2]int{year, week}]
		if point == nil {
			point = &WeeklyPoint{Year: year, Week: week, Collected: decimal.Zero}
			trend[[2]int{year, week}] = point
		}
		point.Orders++
		point.Collected = point.Collected.Add(collected)
	}

	for _, c := range collections {
		ps := byPlatform[c.Platform]
		if ps == nil {
			ps = &PlatformStats{
				Platform:       c.Platform,
				TotalExpected:  decimal.Zero,
				TotalCollected: decimal.Zero,
				NetProfit:      decimal.Zero,
				CollectionRate: decimal.Zero,
			}
			byPlatform[c.Platform] = ps
		}
		ps.CollectionCount++
	}

	for _, ps := range byPlatform {
		ps.CollectionRate = rate(ps.TotalCollected, ps.TotalExpected)
		stats.Platforms = append(stats.Platforms, *ps)
	}
	sort.Slice(stats.Platforms, func(i, j int) bool {
		return stats.Platforms[i].Platform < stats.Platforms[j].Platform
	})

	stats.CollectionRate = rate(stats.TotalCollected, stats.TotalExpected)

	for _, point := range trend {
		stats.WeeklyTrend = append(stats.WeeklyTrend, *point)
	}
	sort.Slice(stats.WeeklyTrend, func(i, j int) bool {
		a, b := stats.WeeklyTrend[i], stats.WeeklyTrend[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Week < b.Week
	})

	return stats
}

// rate is collected over expected as a percentage, zero when nothing was
// expected.
func rate(collected, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return collected.Div(expected).Mul(hundred).Round(2)
}

func bucketPayment(dist *PaymentDistribution, order models.Order, expected decimal.Decimal) {
	if !order.AmountCollected.Valid || order.AmountCollected.Decimal.IsZero() {
		dist.Unpaid++
		return
	}
	switch order.AmountCollected.Decimal.Cmp(expected) {
	case 0:
		dist.Paid++
	case -1:
		dist.Partial++
	default:
		dist.Over++
	}
}
