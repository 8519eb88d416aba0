package weekly

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/internal/statistics"
	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

const defaultReportLimit = 52

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ResetSummary reports what a week-boundary operation cleared.
type ResetSummary struct {
	OrdersCleared      int64                `json:"orders_cleared"`
	CollectionsCleared int64                `json:"collections_cleared"`
	ScansCleared       int64                `json:"scans_cleared"`
	Report             *models.WeeklyReport `json:"report,omitempty"`
}

// Service owns the week-boundary operations. StartNewWeek archives the
// closing week's KPIs, then clears orders, collections, and return scans
// in one transaction; accounts and past reports always survive.
type Service interface {
	StartNewWeek(ctx context.Context) (*ResetSummary, error)
	ResetDatabase(ctx context.Context) (*ResetSummary, error)
	ListReports(ctx context.Context, limit int) ([]models.WeeklyReport, error)
}

type service struct {
	repo  Repository
	stats statistics.Service
	tx    txRunner
	cache *redis.Client
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds a weekly service. The cache client may be nil when
// redis is disabled.
func NewService(repo Repository, stats statistics.Service, tx txRunner, cache *redis.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("weekly repository required")
	}
	if stats == nil {
		return nil, fmt.Errorf("statistics service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, stats: stats, tx: tx, cache: cache, logg: logg, now: time.Now}, nil
}

func (s *service) StartNewWeek(ctx context.Context) (*ResetSummary, error) {
	snapshot, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	year, week := now.ISOWeek()
	report := &models.WeeklyReport{
		Label:            fmt.Sprintf("Week %d, %d", week, year),
		WeekNumber:       week,
		Year:             year,
		TotalOrders:      int64(snapshot.TotalOrders),
		TotalCollections: int64(snapshot.TotalCollections),
		TotalExpected:    snapshot.TotalExpected,
		TotalCollected:   snapshot.TotalCollected,
		NetProfit:        snapshot.TotalNetProfit,
		CollectionRate:   snapshot.CollectionRate,
		PaidCount:        int64(snapshot.Payments.Paid),
		UnpaidCount:      int64(snapshot.Payments.Unpaid),
		PartialCount:     int64(snapshot.Payments.Partial),
	}

	summary := &ResetSummary{}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		orders, err := txRepo.CountOrders(ctx)
		if err != nil {
			return err
		}
		collections, err := txRepo.CountCollections(ctx)
		if err != nil {
			return err
		}
		scans, err := txRepo.CountReturnScans(ctx)
		if err != nil {
			return err
		}

		if err := txRepo.CreateReport(ctx, report); err != nil {
			return err
		}
		if err := txRepo.DeleteAllOrders(ctx); err != nil {
			return err
		}
		if err := txRepo.DeleteAllCollections(ctx); err != nil {
			return err
		}
		if err := txRepo.DeleteAllReturnScans(ctx); err != nil {
			return err
		}

		summary.OrdersCleared = orders
		summary.CollectionsCleared = collections
		summary.ScansCleared = scans
		summary.Report = report
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeResetFailure, err, "starting new week")
	}

	s.invalidateStats(ctx)
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("week closed: %s, cleared %d orders, %d collections, %d scans",
			report.Label, summary.OrdersCleared, summary.CollectionsCleared, summary.ScansCleared))
	}
	return summary, nil
}

// ResetDatabase clears orders and collections only, with no report
// snapshot. Return scans and accounts are untouched.
func (s *service) ResetDatabase(ctx context.Context) (*ResetSummary, error) {
	summary := &ResetSummary{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		orders, err := txRepo.CountOrders(ctx)
		if err != nil {
			return err
		}
		collections, err := txRepo.CountCollections(ctx)
		if err != nil {
			return err
		}

		if err := txRepo.DeleteAllOrders(ctx); err != nil {
			return err
		}
		if err := txRepo.DeleteAllCollections(ctx); err != nil {
			return err
		}

		summary.OrdersCleared = orders
		summary.CollectionsCleared = collections
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeResetFailure, err, "resetting database")
	}

	s.invalidateStats(ctx)
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("database reset cleared %d orders, %d collections",
			summary.OrdersCleared, summary.CollectionsCleared))
	}
	return summary, nil
}

func (s *service) ListReports(ctx context.Context, limit int) ([]models.WeeklyReport, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}
	reports, err := s.repo.ListReports(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing weekly reports")
	}
	return reports, nil
}

func (s *service) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateCache(ctx, s.cache.CacheKey("stats")); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "stats cache invalidation failed")
	}
}
