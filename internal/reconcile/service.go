package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

var hundred = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Warning flags one order whose reconciliation needed a fallback.
type Warning struct {
	Platform   enums.Platform         `json:"platform"`
	TrackingID string                 `json:"tracking_id"`
	OrderID    string                 `json:"order_id"`
	Warning    enums.ReconcileWarning `json:"warning"`
}

// Result summarizes one reconciliation pass.
type Result struct {
	Processed      int             `json:"processed"`
	Linked         int             `json:"linked"`
	Remaining      int             `json:"remaining"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}

// Service links collections to orders and computes the financials.
type Service interface {
	Reconcile(ctx context.Context) (*Result, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	cache *redis.Client
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds a reconciliation service. The cache client may be nil
// when redis is disabled.
func NewService(repo Repository, tx txRunner, cache *redis.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reconcile repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cache: cache, logg: logg, now: time.Now}, nil
}

// Reconcile walks every unlinked collection and tries to pair it with an
// order on the same platform carrying the same tracking id. Each pair is
// committed in its own transaction so one bad pair cannot take down the
// pass; collections with no matching order stay unlinked and are retried
// next time.
func (s *service) Reconcile(ctx context.Context) (*Result, error) {
	unlinked, err := s.repo.ListUnlinked(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing unlinked collections")
	}

	result := &Result{Processed: len(unlinked), TotalNetProfit: decimal.Zero}

	for i := range unlinked {
		collection := unlinked[i]

		orders, err := s.repo.FindOrdersByTracking(ctx, collection.Platform, collection.TrackingID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "matching orders by tracking id")
		}
		if len(orders) == 0 {
			result.Remaining++
			continue
		}

		// Multiple orders under one tracking id: the most recent wins,
		// the rest are flagged for manual review.
		order := orders[0]
		var warnings []enums.ReconcileWarning
		var passedOver []uuid.UUID
		if len(orders) > 1 {
			warnings = append(warnings, enums.WarningAmbiguousTrackingID)
			for _, o := range orders[1:] {
				passedOver = append(passedOver, o.ID)
			}
		}

		account, err := s.accountModel(ctx, collection.Platform, order.AccountName)
		if err != nil {
			return nil, err
		}
		if account == nil {
			warnings = append(warnings, enums.WarningMissingAccountModel)
			account = &models.Account{
				FixedShippingCost:     decimal.Zero,
				ClientShippingCost:    decimal.Zero,
				PaymentCommissionRate: decimal.Zero,
				TaxRate:               decimal.Zero,
			}
		}

		applyFinancials(&order, &collection, account, warnings, s.now().UTC())
		collection.OrderID = &order.ID
		collection.Linked = true

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if err := txRepo.SaveOrderFinancials(ctx, &order); err != nil {
				return err
			}
			if err := txRepo.FlagOrders(ctx, passedOver, enums.WarningAmbiguousTrackingID); err != nil {
				return err
			}
			return txRepo.MarkCollectionLinked(ctx, &collection)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking collection to order")
		}

		result.Linked++
		result.TotalNetProfit = result.TotalNetProfit.Add(order.NetProfit.Decimal)
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, Warning{
				Platform:   collection.Platform,
				TrackingID: collection.TrackingID,
				OrderID:    order.ID.String(),
				Warning:    w,
			})
		}
	}

	s.invalidateStats(ctx)
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("reconciliation linked %d of %d collections, %d remaining",
			result.Linked, result.Processed, result.Remaining))
	}
	return result, nil
}

func (s *service) accountModel(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	account, err := s.repo.FindAccount(ctx, platform, accountName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account cost model")
	}
	return account, nil
}

// applyFinancials computes the order's financial breakdown from the
// collected amount and the account cost model:
//
//	expected_revenue = product_total + shipping_charged
//	cost             = fixed_shipping_cost + client_shipping_cost
//	commission       = amount_collected * commission_rate / 100
//	tax              = (cost if cost_includes_tax else expected_revenue) * tax_rate / 100
//	net_profit       = amount_collected - cost - commission - tax
func applyFinancials(order *models.Order, collection *models.Collection, account *models.Account, warnings []enums.ReconcileWarning, at time.Time) {
	expectedRevenue := order.ProductTotal.Add(order.ShippingCharged)
	cost := account.FixedShippingCost.Add(account.ClientShippingCost)
	commission := collection.AmountCollected.Mul(account.PaymentCommissionRate).Div(hundred).Round(2)

	taxBase := expectedRevenue
	if account.CostIncludesTax {
		taxBase = cost
	}
	tax := taxBase.Mul(account.TaxRate).Div(hundred).Round(2)

	netProfit := collection.AmountCollected.Sub(cost).Sub(commission).Sub(tax).Round(2)

	order.AmountCollected = decimal.NewNullDecimal(collection.AmountCollected)
	order.ExpectedRevenue = decimal.NewNullDecimal(expectedRevenue.Round(2))
	order.Cost = decimal.NewNullDecimal(cost.Round(2))
	order.CommissionAmount = decimal.NewNullDecimal(commission)
	order.TaxAmount = decimal.NewNullDecimal(tax)
	order.NetProfit = decimal.NewNullDecimal(netProfit)
	order.ReconciledAt = &at

	order.ReconcileWarning = nil
	if len(warnings) > 0 {
		joined := string(warnings[0])
		for _, w := range warnings[1:] {
			joined += "," + string(w)
		}
		order.ReconcileWarning = &joined
	}
}

func (s *service) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateCache(ctx, s.cache.CacheKey("stats")); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "stats cache invalidation failed")
	}
}
