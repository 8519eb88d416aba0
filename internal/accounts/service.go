package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db"
	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// UpsertInput carries the cost-model parameters for one seller account.
type UpsertInput struct {
	Platform              enums.Platform
	AccountName           string
	FixedShippingCost     decimal.Decimal
	ClientShippingCost    decimal.Decimal
	PaymentCommissionRate decimal.Decimal
	TaxRate               decimal.Decimal
	CostIncludesTax       bool
}

// AccountWithUsage pairs a cost model with how many orders reference it.
type AccountWithUsage struct {
	models.Account
	OrderCount int64 `json:"order_count"`
}

// Service manages the per-account cost models used by reconciliation.
// Editing or deleting a model never rewrites orders already reconciled
// under the previous parameters.
type Service interface {
	Create(ctx context.Context, input UpsertInput) (*models.Account, error)
	Update(ctx context.Context, input UpsertInput) (*models.Account, error)
	Delete(ctx context.Context, platform enums.Platform, accountName string) error
	Get(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error)
	List(ctx context.Context) ([]AccountWithUsage, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds an accounts service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Account, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	account := accountFromInput(input)
	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "idx_accounts_platform_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists").
				WithDetails(map[string]any{"platform": input.Platform.String(), "account_name": input.AccountName})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}
	return account, nil
}

func (s *service) Update(ctx context.Context, input UpsertInput) (*models.Account, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.repo.Find(ctx, input.Platform, input.AccountName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	account := accountFromInput(input)
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating account")
	}
	return s.Get(ctx, input.Platform, input.AccountName)
}

func (s *service) Delete(ctx context.Context, platform enums.Platform, accountName string) error {
	affected, err := s.repo.Delete(ctx, platform, strings.TrimSpace(accountName))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting account")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	account, err := s.repo.Find(ctx, platform, strings.TrimSpace(accountName))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	return account, nil
}

func (s *service) List(ctx context.Context) ([]AccountWithUsage, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing accounts")
	}

	out := make([]AccountWithUsage, 0, len(accounts))
	for _, account := range accounts {
		count, err := s.repo.CountOrders(ctx, account.Platform, account.AccountName)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting account orders")
		}
		out = append(out, AccountWithUsage{Account: account, OrderCount: count})
	}
	return out, nil
}

func validateInput(input *UpsertInput) error {
	input.AccountName = strings.TrimSpace(input.AccountName)
	if !input.Platform.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown platform").
			WithDetails(map[string]any{"platform": string(input.Platform)})
	}
	if input.AccountName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account name is required")
	}
	if input.FixedShippingCost.IsNegative() || input.ClientShippingCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping costs cannot be negative")
	}
	if input.PaymentCommissionRate.IsNegative() || input.PaymentCommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "commission rate must be between 0 and 100")
	}
	if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 100")
	}
	return nil
}

func accountFromInput(input UpsertInput) *models.Account {
	return &models.Account{
		Platform:              input.Platform,
		AccountName:           input.AccountName,
		FixedShippingCost:     input.FixedShippingCost,
		ClientShippingCost:    input.ClientShippingCost,
		PaymentCommissionRate: input.PaymentCommissionRate,
		TaxRate:               input.TaxRate,
		CostIncludesTax:       input.CostIncludesTax,
	}
}
