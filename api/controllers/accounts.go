package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/api/validators"
	"github.com/sellerdesk/reconcile-backend/internal/accounts"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

type accountBody struct {
	Platform              string          `json:"platform" validate:"required"`
	AccountName           string          `json:"account_name" validate:"required,min=1,max=128"`
	FixedShippingCost     decimal.Decimal `json:"fixed_shipping_cost"`
	ClientShippingCost    decimal.Decimal `json:"client_shipping_cost"`
	PaymentCommissionRate decimal.Decimal `json:"payment_commission_rate"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	CostIncludesTax       bool            `json:"cost_includes_tax"`
}

func (b accountBody) toInput() accounts.UpsertInput {
	return accounts.UpsertInput{
		Platform:              enums.Platform(b.Platform),
		AccountName:           b.AccountName,
		FixedShippingCost:     b.FixedShippingCost,
		ClientShippingCost:    b.ClientShippingCost,
		PaymentCommissionRate: b.PaymentCommissionRate,
		TaxRate:               b.TaxRate,
		CostIncludesTax:       b.CostIncludesTax,
	}
}

func AccountCreate(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body accountBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		account, err := svc.Create(ctx, body.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, account)
	}
}

type accountUpdateBody struct {
	FixedShippingCost     decimal.Decimal `json:"fixed_shipping_cost"`
	ClientShippingCost    decimal.Decimal `json:"client_shipping_cost"`
	PaymentCommissionRate decimal.Decimal `json:"payment_commission_rate"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	CostIncludesTax       bool            `json:"cost_includes_tax"`
}

func AccountUpdate(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body accountUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := accounts.UpsertInput{
			Platform:              enums.Platform(chi.URLParam(r, "platform")),
			AccountName:           chi.URLParam(r, "accountName"),
			FixedShippingCost:     body.FixedShippingCost,
			ClientShippingCost:    body.ClientShippingCost,
			PaymentCommissionRate: body.PaymentCommissionRate,
			TaxRate:               body.TaxRate,
			CostIncludesTax:       body.CostIncludesTax,
		}

		account, err := svc.Update(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

func AccountDelete(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		platform := enums.Platform(chi.URLParam(r, "platform"))
		accountName := chi.URLParam(r, "accountName")

		if err := svc.Delete(ctx, platform, accountName); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AccountList(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
