package controllers

import (
	"net/http"

	"github.com/ardiansetya/kasirpoint-backend/api/middleware"
	"github.com/ardiansetya/kasirpoint-backend/api/responses"
	"github.com/ardiansetya/kasirpoint-backend/api/validators"
	"github.com/ardiansetya/kasirpoint-backend/internal/cart"
	"github.com/ardiansetya/kasirpoint-backend/internal/transactions"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Checkout settles the caller's cart and clears it on success.
func Checkout(svc transactions.Service, carts *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var body transactions.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userCart := carts.For(userID)
		result, err := svc.Checkout(r.Context(), transactions.CheckoutInput{
			UserID:  userID,
			Lines:   userCart.Lines(),
			Request: body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userCart.Clear(r.Context())
		if logg != nil {
			ctx := logg.WithTransactionCode(r.Context(), result.TransactionCode)
			logg.Info(ctx, "checkout.completed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// TransactionsHistory pages the caller's own receipts.
func TransactionsHistory(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.History(r.Context(), transactions.HistoryFilter{
			UserID: userID,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedResponse{Items: rows, Page: page, Limit: limit, Total: total})
	}
}

// TransactionsGet returns one receipt, owner-only.
func TransactionsGet(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := pathUUID(r, "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
