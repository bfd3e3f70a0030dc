package controllers

import (
	"net/http"

	"github.com/ardiansetya/kasirpoint-backend/api/middleware"
	"github.com/ardiansetya/kasirpoint-backend/api/responses"
	"github.com/ardiansetya/kasirpoint-backend/api/validators"
	"github.com/ardiansetya/kasirpoint-backend/internal/reports"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

func reportFilterFromQuery(r *http.Request) (reports.Filter, error) {
	userID, err := validators.ParseQueryUUID(r, "user_id")
	if err != nil {
		return reports.Filter{}, err
	}
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return reports.Filter{}, err
	}
	to, err := validators.ParseQueryDateUpper(r, "to")
	if err != nil {
		return reports.Filter{}, err
	}
	return reports.Filter{
		TransactionCode: r.URL.Query().Get("transaction_code"),
		ProductName:     r.URL.Query().Get("product_name"),
		UserID:          userID,
		From:            from,
		To:              to,
		PaymentMethod:   r.URL.Query().Get("payment_method"),
	}, nil
}

func reportEngine(svc *reports.Service, r *http.Request) (*reports.Engine, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return svc.EngineFor(userID), nil
}

// ReportsSearch starts a new report session from the query's filter.
func ReportsSearch(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := reportEngine(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := reportFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := engine.Search(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ReportsLoadMore appends the next page to the caller's session.
func ReportsLoadMore(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := reportEngine(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := engine.LoadMore(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if state == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "no report session; search first"))
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ReportsTotals summarizes the caller's current session.
func ReportsTotals(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := reportEngine(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, engine.Totals())
	}
}
