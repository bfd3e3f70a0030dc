package controllers

import (
	"net/http"

	"github.com/ardiansetya/kasirpoint-backend/api/responses"
	"github.com/ardiansetya/kasirpoint-backend/api/validators"
	"github.com/ardiansetya/kasirpoint-backend/internal/audit"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/ardiansetya/kasirpoint-backend/pkg/pagination"
)

// AuditList pages the audit trail, newest first. Admin-gated at the route.
func AuditList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		rows, total, err := svc.ListRecent(r.Context(), page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedResponse{Items: rows, Page: page, Limit: limit, Total: total})
	}
}
