package controllers

import (
	"io"
	"net/http"

	"github.com/ardiansetya/kasirpoint-backend/api/middleware"
	"github.com/ardiansetya/kasirpoint-backend/api/responses"
	"github.com/ardiansetya/kasirpoint-backend/internal/media"
	"github.com/ardiansetya/kasirpoint-backend/internal/users"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

// readImagePart extracts the multipart "file" part, capping the body at
// maxBytes.
func readImagePart(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	return data, header.Header.Get("Content-Type"), nil
}

// MediaUpload accepts a multipart "file" part and returns the stored URL.
// The kind path segment decides where the object lands.
func MediaUpload(svc media.Service, logg *logger.Logger, kind media.Kind, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		data, contentType, err := readImagePart(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.UploadImage(r.Context(), media.UploadInput{
			Kind:        kind,
			ContentType: contentType,
			Data:        data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": url})
	}
}

// MeUploadImage stores the caller's profile image and persists its URL on the
// user row.
func MeUploadImage(repo *users.Repository, svc media.Service, logg *logger.Logger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		data, contentType, err := readImagePart(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.UploadImage(r.Context(), media.UploadInput{
			Kind:        media.KindUser,
			ContentType: contentType,
			Data:        data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.UpdateImageURL(r.Context(), userID, url); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile image"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}
