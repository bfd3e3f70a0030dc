package audit

import (
	"context"
	"fmt"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

// Entry is the caller-facing shape of one audit record.
type Entry struct {
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Detail   string
}

// Service records notable actions. Recording failures are logged, never
// surfaced: an audit miss must not fail the action it describes.
type Service interface {
	Record(ctx context.Context, entry Entry)
	ListRecent(ctx context.Context, page, limit int) ([]models.AuditLog, int64, error)
}

type repository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, page, limit int) ([]models.AuditLog, int64, error)
}

type service struct {
	repo repository
	logg *logger.Logger
}

// NewService constructs the audit service.
func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, entry Entry) {
	row := &models.AuditLog{
		UserID: entry.UserID,
		Action: entry.Action,
		Entity: entry.Entity,
	}
	if entry.EntityID != nil {
		id := entry.EntityID.String()
		row.EntityID = &id
	}
	if entry.Detail != "" {
		detail := entry.Detail
		row.Detail = &detail
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "action", entry.Action), "audit record failed", err)
	}
}

func (s *service) ListRecent(ctx context.Context, page, limit int) ([]models.AuditLog, int64, error) {
	rows, count, err := s.repo.ListRecent(ctx, page, limit)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit log")
	}
	return rows, count, nil
}
