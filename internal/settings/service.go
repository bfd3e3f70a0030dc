package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var knownKeys = map[string]struct{}{
	models.SettingKeyTaxRate:       {},
	models.SettingKeyStoreName:     {},
	models.SettingKeyReceiptFooter: {},
}

// Service exposes the store settings over the key/value table.
type Service interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, error)
	Update(ctx context.Context, key, value string) error
	// TaxRate returns the configured percentage as a decimal, e.g. 11 for 11%.
	// A missing row means no tax.
	TaxRate(ctx context.Context) (decimal.Decimal, error)
}

type repository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	All(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key, value string) error
}

type service struct {
	repo repository
}

// NewService constructs the settings service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, key string) (string, error) {
	row, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setting")
	}
	return row.Value, nil
}

func (s *service) Update(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if _, ok := knownKeys[key]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown setting key")
	}
	if key == models.SettingKeyTaxRate {
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || rate.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be a non-negative number")
		}
		value = rate.String()
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save setting")
	}
	return nil
}

func (s *service) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	row, err := s.repo.Get(ctx, models.SettingKeyTaxRate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tax rate")
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(row.Value))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse tax rate")
	}
	if rate.IsNegative() {
		return decimal.Zero, nil
	}
	return rate, nil
}
