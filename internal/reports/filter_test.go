package reports

import (
	"testing"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	userID := uuid.New()

	cases := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "empty", filter: Filter{}, wantErr: true},
		{name: "whitespace only", filter: Filter{TransactionCode: "   "}, wantErr: true},
		{name: "from without to", filter: Filter{From: &from}, wantErr: true},
		{name: "to without from", filter: Filter{To: &to}, wantErr: true},
		{name: "inverted range", filter: Filter{From: &to, To: &from}, wantErr: true},
		{name: "bad payment method", filter: Filter{PaymentMethod: "cheque"}, wantErr: true},
		{name: "code only", filter: Filter{TransactionCode: "TXN-1A2B"}},
		{name: "product name only", filter: Filter{ProductName: "kopi"}},
		{name: "user only", filter: Filter{UserID: &userID}},
		{name: "full range", filter: Filter{From: &from, To: &to}},
		{name: "same day range", filter: Filter{From: &from, To: &from}},
		{name: "payment method mixed case", filter: Filter{PaymentMethod: "QRIS"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.filter.Validate()
			if tc.wantErr {
				if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNarrowByProductName(t *testing.T) {
	t.Parallel()

	rows := []models.Transaction{
		{Items: []models.TransactionItem{{ProductName: "Kopi Susu Gula Aren"}}},
		{Items: []models.TransactionItem{{ProductName: "Roti Bakar"}, {ProductName: "Es Kopi"}}},
		{Items: []models.TransactionItem{{ProductName: "Es Teh"}}},
		{Items: nil},
	}

	got := narrowByProductName(rows, "  KOPI ")
	if len(got) != 2 {
		t.Fatalf("narrowed to %d rows, want 2", len(got))
	}

	// Empty needle leaves the page untouched.
	rows = []models.Transaction{{Items: []models.TransactionItem{{ProductName: "Es Teh"}}}}
	if got := narrowByProductName(rows, "   "); len(got) != 1 {
		t.Fatalf("empty needle narrowed the page: %d rows", len(got))
	}
}
