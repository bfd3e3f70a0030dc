package reports

import (
	"strings"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
)

// Filter holds the optional predicates a transaction report search composes.
// Substring matches are case-insensitive; date bounds are inclusive.
type Filter struct {
	TransactionCode string
	ProductName     string
	UserID          *uuid.UUID
	From            *time.Time
	To              *time.Time
	PaymentMethod   string
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.TransactionCode) == "" &&
		strings.TrimSpace(f.ProductName) == "" &&
		f.UserID == nil &&
		f.From == nil &&
		f.To == nil &&
		strings.TrimSpace(f.PaymentMethod) == ""
}

// Validate rejects searches that would scan the whole table or carry an
// inconsistent date range. No query is issued for an invalid filter.
func (f Filter) Validate() error {
	if f.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "apply at least one filter")
	}
	if (f.From == nil) != (f.To == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "both date fields are required")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return pkgerrors.New(pkgerrors.CodeValidation, "to date cannot be before from date")
	}
	if method := strings.TrimSpace(f.PaymentMethod); method != "" {
		if _, ok := enums.ParsePaymentMethod(method); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
		}
	}
	return nil
}

// narrowByProductName is the post-fetch narrowing step: the relational filter
// cannot express "any purchased item's product name matches", so rows are
// fetched without that predicate and narrowed here. A narrowed page can be
// shorter than the requested limit even when more matches exist server-side.
func narrowByProductName(rows []models.Transaction, productName string) []models.Transaction {
	needle := strings.ToLower(strings.TrimSpace(productName))
	if needle == "" {
		return rows
	}
	out := rows[:0]
	for _, tx := range rows {
		for _, item := range tx.Items {
			if strings.Contains(strings.ToLower(item.ProductName), needle) {
				out = append(out, tx)
				break
			}
		}
	}
	return out
}
