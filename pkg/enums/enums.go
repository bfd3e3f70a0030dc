package enums

import "strings"

// PaymentMethod enumerates how a transaction was settled.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodQRIS PaymentMethod = "qris"
)

// ParsePaymentMethod normalizes the raw value, returning false when unknown.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentMethodCash:
		return PaymentMethodCash, true
	case PaymentMethodQRIS:
		return PaymentMethodQRIS, true
	}
	return "", false
}

func (m PaymentMethod) String() string {
	return string(m)
}

// UserRole enumerates the roles a cashier account can hold.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleCashier UserRole = "cashier"
)

func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case UserRoleAdmin:
		return UserRoleAdmin, true
	case UserRoleCashier:
		return UserRoleCashier, true
	}
	return "", false
}

func (r UserRole) String() string {
	return string(r)
}
