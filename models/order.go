package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusOpen       = "open"
	OrderStatusPending    = "pending"
	OrderStatusAuthorized = "authorized"
	OrderStatusPaid       = "paid"
	OrderStatusCanceled   = "canceled"
	OrderStatusExpired    = "expired"
	OrderStatusFailed     = "failed"
	OrderStatusUnknown    = "unknown"
)

type Order struct {
	gorm.Model

	MolliePaymentID string          `gorm:"uniqueIndex;size:64" json:"mollie_payment_id"`
	AmountInclVat   decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_incl_vat"`
	Currency        string          `gorm:"size:8" json:"currency"`
	Status          string          `gorm:"size:16;index" json:"status"`

	CustomerEmail string `gorm:"size:255" json:"customer_email"`
	CustomerName  string `gorm:"size:255" json:"customer_name"`

	ReferrerCode string     `gorm:"size:32;index" json:"referrer_code"`
	PaidAt       *time.Time `json:"paid_at"`

	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`

	Commission *AffiliateCommission `gorm:"foreignKey:OrderID" json:"commission,omitempty"`
}

// NormalizeStatus maps the provider's status vocabulary onto the closed
// order-status enum. Anything outside the vocabulary becomes "unknown" so
// downstream queries never see a value they cannot handle.
func NormalizeStatus(providerStatus string) (status string, known bool) {
	switch providerStatus {
	case OrderStatusOpen, OrderStatusPending, OrderStatusAuthorized,
		OrderStatusPaid, OrderStatusCanceled, OrderStatusExpired, OrderStatusFailed:
		return providerStatus, true
	default:
		return OrderStatusUnknown, false
	}
}

// IsPayable reports whether the order qualifies for a commission payout:
// paid or authorized, or carrying a settlement timestamp.
func (o *Order) IsPayable() bool {
	if o.Status == OrderStatusPaid || o.Status == OrderStatusAuthorized {
		return true
	}
	return o.PaidAt != nil
}
