package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CommissionStatusApproved = "approved"
	CommissionStatusReversed = "reversed"
	CommissionStatusPaidOut  = "paid_out"
)

type AffiliateCommission struct {
	gorm.Model

	OrderID      uint   `gorm:"uniqueIndex" json:"order_id"`
	ReferrerCode string `gorm:"size:32;index" json:"referrer_code"`

	AmountInclVat    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_incl_vat"`
	AmountExclVat    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_excl_vat"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"commission_amount"`

	Status string `gorm:"size:16;index" json:"status"`
}

func (AffiliateCommission) TableName() string {
	return "affiliate_commissions"
}
