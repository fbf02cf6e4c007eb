package services

import (
	"errors"
	"log"
	"os"
	"strconv"

	"fitledger/database"
	"fitledger/helpers"
	"fitledger/models"
	"fitledger/providers/mollie"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reconJobName = "mollie_payment_recon"

type ReconSummary struct {
	Total           int `json:"total"`
	Inserted        int `json:"inserted"`
	Updated         int `json:"updated"`
	Commissions     int `json:"commissions"`
	UnknownStatuses int `json:"unknown_statuses"`
}

type reconConfig struct {
	VatRate        decimal.Decimal
	CommissionRate decimal.Decimal
	PageLimit      int
	MaxPages       int
}

func loadReconConfig() reconConfig {
	return reconConfig{
		VatRate:        envDecimal("VAT_RATE", "0.21"),
		CommissionRate: envDecimal("COMMISSION_RATE", "0.20"),
		PageLimit:      envInt("RECON_PAGE_LIMIT", 250),
		MaxPages:       envInt("RECON_MAX_PAGES", 4),
	}
}

func envDecimal(key, fallback string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("⚠️  Invalid value for %s: %s, using %s", key, raw, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid value for %s: %s, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

// RunPaymentReconciliation walks the provider's payment list page by page,
// mirrors every payment into the orders ledger and books commissions for
// paid, referral-attributed orders. Re-running is always safe: both writes
// are keyed on unique columns.
func RunPaymentReconciliation() (*ReconSummary, error) {
	client := mollie.NewClientFromEnv()
	if client.APIKey == "" {
		return nil, mollie.ErrMissingAPIKey
	}

	cfg := loadReconConfig()
	runID := uuid.New().String()
	summary := &ReconSummary{}

	cursor := loadCursor(reconJobName)
	if cursor != "" {
		log.Printf("🟡 [recon %s] Resuming from cursor %s", runID, cursor)
	}

	for page := 0; page < cfg.MaxPages; page++ {
		result, err := client.ListPayments(cursor, cfg.PageLimit)
		if err != nil {
			return nil, err
		}

		for i := range result.Payments {
			payment := &result.Payments[i]

			created, unknown, err := SyncPayment(payment)
			if err != nil {
				log.Printf("❌ [recon %s] Failed to sync payment %s (cursor %q): %v", runID, payment.ID, cursor, err)
				continue
			}

			summary.Total++
			if created {
				summary.Inserted++
			} else {
				summary.Updated++
			}
			if unknown {
				summary.UnknownStatuses++
			}

			var order models.Order
			if err := database.DB.Where("mollie_payment_id = ?", payment.ID).First(&order).Error; err != nil {
				log.Printf("❌ [recon %s] Order lookup failed for %s: %v", runID, payment.ID, err)
				continue
			}

			booked, err := EnsureCommission(&order, cfg.VatRate, cfg.CommissionRate)
			if err != nil {
				log.Printf("❌ [recon %s] Failed to book commission for order %d (%s): %v", runID, order.ID, payment.ID, err)
				continue
			}
			if booked {
				summary.Commissions++
			}
		}

		cursor = result.NextCursor
		saveCursor(reconJobName, cursor)

		if cursor == "" {
			break
		}
	}

	log.Printf("✅ [recon %s] total=%d inserted=%d updated=%d commissions=%d unknown=%d",
		runID, summary.Total, summary.Inserted, summary.Updated, summary.Commissions, summary.UnknownStatuses)

	return summary, nil
}

// SyncPayment mirrors one provider payment into the orders table, keyed by
// mollie_payment_id. The insert is an atomic upsert so overlapping runs
// cannot create duplicate rows; created reports whether this call saw the
// payment for the first time, unknown whether the provider status fell
// outside the known vocabulary.
func SyncPayment(payment *mollie.Payment) (created bool, unknown bool, err error) {
	status, known := models.NormalizeStatus(payment.Status)
	if !known {
		log.Printf("⚠️  Unknown provider status %q for payment %s", payment.Status, payment.ID)
	}

	order := models.Order{
		MolliePaymentID: payment.ID,
		AmountInclVat:   helpers.ParseAmount(payment.Amount.Value),
		Currency:        payment.Amount.Currency,
		Status:          status,
		CustomerEmail:   payment.CustomerEmail(),
		CustomerName:    payment.CustomerName(),
		ReferrerCode:    payment.ReferrerCode(),
		PaidAt:          payment.PaidAt,
		Metadata:        datatypes.JSON(payment.Metadata),
	}

	var existing models.Order
	lookupErr := database.DB.Where("mollie_payment_id = ?", payment.ID).First(&existing).Error
	if lookupErr != nil && !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return false, !known, lookupErr
	}

	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		// Fresh payment. ON CONFLICT covers the race where a concurrent run
		// inserted it between the lookup and this statement; referrer_code
		// and created_at are deliberately excluded from the update list.
		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "mollie_payment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount_incl_vat", "currency", "status",
				"customer_email", "customer_name", "paid_at", "metadata", "updated_at",
			}),
		}).Create(&order).Error
		return err == nil, !known, err
	}

	updates := map[string]any{
		"amount_incl_vat": order.AmountInclVat,
		"currency":        order.Currency,
		"status":          order.Status,
		"customer_email":  order.CustomerEmail,
		"customer_name":   order.CustomerName,
		"paid_at":         order.PaidAt,
		"metadata":        order.Metadata,
	}
	// Attribution is immutable once set, but a late-arriving metadata update
	// is still captured on re-sync.
	if existing.ReferrerCode == "" && order.ReferrerCode != "" {
		updates["referrer_code"] = order.ReferrerCode
	}

	err = database.DB.Model(&models.Order{}).
		Where("mollie_payment_id = ?", payment.ID).
		Updates(updates).Error
	return false, !known, err
}

// EnsureCommission books the affiliate commission for an order, exactly
// once. Orders that are not settled or carry no attribution are skipped.
// The unique index on order_id makes the insert race-proof: a concurrent
// duplicate collapses into ON CONFLICT DO NOTHING.
func EnsureCommission(order *models.Order, vatRate, commissionRate decimal.Decimal) (bool, error) {
	if !order.IsPayable() || order.ReferrerCode == "" {
		return false, nil
	}

	var existing models.AffiliateCommission
	err := database.DB.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	exclVat := helpers.ExclVat(order.AmountInclVat, vatRate)
	commission := models.AffiliateCommission{
		OrderID:          order.ID,
		ReferrerCode:     order.ReferrerCode,
		AmountInclVat:    order.AmountInclVat,
		AmountExclVat:    exclVat,
		CommissionAmount: exclVat.Mul(commissionRate).Round(2),
		Status:           models.CommissionStatusApproved,
	}

	res := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(&commission)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func loadCursor(jobName string) string {
	var row models.ReconCursor
	if err := database.DB.Where("job_name = ?", jobName).First(&row).Error; err != nil {
		return ""
	}
	return row.Cursor
}

func saveCursor(jobName, cursor string) {
	row := models.ReconCursor{JobName: jobName, Cursor: cursor}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"cursor", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		log.Printf("⚠️  Failed to persist cursor for %s: %v", jobName, err)
	}
}
