package admin

import (
	"fitledger/database"
	"fitledger/helpers"
	"fitledger/models"

	"github.com/gofiber/fiber/v2"
)

func ListCommissions(c *fiber.Ctx) error {
	query := database.DB.Model(&models.AffiliateCommission{}).Order("id DESC")

	if code := c.Query("referrer_code"); code != "" {
		query = query.Where("referrer_code = ?", code)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var commissions []models.AffiliateCommission
	if err := query.Limit(200).Find(&commissions).Error; err != nil {
		return helpers.JSONServerError(c, "FAILED_TO_FETCH_COMMISSIONS")
	}

	return helpers.JSONSuccess(c, "Commissions retrieved successfully", fiber.Map{
		"count":       len(commissions),
		"commissions": commissions,
	})
}

func GetOrder(c *fiber.Ctx) error {
	paymentID := c.Params("payment_id")
	if paymentID == "" {
		return helpers.JSONError(c, "PAYMENT_ID_REQUIRED")
	}

	var order models.Order
	if err := database.DB.Preload("Commission").
		Where("mollie_payment_id = ?", paymentID).
		First(&order).Error; err != nil {
		return helpers.JSONError(c, "ORDER_NOT_FOUND")
	}

	return helpers.JSONSuccess(c, "Order retrieved successfully", order)
}
