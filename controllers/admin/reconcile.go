package admin

import (
	"errors"

	"fitledger/helpers"
	"fitledger/providers/mollie"
	"fitledger/services"

	"github.com/gofiber/fiber/v2"
)

func RunReconciliation(c *fiber.Ctx) error {
	summary, err := services.RunPaymentReconciliation()
	if err != nil {
		if errors.Is(err, mollie.ErrMissingAPIKey) {
			return helpers.JSONError(c, "MOLLIE_API_KEY_NOT_CONFIGURED")
		}
		return helpers.JSONServerError(c, "PROVIDER_UNAVAILABLE")
	}

	return helpers.JSONSuccess(c, "Reconciliation completed", summary)
}
