package routes

import (
	"fitledger/controllers/admin"
	"fitledger/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	adminroutes := app.Group("/admin", middlewares.AdminAuth())
	adminroutes.Post("/reconcile", admin.RunReconciliation)
	adminroutes.Get("/commissions", admin.ListCommissions)
	adminroutes.Get("/orders/:payment_id", admin.GetOrder)
}
