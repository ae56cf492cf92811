package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/provgso/requisition-api/internal/application/requisition"
)

// RouterDeps are the router's dependencies.
type RouterDeps struct {
	Gateway   *requisition.Gateway
	Slips     *requisition.SlipUseCase
	JWTSecret string
}

// Router registers the API routes. Everything is behind the bearer token
// middleware; per-operation capability checks happen in the gateway.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	requisitions := api.Group("/requisitions")
	requisitionHandler := NewRequisitionHandler(deps.Gateway, deps.Slips)
	requisitions.Post("/", requisitionHandler.Submit)
	requisitions.Get("/", requisitionHandler.List)
	requisitions.Get("/:id", requisitionHandler.GetByID)
	requisitions.Get("/:id/slip", requisitionHandler.Slip)
	requisitions.Post("/:id/verify", requisitionHandler.Verify)
	requisitions.Post("/:id/approve", requisitionHandler.Approve)
	requisitions.Post("/:id/issue", requisitionHandler.Issue)
	requisitions.Post("/:id/receive", requisitionHandler.Receive)
	requisitions.Post("/:id/reject", requisitionHandler.Reject)

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Gateway)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id/availability", itemHandler.Availability)
	items.Get("/:id/movements", itemHandler.Movements)
}
