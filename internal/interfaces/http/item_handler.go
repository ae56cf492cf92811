package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/provgso/requisition-api/internal/application/dto"
	"github.com/provgso/requisition-api/internal/application/requisition"
)

// ItemHandler serves the inventory item routes (protected).
type ItemHandler struct {
	gateway *requisition.Gateway
}

// NewItemHandler builds the handler.
func NewItemHandler(gateway *requisition.Gateway) *ItemHandler {
	return &ItemHandler{gateway: gateway}
}

// Create registers a new stock item.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	item, err := h.gateway.CreateItem(c.Context(), GetActorID(c), requisition.CreateItemInput{
		Name:         in.Name,
		Unit:         in.Unit,
		PhysicalQty:  in.PhysicalQty,
		ReorderPoint: in.ReorderPoint,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromItem(item))
}

// List returns every item with counters and low-stock flags.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.gateway.ListItems(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.FromItem(item))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Availability returns the available count for one item, cache-first.
func (h *ItemHandler) Availability(c *fiber.Ctx) error {
	available, err := h.gateway.ItemAvailability(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"item_id": c.Params("id"), "available": available})
}

// Movements returns the stock movement journal for one item.
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	movements, err := h.gateway.ItemMovements(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}
