package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/provgso/requisition-api/internal/application/dto"
	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// RequisitionHandler serves the requisition workflow routes (protected).
type RequisitionHandler struct {
	gateway *requisition.Gateway
	slips   *requisition.SlipUseCase
}

// NewRequisitionHandler builds the handler.
func NewRequisitionHandler(gateway *requisition.Gateway, slips *requisition.SlipUseCase) *RequisitionHandler {
	return &RequisitionHandler{gateway: gateway, slips: slips}
}

// errorJSON maps domain sentinel errors to HTTP responses.
func errorJSON(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid input"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permission denied"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "request is no longer in the expected status, refresh and retry"})
	case errors.Is(err, domain.ErrInsufficientAvailability):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABILITY", Message: "insufficient available stock"})
	case errors.Is(err, domain.ErrInsufficientPhysicalStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_PHYSICAL_STOCK", Message: "insufficient physical stock"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "resource already exists"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toLineInputs(items []dto.LineItemInput) []requisition.LineInput {
	out := make([]requisition.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, requisition.LineInput{ItemID: it.ItemID, Qty: it.Qty})
	}
	return out
}

// Submit files a new requisition for the authenticated actor.
func (h *RequisitionHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	req, err := h.gateway.Submit(c.Context(), GetActorID(c), in.Purpose, toLineInputs(in.Items))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRequest(req))
}

// Verify locks in quantities, optionally adjusted.
func (h *RequisitionHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
		}
	}
	req, err := h.gateway.Verify(c.Context(), GetActorID(c), c.Params("id"), toLineInputs(in.Items))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// Approve authorizes release.
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	if err := h.gateway.Approve(c.Context(), GetActorID(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "request approved"})
}

// Issue hands the stock out.
func (h *RequisitionHandler) Issue(c *fiber.Ctx) error {
	if err := h.gateway.Issue(c.Context(), GetActorID(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "request issued"})
}

// Receive confirms receipt.
func (h *RequisitionHandler) Receive(c *fiber.Ctx) error {
	if err := h.gateway.Receive(c.Context(), GetActorID(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "request received"})
}

// Reject terminates the requisition.
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	if err := h.gateway.Reject(c.Context(), GetActorID(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "request rejected"})
}

// GetByID returns one requisition.
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.gateway.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// List returns requisitions filtered by status, requester, or "mine".
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	if c.QueryBool("mine") {
		reqs, err := h.gateway.MyRequests(c.Context(), GetActorID(c))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(listResponse(reqs))
	}

	filter := repository.RequestFilter{RequesterID: c.Query("requester_id")}
	if s := c.Query("status"); s != "" {
		status := entity.Status(s)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown status"})
		}
		filter.Status = status
	}
	reqs, err := h.gateway.ListRequests(c.Context(), filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(listResponse(reqs))
}

func listResponse(reqs []*entity.SupplyRequest) fiber.Map {
	out := make([]dto.RequisitionResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, dto.FromRequest(req))
	}
	return fiber.Map{"total": len(out), "requests": out}
}

// Slip returns the printable requisition and issue slip PDF.
func (h *RequisitionHandler) Slip(c *fiber.Ctx) error {
	pdfBytes, err := h.slips.GenerateSlip(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ris-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}
