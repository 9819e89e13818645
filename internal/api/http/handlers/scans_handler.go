package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkin-service/internal/api/dto"
	"github.com/spec-kit/checkin-service/internal/auth"
	"github.com/spec-kit/checkin-service/internal/observability"
	"github.com/spec-kit/checkin-service/internal/service"
	apperrors "github.com/spec-kit/checkin-service/pkg/util/errorutil"
)

// ScansHandler accepts raw scan payloads from networked scanner devices.
// Every expected outcome, including rejections, is a 200 with a result
// envelope; only transient storage failures surface as errors so the
// operator knows a retry is worthwhile.
type ScansHandler struct {
	scans   service.ScanProcessor
	metrics *observability.Metrics
}

// NewScansHandler constructs handler.
func NewScansHandler(scans service.ScanProcessor, metrics *observability.Metrics) *ScansHandler {
	return &ScansHandler{scans: scans, metrics: metrics}
}

// Scan handles POST /scans.
func (h *ScansHandler) Scan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Payload == "" {
		return fiber.NewError(http.StatusBadRequest, "payload required")
	}

	result, err := h.scans.ProcessScan(c.UserContext(), req.Payload, principal.Staff.ID)
	if err != nil {
		h.metrics.RecordScan("STORAGE_ERROR")
		return apperrors.NewStorageError(err)
	}
	h.metrics.RecordScan(string(result.Status))

	resp := dto.ScanResponse{
		Status:  string(result.Status),
		Success: result.Success(),
		Message: result.Message,
		Day:     result.Day,
	}
	if result.Record != nil {
		scannedAt := result.Record.ScannedAt
		resp.ScannedAt = &scannedAt
	}
	if result.Attendee != nil {
		view := attendeeView(result.Attendee)
		resp.Attendee = &view
	}
	return c.JSON(fiber.Map{"data": resp})
}
