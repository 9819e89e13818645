package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkin-service/internal/api/dto"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/service"
)

// RegistrationsHandler exposes attendee intake and credential issuance.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// Create handles POST /registrations.
func (h *RegistrationsHandler) Create(c *fiber.Ctx) error {
	var req dto.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	attendee, token, err := h.registrations.Register(c.Context(), req.FullName, req.Email, req.Organization, req.Position)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.RegistrationResponse{
			Attendee:   attendeeView(attendee),
			Credential: token,
		},
	})
}

// List handles GET /registrations.
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	attendees, err := h.registrations.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	views := make([]dto.AttendeeResponse, 0, len(attendees))
	for i := range attendees {
		views = append(views, attendeeView(&attendees[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Credential handles GET /registrations/:id/credential. Credentials are not
// stored; this regenerates the signed token from the registration record.
func (h *RegistrationsHandler) Credential(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(http.StatusBadRequest, "id required")
	}

	attendee, token, err := h.registrations.Credential(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.RegistrationResponse{
			Attendee:   attendeeView(attendee),
			Credential: token,
		},
	})
}

func attendeeView(attendee *domain.Attendee) dto.AttendeeResponse {
	return dto.AttendeeResponse{
		ID:           attendee.ID,
		FullName:     attendee.FullName,
		Email:        attendee.Email,
		Organization: attendee.Organization,
		Position:     attendee.Position,
		CreatedAt:    attendee.CreatedAt,
	}
}
