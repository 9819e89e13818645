package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkin-service/internal/service"
)

// ReportsHandler exposes attendance views for organizers.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Day handles GET /reports/days/:day.
func (h *ReportsHandler) Day(c *fiber.Ctx) error {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "day must be an integer")
	}

	rows, err := h.reports.Day(c.Context(), day)
	if err != nil {
		return err
	}

	type entry struct {
		AttendeeID   string    `json:"attendee_id"`
		FullName     string    `json:"full_name"`
		Email        string    `json:"email"`
		Organization string    `json:"organization,omitempty"`
		ScannerID    string    `json:"scanner_id"`
		ScannedAt    time.Time `json:"scanned_at"`
	}
	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entry{
			AttendeeID:   row.AttendeeID,
			FullName:     row.FullName,
			Email:        row.Email,
			Organization: row.Organization,
			ScannerID:    row.ScannerID,
			ScannedAt:    row.ScannedAt,
		})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"day":       day,
		"total":     len(entries),
		"attendees": entries,
	}})
}

// ExportDay handles GET /reports/days/:day/export, streaming CSV.
func (h *ReportsHandler) ExportDay(c *fiber.Ctx) error {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "day must be an integer")
	}

	var buf bytes.Buffer
	if err := h.reports.ExportDayCSV(c.Context(), day, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance-day-%d.csv"`, day))
	return c.Send(buf.Bytes())
}

// History handles GET /reports/attendees/:id.
func (h *ReportsHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(http.StatusBadRequest, "id required")
	}

	records, err := h.reports.History(c.Context(), id)
	if err != nil {
		return err
	}

	type entry struct {
		Day       int       `json:"day"`
		ScannerID string    `json:"scanner_id"`
		ScannedAt time.Time `json:"scanned_at"`
	}
	entries := make([]entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entry{Day: record.Day, ScannerID: record.ScannerID, ScannedAt: record.ScannedAt})
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Overview handles GET /reports/overview.
func (h *ReportsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.reports.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}
