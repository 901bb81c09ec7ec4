package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hydroapp/hydro-backend/internal/dto"
	"github.com/hydroapp/hydro-backend/internal/middleware"
	"github.com/hydroapp/hydro-backend/internal/services"
)

// WebAppHandler serves the Mini App JSON API. Every mutating endpoint
// replies with a fresh state snapshot so the web view never needs a
// follow-up read.
type WebAppHandler struct {
	profiles *services.ProfileService
	intake   *services.IntakeService
	reports  *services.ReportService
}

func NewWebAppHandler(profiles *services.ProfileService, intake *services.IntakeService, reports *services.ReportService) *WebAppHandler {
	return &WebAppHandler{profiles: profiles, intake: intake, reports: reports}
}

// State handles POST /api/state.
func (h *WebAppHandler) State(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.AuthedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return h.snapshot(c, tgID, req.TzOffsetMin)
}

// StateV2 handles GET /api/v2/state?tz_offset_min= (JWT auth).
func (h *WebAppHandler) StateV2(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	if _, err := h.profiles.EnsureUser(tgID, "", ""); err != nil {
		return serverError(c, "Failed to provision user")
	}
	return h.snapshot(c, tgID, c.QueryInt("tz_offset_min", 0))
}

// Add handles POST /api/add.
func (h *WebAppHandler) Add(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.AddIntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, err = h.intake.Append(tgID, req.AmountML, req.Category, time.Time{}, req.TzOffsetMin)
	if err != nil {
		if errors.Is(err, services.ErrAmountOutOfRange) || errors.Is(err, services.ErrUnknownCategory) {
			return badRequest(c, err.Error())
		}
		return serverError(c, "Failed to record intake")
	}
	return h.snapshot(c, tgID, req.TzOffsetMin)
}

// Undo handles POST /api/undo.
func (h *WebAppHandler) Undo(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UndoIntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		return badRequest(c, "Invalid entry id")
	}

	if err := h.intake.Remove(tgID, entryID); err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Entry not found",
			})
		}
		return serverError(c, "Failed to undo intake")
	}
	return h.snapshot(c, tgID, req.TzOffsetMin)
}

// SetGoal handles POST /api/goal.
func (h *WebAppHandler) SetGoal(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.SetGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := h.profiles.SetGoal(tgID, req.GoalML); err != nil {
		if errors.Is(err, services.ErrGoalOutOfRange) {
			return badRequest(c, err.Error())
		}
		return serverError(c, "Failed to set goal")
	}
	return h.snapshot(c, tgID, req.TzOffsetMin)
}

// SetWeight handles POST /api/weight.
func (h *WebAppHandler) SetWeight(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.SetWeightRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := h.profiles.SetWeight(tgID, req.WeightKg); err != nil {
		if errors.Is(err, services.ErrWeightOutOfRange) {
			return badRequest(c, err.Error())
		}
		return serverError(c, "Failed to set weight")
	}
	return h.snapshot(c, tgID, req.TzOffsetMin)
}

func (h *WebAppHandler) snapshot(c *fiber.Ctx, tgID int64, offsetMin int) error {
	snap, err := h.reports.StateSnapshot(tgID, offsetMin)
	if err != nil {
		return serverError(c, "Failed to build state")
	}
	return c.JSON(snap)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
