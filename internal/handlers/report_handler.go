package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hydroapp/hydro-backend/internal/middleware"
	"github.com/hydroapp/hydro-backend/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Calendar handles GET /api/v2/calendar?year=&month=.
func (h *ReportHandler) Calendar(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return badRequest(c, "year and month query params required")
	}

	cells, err := h.reports.MonthCalendar(tgID, year, month)
	if err != nil {
		return serverError(c, "Failed to build calendar")
	}
	summary, err := h.reports.MonthSummary(tgID, year, month)
	if err != nil {
		return serverError(c, "Failed to summarize month")
	}
	return c.JSON(fiber.Map{
		"calendar": cells,
		"summary":  summary,
	})
}

// Export handles GET /api/v2/export?year=&month= and streams a CSV of the
// month's daily totals plus a summary footer.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return badRequest(c, "year and month query params required")
	}

	days, err := h.reports.MonthDays(tgID, year, month)
	if err != nil {
		return serverError(c, "Failed to load month")
	}
	summary, err := h.reports.MonthSummary(tgID, year, month)
	if err != nil {
		return serverError(c, "Failed to summarize month")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"date", "total_ml", "goal_ml", "met_goal"})
	for _, d := range days {
		_ = w.Write([]string{
			d.Date,
			strconv.Itoa(d.TotalML),
			strconv.Itoa(d.GoalML),
			strconv.FormatBool(d.MetGoal),
		})
	}
	_ = w.Write([]string{})
	_ = w.Write([]string{"total_ml", strconv.Itoa(summary.TotalML)})
	_ = w.Write([]string{"days_met", strconv.Itoa(summary.DaysMet)})
	_ = w.Write([]string{"pct_days_met", fmt.Sprintf("%.1f", summary.PctDaysMet)})
	w.Flush()
	if err := w.Error(); err != nil {
		return serverError(c, "Failed to render CSV")
	}

	filename := fmt.Sprintf("hydro-%04d-%02d.csv", year, month)
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func yearMonth(c *fiber.Ctx) (int, int, bool) {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
