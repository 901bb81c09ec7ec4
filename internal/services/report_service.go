package services

import (
	"fmt"
	"time"

	"github.com/hydroapp/hydro-backend/internal/models"
	"gorm.io/gorm"
)

// StreakThresholds are the best-streak values that unlock achievements.
var StreakThresholds = []int{7, 14, 30}

// DayStat is the projection of one local day used by windows and calendars.
// Days without a materialized row carry a zero total and the live goal.
type DayStat struct {
	Date    string `json:"date"`
	TotalML int    `json:"total_ml"`
	GoalML  int    `json:"goal_ml"`
	MetGoal bool   `json:"met_goal"`
}

// CalendarCell is one day of the month grid. Ratio is total/goal clamped
// to [0,2] for visual intensity; InMonth marks padding days.
type CalendarCell struct {
	Date    string  `json:"date"`
	TotalML int     `json:"total_ml"`
	GoalML  int     `json:"goal_ml"`
	MetGoal bool    `json:"met_goal"`
	Ratio   float64 `json:"ratio"`
	InMonth bool    `json:"in_month"`
}

type MonthSummary struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalML    int     `json:"total_ml"`
	DaysMet    int     `json:"days_met"`
	DaysInMon  int     `json:"days_in_month"`
	PctDaysMet float64 `json:"pct_days_met"`
}

// Snapshot is the full Mini App state: the only shape the web view reads.
type Snapshot struct {
	Profile      *models.User         `json:"profile"`
	Today        DayStat              `json:"today"`
	Entries      []models.IntakeEntry `json:"entries"`
	PctComplete  int                  `json:"pct_complete"`
	Week         []DayStat            `json:"week"`
	Achievements []int                `json:"achievements"`
	Calendar     []CalendarCell       `json:"calendar"`
}

type ReportService struct {
	db       *gorm.DB
	profiles *ProfileService
	intake   *IntakeService
	stats    *StatsService
	now      func() time.Time
}

func NewReportService(db *gorm.DB, profiles *ProfileService, intake *IntakeService, stats *StatsService) *ReportService {
	return &ReportService{
		db:       db,
		profiles: profiles,
		intake:   intake,
		stats:    stats,
		now:      time.Now,
	}
}

// StateSnapshot is the read-your-writes state query: it refreshes today's
// stat (and streaks) before projecting, so a snapshot taken right after an
// add already reflects it even if the add came through another path.
func (s *ReportService) StateSnapshot(tgID int64, offsetMin int) (*Snapshot, error) {
	if _, err := s.profiles.RecomputeGoal(tgID); err != nil {
		return nil, err
	}

	today := LocalDateFor(s.now(), offsetMin)
	stat, err := s.stats.Refresh(tgID, today)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(tgID)
	if err != nil {
		return nil, err
	}

	entries, err := s.intake.EntriesForDay(tgID, today, 20)
	if err != nil {
		return nil, err
	}

	week, err := s.RollingWindow(tgID, today, 7)
	if err != nil {
		return nil, err
	}

	y, m := monthOf(today)
	calendar, err := s.MonthCalendar(tgID, y, m)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Profile:      profile,
		Today:        dayStatOf(stat),
		Entries:      entries,
		PctComplete:  percentComplete(stat.TotalML, stat.GoalML),
		Week:         week,
		Achievements: achievementsFor(profile.BestStreak),
		Calendar:     calendar,
	}, nil
}

// RollingWindow returns n consecutive local days ending at endDate,
// zero-filled for days with no materialized row.
func (s *ReportService) RollingWindow(tgID int64, endDate string, n int) ([]DayStat, error) {
	if n <= 0 {
		n = 7
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid window end date %q: %w", endDate, err)
	}
	start := end.AddDate(0, 0, -(n - 1)).Format(dateLayout)

	rows, liveGoal, err := s.statRange(tgID, start, endDate)
	if err != nil {
		return nil, err
	}

	window := make([]DayStat, 0, n)
	for d := start; d <= endDate; d = nextDate(d) {
		if st, ok := rows[d]; ok {
			window = append(window, dayStatOf(&st))
		} else {
			window = append(window, DayStat{Date: d, GoalML: liveGoal})
		}
	}
	return window, nil
}

// MonthCalendar returns the month padded to whole weeks starting Monday.
func (s *ReportService) MonthCalendar(tgID int64, year, month int) ([]CalendarCell, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	// Back up to Monday, extend to Sunday.
	gridStart := first.AddDate(0, 0, -mondayIndex(first.Weekday()))
	gridEnd := last.AddDate(0, 0, 6-mondayIndex(last.Weekday()))

	rows, liveGoal, err := s.statRange(tgID, gridStart.Format(dateLayout), gridEnd.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	var cells []CalendarCell
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		cell := CalendarCell{
			Date:    date,
			GoalML:  liveGoal,
			InMonth: d.Month() == first.Month(),
		}
		if st, ok := rows[date]; ok {
			cell.TotalML = st.TotalML
			cell.GoalML = st.GoalML
			cell.MetGoal = st.MetGoal
		}
		cell.Ratio = intensityRatio(cell.TotalML, cell.GoalML)
		cells = append(cells, cell)
	}
	return cells, nil
}

// MonthSummary aggregates one month for export.
func (s *ReportService) MonthSummary(tgID int64, year, month int) (*MonthSummary, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	rows, _, err := s.statRange(tgID, first.Format(dateLayout), last.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	summary := MonthSummary{Year: year, Month: month, DaysInMon: last.Day()}
	for _, st := range rows {
		summary.TotalML += st.TotalML
		if st.MetGoal {
			summary.DaysMet++
		}
	}
	summary.PctDaysMet = float64(summary.DaysMet) / float64(summary.DaysInMon) * 100
	return &summary, nil
}

// MonthDays returns every day of the month as a projection row, for the
// CSV export.
func (s *ReportService) MonthDays(tgID int64, year, month int) ([]DayStat, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.RollingWindow(tgID, last.Format(dateLayout), last.Day())
}

func (s *ReportService) statRange(tgID int64, start, end string) (map[string]models.DailyStat, int, error) {
	var stats []models.DailyStat
	err := s.db.Where("tg_id = ? AND local_date >= ? AND local_date <= ?", tgID, start, end).
		Find(&stats).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load stats %s..%s: %w", start, end, err)
	}
	rows := make(map[string]models.DailyStat, len(stats))
	for _, st := range stats {
		rows[st.LocalDate] = st
	}

	user, err := s.profiles.GetProfile(tgID)
	if err != nil {
		return nil, 0, err
	}
	return rows, GoalInEffect(user), nil
}

func dayStatOf(st *models.DailyStat) DayStat {
	return DayStat{Date: st.LocalDate, TotalML: st.TotalML, GoalML: st.GoalML, MetGoal: st.MetGoal}
}

// percentComplete clamps to [0,100]; drinking past the goal reads as 100.
func percentComplete(total, goal int) int {
	if goal <= 0 {
		return 0
	}
	pct := total * 100 / goal
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// intensityRatio clamps total/goal to [0,2].
func intensityRatio(total, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	r := float64(total) / float64(goal)
	if r > 2 {
		return 2
	}
	if r < 0 {
		return 0
	}
	return r
}

func achievementsFor(bestStreak int) []int {
	unlocked := []int{}
	for _, t := range StreakThresholds {
		if bestStreak >= t {
			unlocked = append(unlocked, t)
		}
	}
	return unlocked
}

func monthOf(date string) (int, int) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		now := time.Now().UTC()
		return now.Year(), int(now.Month())
	}
	return t.Year(), int(t.Month())
}

// mondayIndex maps time.Weekday to a Monday-first 0..6 index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
