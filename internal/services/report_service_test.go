package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hydroapp/hydro-backend/internal/models"
)

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		total, goal, want int
	}{
		{0, 2000, 0},
		{1000, 2000, 50},
		{2000, 2000, 100},
		{3000, 2000, 100}, // clamped, not 150
		{500, 0, 0},       // no goal reads as 0, not a division
	}
	for _, tt := range tests {
		if got := percentComplete(tt.total, tt.goal); got != tt.want {
			t.Errorf("percentComplete(%d, %d) = %d, want %d", tt.total, tt.goal, got, tt.want)
		}
	}
}

func TestIntensityRatio(t *testing.T) {
	tests := []struct {
		total, goal int
		want        float64
	}{
		{0, 2000, 0},
		{1000, 2000, 0.5},
		{5000, 2000, 2.0}, // clamped, not 2.5
		{500, 0, 0},
	}
	for _, tt := range tests {
		if got := intensityRatio(tt.total, tt.goal); got != tt.want {
			t.Errorf("intensityRatio(%d, %d) = %v, want %v", tt.total, tt.goal, got, tt.want)
		}
	}
}

func TestAchievements(t *testing.T) {
	tests := []struct {
		best int
		want []int
	}{
		{0, []int{}},
		{6, []int{}},
		{7, []int{7}},
		{20, []int{7, 14}},
		{30, []int{7, 14, 30}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, achievementsFor(tt.best)); diff != "" {
			t.Errorf("achievementsFor(%d) mismatch (-want +got):\n%s", tt.best, diff)
		}
	}
}

func TestRollingWindowZeroFills(t *testing.T) {
	_, profiles, intake, _, reports := newTestServices(t)
	mustEnsure(t, profiles, 1)
	if _, err := profiles.SetWeight(1, 70); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}

	// Activity on two of seven days.
	d3 := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	d6 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	if _, err := intake.Append(1, 1000, "water", d3, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := intake.Append(1, 2400, "water", d6, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	window, err := reports.RollingWindow(1, "2025-06-15", 7)
	if err != nil {
		t.Fatalf("RollingWindow: %v", err)
	}
	if len(window) != 7 {
		t.Fatalf("len(window) = %d, want 7", len(window))
	}
	if window[0].Date != "2025-06-09" || window[6].Date != "2025-06-15" {
		t.Errorf("window spans %s..%s, want 2025-06-09..2025-06-15", window[0].Date, window[6].Date)
	}
	for i, day := range window {
		switch day.Date {
		case "2025-06-12":
			if day.TotalML != 1000 || day.MetGoal {
				t.Errorf("day %s = %+v, want 1000 unmet", day.Date, day)
			}
		case "2025-06-15":
			if day.TotalML != 2400 || !day.MetGoal {
				t.Errorf("day %s = %+v, want 2400 met", day.Date, day)
			}
		default:
			if day.TotalML != 0 || day.MetGoal {
				t.Errorf("window[%d] = %+v, want zero-filled", i, day)
			}
			if day.GoalML != 2310 {
				t.Errorf("window[%d].GoalML = %d, want live goal 2310", i, day.GoalML)
			}
		}
	}
}

func TestMonthCalendarPaddedToWeeks(t *testing.T) {
	_, profiles, _, _, reports := newTestServices(t)
	mustEnsure(t, profiles, 1)

	// June 2025: the 1st is a Sunday, the 30th a Monday.
	cells, err := reports.MonthCalendar(1, 2025, 6)
	if err != nil {
		t.Fatalf("MonthCalendar: %v", err)
	}
	if len(cells)%7 != 0 {
		t.Errorf("len(cells) = %d, want a multiple of 7", len(cells))
	}
	if cells[0].Date != "2025-05-26" {
		t.Errorf("grid starts %s, want Monday 2025-05-26", cells[0].Date)
	}
	if cells[len(cells)-1].Date != "2025-07-06" {
		t.Errorf("grid ends %s, want Sunday 2025-07-06", cells[len(cells)-1].Date)
	}

	inMonth := 0
	for _, cell := range cells {
		if cell.InMonth {
			inMonth++
		}
	}
	if inMonth != 30 {
		t.Errorf("in-month cells = %d, want 30", inMonth)
	}
}

func TestMonthCalendarRatioUsesPinnedGoal(t *testing.T) {
	_, profiles, intake, _, reports := newTestServices(t)
	mustEnsure(t, profiles, 1)
	if _, err := profiles.SetGoal(1, 2000); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}

	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if _, err := intake.Append(1, 5000, "water", at, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	cells, err := reports.MonthCalendar(1, 2025, 6)
	if err != nil {
		t.Fatalf("MonthCalendar: %v", err)
	}
	for _, cell := range cells {
		if cell.Date == "2025-06-10" {
			if cell.Ratio != 2.0 {
				t.Errorf("ratio = %v, want clamped 2.0", cell.Ratio)
			}
			if cell.GoalML != 2000 {
				t.Errorf("GoalML = %d, want pinned 2000", cell.GoalML)
			}
			return
		}
	}
	t.Fatal("2025-06-10 not in grid")
}

func TestMonthSummary(t *testing.T) {
	_, profiles, intake, _, reports := newTestServices(t)
	mustEnsure(t, profiles, 1)
	if _, err := profiles.SetGoal(1, 1000); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}

	for day := 1; day <= 3; day++ {
		at := time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)
		if _, err := intake.Append(1, 1000, "water", at, 0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	at := time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)
	if _, err := intake.Append(1, 400, "water", at, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	summary, err := reports.MonthSummary(1, 2025, 6)
	if err != nil {
		t.Fatalf("MonthSummary: %v", err)
	}
	want := &MonthSummary{Year: 2025, Month: 6, TotalML: 3400, DaysMet: 3, DaysInMon: 30, PctDaysMet: 10}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

// TestSnapshotEndToEnd walks the lifecycle from first contact to a streak
// increment.
func TestSnapshotEndToEnd(t *testing.T) {
	db, profiles, intake, _, reports := newTestServices(t)
	mustEnsure(t, profiles, 1)

	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	reports.now = func() time.Time { return today }

	// No weight: goal 0, drinking never meets it.
	if _, err := intake.Append(1, 500, "water", today, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}
	snap, err := reports.StateSnapshot(1, 0)
	if err != nil {
		t.Fatalf("StateSnapshot: %v", err)
	}
	if snap.Today.GoalML != 0 || snap.Today.MetGoal {
		t.Fatalf("today = %+v, want goal 0 unmet", snap.Today)
	}
	if snap.PctComplete != 0 {
		t.Errorf("PctComplete = %d, want 0", snap.PctComplete)
	}

	// Yesterday was met (seeded); meeting today's goal should extend it.
	if err := db.Create(&models.DailyStat{
		TgID: 1, LocalDate: "2025-06-14", TotalML: 2310, GoalML: 2310, MetGoal: true,
	}).Error; err != nil {
		t.Fatalf("seed yesterday: %v", err)
	}

	if _, err := profiles.SetWeight(1, 70); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	if _, err := intake.Append(1, 1810, "water", today, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	snap, err = reports.StateSnapshot(1, 0)
	if err != nil {
		t.Fatalf("StateSnapshot: %v", err)
	}
	if snap.Today.TotalML != 2310 || snap.Today.GoalML != 2310 || !snap.Today.MetGoal {
		t.Fatalf("today = %+v, want 2310/2310 met", snap.Today)
	}
	if snap.PctComplete != 100 {
		t.Errorf("PctComplete = %d, want 100", snap.PctComplete)
	}
	if snap.Profile.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (yesterday + today)", snap.Profile.CurrentStreak)
	}
	if len(snap.Week) != 7 {
		t.Errorf("len(Week) = %d, want 7", len(snap.Week))
	}
	if len(snap.Entries) != 2 {
		t.Errorf("len(Entries) = %d, want 2", len(snap.Entries))
	}
	if len(snap.Calendar)%7 != 0 {
		t.Errorf("len(Calendar) = %d, want multiple of 7", len(snap.Calendar))
	}
}
