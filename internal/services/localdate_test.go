package services

import (
	"testing"
	"time"
)

func TestLocalDateFor(t *testing.T) {
	// 2025-03-10 23:30 UTC
	ts := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		offsetMin int
		want      string
	}{
		{"utc", 0, "2025-03-10"},
		{"east of utc rolls forward", 180, "2025-03-11"},
		{"west of utc stays", -300, "2025-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalDateFor(ts, tt.offsetMin); got != tt.want {
				t.Errorf("LocalDateFor(%v, %d) = %q, want %q", ts, tt.offsetMin, got, tt.want)
			}
		})
	}
}

func TestLocalDateForWestRollsBack(t *testing.T) {
	// 00:30 UTC with a -120 offset is still the previous local day.
	ts := time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)
	if got := LocalDateFor(ts, -120); got != "2025-03-10" {
		t.Errorf("got %q, want 2025-03-10", got)
	}
}

func TestPrevNextDate(t *testing.T) {
	if got := prevDate("2025-03-01"); got != "2025-02-28" {
		t.Errorf("prevDate = %q, want 2025-02-28", got)
	}
	if got := nextDate("2024-02-28"); got != "2024-02-29" {
		t.Errorf("nextDate = %q, want 2024-02-29 (leap year)", got)
	}
	if got := nextDate("2025-12-31"); got != "2026-01-01" {
		t.Errorf("nextDate = %q, want 2026-01-01", got)
	}
}
