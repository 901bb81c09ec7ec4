package services

import (
	"errors"
	"fmt"

	"github.com/hydroapp/hydro-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsService owns the materialized daily_stats projection and the streak
// counters derived from it. Every write path in the repo funnels through
// Refresh: it is the only way a day's total, met flag, or a streak moves.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Refresh recomputes one local day from the ledger, upserts the stat row
// with the goal pinned at this moment, and recomputes streaks. Idempotent:
// with an unchanged ledger the stored row comes out identical.
func (s *StatsService) Refresh(tgID int64, localDate string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		stat, err = refreshDay(tx, tgID, localDate)
		if err != nil {
			return err
		}
		return recomputeStreaks(tx, tgID, localDate)
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// RebuildDay is the explicit repair path: rebuild a day's stat purely from
// the ledger. It is the same computation as Refresh on purpose; the
// projection has no other way to change.
func (s *StatsService) RebuildDay(tgID int64, localDate string) (*models.DailyStat, error) {
	return s.Refresh(tgID, localDate)
}

// StatForDay reads the materialized row. Missing days project as zero
// totals against the goal currently in effect, without persisting a row.
func (s *StatsService) StatForDay(tgID int64, localDate string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := s.db.First(&stat, "tg_id = ? AND local_date = ?", tgID, localDate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var user models.User
		if err := s.db.First(&user, "tg_id = ?", tgID).Error; err != nil {
			return nil, fmt.Errorf("failed to load user %d: %w", tgID, err)
		}
		return &models.DailyStat{
			TgID:      tgID,
			LocalDate: localDate,
			GoalML:    GoalInEffect(&user),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stat: %w", err)
	}
	return &stat, nil
}

func refreshDayAndStreaks(tx *gorm.DB, tgID int64, localDate string) error {
	if _, err := refreshDay(tx, tgID, localDate); err != nil {
		return err
	}
	return recomputeStreaks(tx, tgID, localDate)
}

// userForUpdate loads the user row with a FOR UPDATE lock. Every write
// transaction takes it first, so concurrent writes for the same user
// serialize and each ledger sum sees the full committed history. The
// sqlite dialect drops the locking clause.
func userForUpdate(tx *gorm.DB, tgID int64) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("tg_id = ?", tgID)
}

func refreshDay(tx *gorm.DB, tgID int64, localDate string) (models.DailyStat, error) {
	var user models.User
	if err := userForUpdate(tx, tgID).First(&user).Error; err != nil {
		return models.DailyStat{}, fmt.Errorf("failed to load user %d: %w", tgID, err)
	}

	total, err := sumForDay(tx, tgID, localDate)
	if err != nil {
		return models.DailyStat{}, err
	}

	goal := GoalInEffect(&user)
	stat := models.DailyStat{
		TgID:      tgID,
		LocalDate: localDate,
		TotalML:   total,
		GoalML:    goal,
		MetGoal:   goal > 0 && total >= goal,
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tg_id"}, {Name: "local_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_ml", "goal_ml", "met_goal", "updated_at"}),
	}).Create(&stat).Error
	if err != nil {
		return models.DailyStat{}, fmt.Errorf("failed to upsert daily stat: %w", err)
	}
	return stat, nil
}

// recomputeStreaks derives both streak counters from the full daily stat
// history. Full recompute over days (bounded by wall-clock time, not
// intake volume) cannot desynchronize from the projection the way an
// incremental compare-with-yesterday update can.
func recomputeStreaks(tx *gorm.DB, tgID int64, refDate string) error {
	var stats []models.DailyStat
	err := tx.Where("tg_id = ?", tgID).
		Order("local_date ASC").
		Find(&stats).Error
	if err != nil {
		return fmt.Errorf("failed to load stat history: %w", err)
	}

	met := make(map[string]bool, len(stats))
	for _, st := range stats {
		if st.MetGoal {
			met[st.LocalDate] = true
		}
	}

	// Best: longest run of calendar-consecutive met days, scanned ascending.
	// A day that is present but unmet breaks adjacency the same way a
	// missing day does.
	best := 0
	run := 0
	prevMet := ""
	for _, st := range stats {
		if !st.MetGoal {
			continue
		}
		if prevMet != "" && nextDate(prevMet) == st.LocalDate {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prevMet = st.LocalDate
	}

	// Current: walk backward one calendar day at a time from the reference
	// date. An unfinished reference day is skipped, not counted as a gap,
	// so a streak is never zeroed mid-day.
	start := refDate
	if !met[start] {
		start = prevDate(start)
	}
	current := 0
	for d := start; met[d]; d = prevDate(d) {
		current++
	}

	var user models.User
	if err := userForUpdate(tx, tgID).First(&user).Error; err != nil {
		return fmt.Errorf("failed to load user %d: %w", tgID, err)
	}
	if current > best {
		best = current
	}
	if user.BestStreak > best {
		// Best streak is monotone even if history rows vanished.
		best = user.BestStreak
	}

	return tx.Model(&models.User{}).
		Where("tg_id = ?", tgID).
		Updates(map[string]interface{}{
			"current_streak":   current,
			"best_streak":      best,
			"last_streak_date": refDate,
		}).Error
}
