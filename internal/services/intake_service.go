package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hydroapp/hydro-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAmountOutOfRange = errors.New("amount must be between 1 and 5000 ml")
	ErrUnknownCategory  = errors.New("unknown drink category")
	ErrEntryNotFound    = errors.New("intake entry not found")
)

const maxAmountML = 5000

// CategoryFactors maps drink categories to their hydration multiplier.
// The multiplier is applied exactly once, at append time, and the result
// is stored on the entry as EffectiveML.
var CategoryFactors = map[string]float64{
	"water":  1.0,
	"tea":    0.8,
	"coffee": 0.6,
}

type IntakeService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIntakeService(db *gorm.DB) *IntakeService {
	return &IntakeService{db: db, now: time.Now}
}

// Append records one consumption event and refreshes the day's stat and
// the user's streaks in the same transaction, so the materialized row is
// never stale relative to the ledger.
func (s *IntakeService) Append(tgID int64, amountML int, category string, at time.Time, offsetMin int) (*models.IntakeEntry, error) {
	if amountML <= 0 || amountML > maxAmountML {
		return nil, ErrAmountOutOfRange
	}
	if category == "" {
		category = "water"
	}
	factor, ok := CategoryFactors[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	entry := models.IntakeEntry{
		TgID:        tgID,
		DrankAt:     at,
		LocalDate:   LocalDateFor(at, offsetMin),
		Category:    category,
		AmountML:    amountML,
		EffectiveML: int(float64(amountML) * factor),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append intake: %w", err)
		}
		return refreshDayAndStreaks(tx, tgID, entry.LocalDate)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove undoes an entry. Only the owning user may remove it; anything
// else reads as not found. The day the entry was pinned to is refreshed
// in the same transaction.
func (s *IntakeService) Remove(tgID int64, entryID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var entry models.IntakeEntry
		err := tx.First(&entry, "id = ? AND tg_id = ?", entryID, tgID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load intake entry: %w", err)
		}

		result := tx.Where("id = ? AND tg_id = ?", entryID, tgID).Delete(&models.IntakeEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete intake entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEntryNotFound
		}
		return refreshDayAndStreaks(tx, tgID, entry.LocalDate)
	})
}

// SumForDay returns the effective-ml total for one local day.
func (s *IntakeService) SumForDay(tgID int64, localDate string) (int, error) {
	return sumForDay(s.db, tgID, localDate)
}

func sumForDay(db *gorm.DB, tgID int64, localDate string) (int, error) {
	var total int64
	err := db.Model(&models.IntakeEntry{}).
		Where("tg_id = ? AND local_date = ?", tgID, localDate).
		Select("COALESCE(SUM(effective_ml), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum intake for %s: %w", localDate, err)
	}
	return int(total), nil
}

// EntriesForDay returns the day's entries newest-first.
func (s *IntakeService) EntriesForDay(tgID int64, localDate string, limit int) ([]models.IntakeEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var entries []models.IntakeEntry
	err := s.db.Where("tg_id = ? AND local_date = ?", tgID, localDate).
		Order("drank_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list intake for %s: %w", localDate, err)
	}
	return entries, nil
}
