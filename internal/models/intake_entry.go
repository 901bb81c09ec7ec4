package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntakeEntry is one consumption event in the append-only ledger. Rows are
// immutable once written; undo deletes them. LocalDate is derived from the
// UTC instant plus the client's offset at insert time and never changes
// afterwards, even if the client later reports a different offset.
type IntakeEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TgID        int64     `gorm:"not null;index:idx_intake_user_day,priority:1" json:"tg_id"`
	DrankAt     time.Time `gorm:"not null" json:"drank_at"`
	LocalDate   string    `gorm:"size:10;not null;index:idx_intake_user_day,priority:2" json:"local_date"`
	Category    string    `gorm:"size:20;not null;default:water" json:"category"`
	AmountML    int       `gorm:"not null" json:"amount_ml"`
	EffectiveML int       `gorm:"not null" json:"effective_ml"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *IntakeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
