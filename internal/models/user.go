package models

import "time"

// User is the per-Telegram-account profile. The row is created lazily on
// first contact and never deleted. Streak counters are derived state owned
// by the stats service; BestStreak never drops below CurrentStreak.
type User struct {
	TgID          int64  `gorm:"primaryKey;autoIncrement:false" json:"tg_id"`
	Username      string `gorm:"size:100" json:"username"`
	FirstName     string `gorm:"size:100" json:"first_name"`
	WeightKg      *int   `json:"weight_kg"`
	MlPerKg       int    `gorm:"not null;default:33" json:"ml_per_kg"`
	GoalML        int    `gorm:"not null;default:0" json:"goal_ml"`
	GoalExplicit  bool   `gorm:"not null;default:false" json:"goal_explicit"`
	CurrentStreak int    `gorm:"not null;default:0" json:"current_streak"`
	BestStreak    int    `gorm:"not null;default:0" json:"best_streak"`
	// LastStreakDate is the local date (YYYY-MM-DD) of the last streak
	// recomputation, kept for diagnostics.
	LastStreakDate string    `gorm:"size:10" json:"last_streak_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
