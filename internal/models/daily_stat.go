package models

import "time"

// DailyStat is the materialized per-(user, local day) aggregate. It is a
// rebuildable projection of the intake ledger, never the source of truth:
// any row can be reproduced by summing the day's entries against the goal
// in effect. GoalML is pinned at refresh time so historical days keep the
// goal they were judged against.
type DailyStat struct {
	TgID      int64     `gorm:"primaryKey;autoIncrement:false" json:"tg_id"`
	LocalDate string    `gorm:"primaryKey;size:10" json:"local_date"`
	TotalML   int       `gorm:"not null;default:0" json:"total_ml"`
	GoalML    int       `gorm:"not null;default:0" json:"goal_ml"`
	MetGoal   bool      `gorm:"not null;default:false" json:"met_goal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
