package leaderboard

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Entry is one row of an event's leaderboard snapshot: a rank plus a
// denormalized copy of the team's name, school and total at calculation time.
// The whole snapshot is disposable and fully regenerated on every recalculation.
type Entry struct {
	ID           string      `json:"-"`
	EventID      string      `json:"-"`
	TeamID       string      `json:"team_id"`
	Rank         int         `json:"rank"`
	TotalScore   float64     `json:"total_score"`
	TeamName     string      `json:"team_name"`
	SchoolName   null.String `json:"school_name"`
	CalculatedAt time.Time   `json:"calculated_at"` // UTC
}
