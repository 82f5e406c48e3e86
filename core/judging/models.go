package judging

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core"
)

// Assignment statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Assignment is the authorization link between a Judge and a Team they may score.
// Status flips to StatusCompleted on the judge's first score submission for the
// team, regardless of how many criteria were scored.
type Assignment struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	JudgeID   string    `json:"judge_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Score is one judge's rating (+ optional feedback) for one team on one criterion.
// Unique on (TeamID, JudgeID, CriterionID); re-submission replaces prior values.
type Score struct {
	ID          string      `json:"id"`
	TeamID      string      `json:"team_id"`
	JudgeID     string      `json:"judge_id"`
	CriterionID string      `json:"criteria_id"`
	Value       float64     `json:"score"`
	Feedback    null.String `json:"feedback"`
	// Weight is the scored criterion's weight, populated on reads via a join;
	// it is never written through this struct.
	Weight    float64   `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// ScoreInput is one entry of a judge's score submission.
// The max-score cap is advisory: the frontend enforces it, the server does not.
type ScoreInput struct {
	CriterionID string  `json:"criteria_id" validate:"required"`
	Value       float64 `json:"score" validate:"gte=0"`
	Feedback    string  `json:"feedback"`
}

// ScoreSubmission is the ordered tuple list a judge submits for one team.
type ScoreSubmission []ScoreInput

func (ss ScoreSubmission) Validate(validate *validator.Validate) error {
	for i := range ss {
		ss[i].Feedback = core.CleanString(ss[i].Feedback)
	}
	return validate.Var(ss, "min=1,dive")
}
