package team

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core"
)

type Team struct {
	ID         string      `json:"id"`
	EventID    string      `json:"event_id"`
	Name       string      `json:"name"`
	SchoolName null.String `json:"school_name"`
	// TotalScore is derived from recorded scores; it is recomputed on every
	// score submission and on leaderboard recalculation.
	TotalScore float64   `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewTeam contains information needed to create a new Team.
type NewTeam struct {
	Name       string `json:"name" validate:"required"`
	SchoolName string `json:"school_name"`
}

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.SchoolName = core.CleanString(nt.SchoolName)
	return validate.Struct(nt)
}

// UpdateTeam defines what information may be provided to modify an existing Team.
// Zero-valued fields are left untouched.
type UpdateTeam struct {
	Name       string `json:"name"`
	SchoolName string `json:"school_name"`
}

func (ut *UpdateTeam) Validate(validate *validator.Validate) error {
	ut.Name = core.CleanString(ut.Name)
	ut.SchoolName = core.CleanString(ut.SchoolName)
	return validate.Struct(ut)
}
