package event

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shindano/core"
)

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Season    string    `json:"season"` // eg. "2020-2021"
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Criterion is a named, weighted evaluation dimension with a maximum score, scoped to one Event.
// Criteria have no single-row update: editing one requires re-importing the full set.
type Criterion struct {
	ID           string  `json:"id"`
	EventID      string  `json:"event_id"`
	Name         string  `json:"criteria_name"`
	MaxScore     float64 `json:"max_score"`
	Weight       float64 `json:"weight"`
	DisplayOrder int     `json:"display_order"`
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Name     string    `json:"name" validate:"required"`
	Season   string    `json:"season"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Season = core.CleanString(ne.Season)
	return validate.Struct(ne)
}

// UpdateEvent defines what information may be provided to modify an existing Event.
// Zero-valued fields are left untouched.
type UpdateEvent struct {
	Name     string    `json:"name"`
	Season   string    `json:"season"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	IsActive *bool     `json:"is_active"`
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Name = core.CleanString(ue.Name)
	ue.Season = core.CleanString(ue.Season)
	return validate.Struct(ue)
}

// NewCriterion is one entry of a criteria import batch.
type NewCriterion struct {
	Name     string  `json:"criteria_name" validate:"required"`
	MaxScore float64 `json:"max_score" validate:"positive"`
	Weight   float64 `json:"weight" validate:"omitempty,positive"` // defaults to 1
}

// CriteriaImport is the replace-all payload for an Event's criteria.
type CriteriaImport struct {
	Criteria []NewCriterion `json:"criteria" validate:"min=1,dive"`
}

func (ci *CriteriaImport) Validate(ctx context.Context, validate *validator.Validate) error {
	for i := range ci.Criteria {
		ci.Criteria[i].Name = core.CleanString(ci.Criteria[i].Name)
	}
	return validate.StructCtx(ctx, ci)
}
