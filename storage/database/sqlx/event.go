package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core/event"
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

type dbEvent struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Season    string    `db:"season"`
	StartsAt  null.Time `db:"starts_at"`
	EndsAt    null.Time `db:"ends_at"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type dbCriterion struct {
	ID           string  `db:"id"`
	EventID      string  `db:"event_id"`
	Name         string  `db:"criteria_name"`
	MaxScore     float64 `db:"max_score"`
	Weight       float64 `db:"weight"`
	DisplayOrder int     `db:"display_order"`
}

func (repo eventRepository) row(evt event.Event) dbEvent {
	return dbEvent{
		ID:        evt.ID,
		Name:      evt.Name,
		Season:    evt.Season,
		StartsAt:  null.NewTime(evt.StartsAt.UTC(), !evt.StartsAt.IsZero()),
		EndsAt:    null.NewTime(evt.EndsAt.UTC(), !evt.EndsAt.IsZero()),
		IsActive:  evt.IsActive,
		CreatedAt: evt.CreatedAt.UTC(),
		UpdatedAt: evt.UpdatedAt.UTC(),
	}
}

func (repo eventRepository) unrow(e dbEvent) event.Event {
	return event.Event{
		ID:        e.ID,
		Name:      e.Name,
		Season:    e.Season,
		StartsAt:  e.StartsAt.Time,
		EndsAt:    e.EndsAt.Time,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (repo eventRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return event.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.New().String()
	e := repo.row(evt)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO event (id, name, season, starts_at, ends_at, is_active, created_at, updated_at)
		 VALUES (:id, :name, :season, :starts_at, :ends_at, :is_active, :created_at, :updated_at)`, e)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return repo.unrow(e), nil
}

func (repo eventRepository) QueryEvents(ctx context.Context) ([]event.Event, error) {
	var rows []dbEvent
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM event ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, e := range rows {
		events = append(events, repo.unrow(e))
	}
	return events, nil
}

func (repo eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}
	var e dbEvent
	if err := repo.db.GetContext(ctx, &e, `SELECT * FROM event WHERE id = $1`, id); err != nil {
		return event.Event{}, repo.trapNoRowsErr(err, "finding event by ID")
	}
	return repo.unrow(e), nil
}

func (repo eventRepository) UpdateEvent(ctx context.Context, evt event.Event, isActive *bool) (event.Event, error) {
	if isActive != nil {
		evt.IsActive = *isActive
	}
	e := repo.row(evt)
	_, err := repo.db.NamedExecContext(ctx,
		`UPDATE event
		 SET name = :name, season = :season, starts_at = :starts_at, ends_at = :ends_at,
		     is_active = :is_active, updated_at = :updated_at
		 WHERE id = :id`, e)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	return repo.unrow(e), nil
}

func (repo eventRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM event WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	return nil
}

func (repo eventRepository) QueryCriteria(ctx context.Context, eventID string) ([]event.Criterion, error) {
	var rows []dbCriterion
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM evaluation_criteria WHERE event_id = $1 ORDER BY display_order`, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "querying criteria")
	}
	criteria := make([]event.Criterion, 0, len(rows))
	for _, c := range rows {
		criteria = append(criteria, event.Criterion(c))
	}
	return criteria, nil
}

// ReplaceCriteria deletes then re-inserts; the two statements are sequential, not atomic.
func (repo eventRepository) ReplaceCriteria(ctx context.Context, eventID string, criteria []event.Criterion) ([]event.Criterion, error) {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM evaluation_criteria WHERE event_id = $1`, eventID); err != nil {
		return nil, errors.Wrap(err, "deleting criteria")
	}

	inserted := make([]event.Criterion, 0, len(criteria))
	for _, c := range criteria {
		c.ID = uuid.New().String()
		c.EventID = eventID
		_, err := repo.db.NamedExecContext(ctx,
			`INSERT INTO evaluation_criteria (id, event_id, criteria_name, max_score, weight, display_order)
			 VALUES (:id, :event_id, :criteria_name, :max_score, :weight, :display_order)`, dbCriterion(c))
		if err != nil {
			return nil, errors.Wrap(err, "inserting criterion")
		}
		inserted = append(inserted, c)
	}
	return inserted, nil
}
