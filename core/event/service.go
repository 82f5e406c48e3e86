package event

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("event not found")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		QueryEvents(ctx context.Context) ([]Event, error)
		GetEvent(ctx context.Context, id string) (Event, error)
		UpdateEvent(ctx context.Context, evt Event, isActive *bool) (Event, error)
		DeleteEventsByID(ctx context.Context, ids ...string) error

		// QueryCriteria returns an Event's criteria ordered by display order.
		QueryCriteria(ctx context.Context, eventID string) ([]Criterion, error)
		// ReplaceCriteria deletes an Event's existing criteria and inserts the given batch.
		ReplaceCriteria(ctx context.Context, eventID string, criteria []Criterion) ([]Criterion, error)
	}

	Service interface {
		Create(ctx context.Context, ne NewEvent) (Event, error)
		Query(ctx context.Context) ([]Event, error)
		GetByID(ctx context.Context, id string) (Event, error)
		Update(ctx context.Context, id string, ue UpdateEvent) (Event, error)
		Delete(ctx context.Context, ids ...string) error
		QueryCriteria(ctx context.Context, eventID string) ([]Criterion, error)
		ReplaceCriteria(ctx context.Context, eventID string, batch []NewCriterion) ([]Criterion, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		Name:      ne.Name,
		Season:    ne.Season,
		StartsAt:  ne.StartsAt,
		EndsAt:    ne.EndsAt,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *service) Query(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEvents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}

	if ue.Name != "" {
		evt.Name = ue.Name
	}
	if ue.Season != "" {
		evt.Season = ue.Season
	}
	if !ue.StartsAt.IsZero() {
		evt.StartsAt = ue.StartsAt
	}
	if !ue.EndsAt.IsZero() {
		evt.EndsAt = ue.EndsAt
	}
	evt.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateEvent(ctx, evt, ue.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEventsByID(ctx, ids...)
}

func (svc *service) QueryCriteria(ctx context.Context, eventID string) ([]Criterion, error) {
	return svc.repo.QueryCriteria(ctx, eventID)
}

// ReplaceCriteria swaps an Event's full criteria set for the given batch,
// assigning fresh display order indices. There is no single-criterion update.
func (svc *service) ReplaceCriteria(ctx context.Context, eventID string, batch []NewCriterion) ([]Criterion, error) {
	if _, err := svc.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	criteria := make([]Criterion, 0, len(batch))
	for i, nc := range batch {
		weight := nc.Weight
		if weight == 0 {
			weight = 1
		}
		criteria = append(criteria, Criterion{
			EventID:      eventID,
			Name:         nc.Name,
			MaxScore:     nc.MaxScore,
			Weight:       weight,
			DisplayOrder: i,
		})
	}
	return svc.repo.ReplaceCriteria(ctx, eventID, criteria)
}
