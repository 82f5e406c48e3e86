package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shindano/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = uuid.New().String()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0, len(repo.db.events))
	for _, e := range repo.db.events {
		events = append(events, *e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.events[id]; ok {
		return *e, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt event.Event, isActive *bool) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.events[evt.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	if isActive != nil {
		evt.IsActive = *isActive
	}
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.events, id)
	}
	return nil
}

func (repo *eventRepository) QueryCriteria(ctx context.Context, eventID string) ([]event.Criterion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	criteria := make([]event.Criterion, 0)
	for _, c := range repo.db.criteria {
		if c.EventID == eventID {
			criteria = append(criteria, *c)
		}
	}
	sort.SliceStable(criteria, func(i, j int) bool { return criteria[i].DisplayOrder < criteria[j].DisplayOrder })
	return criteria, nil
}

func (repo *eventRepository) ReplaceCriteria(ctx context.Context, eventID string, criteria []event.Criterion) ([]event.Criterion, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, c := range repo.db.criteria {
		if c.EventID == eventID {
			delete(repo.db.criteria, id)
		}
	}

	inserted := make([]event.Criterion, 0, len(criteria))
	for _, c := range criteria {
		c.ID = uuid.New().String()
		c.EventID = eventID
		crit := c
		repo.db.criteria[c.ID] = &crit
		inserted = append(inserted, c)
	}
	return inserted, nil
}
