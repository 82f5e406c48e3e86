package event_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/event"
	dummydb "github.com/trezcool/shindano/storage/database/dummy"
	testutil "github.com/trezcool/shindano/tests"
)

func TestService_ReplaceCriteria(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	repo := dummydb.NewEventRepository(db)
	svc := event.NewService(repo)

	evt := testutil.CreateEvent(t, repo, "Science Fair", "2020-2021")

	criteria, err := svc.ReplaceCriteria(ctx, evt.ID, []event.NewCriterion{
		{Name: "Innovation", MaxScore: 10, Weight: 2},
		{Name: "Presentation", MaxScore: 10}, // no weight given
	})
	if err != nil {
		t.Fatalf("ReplaceCriteria() failed: %v", err)
	}

	if assert.Len(t, criteria, 2) {
		assert.Equal(t, 2.0, criteria[0].Weight)
		assert.Equal(t, 1.0, criteria[1].Weight) // defaulted
		assert.Equal(t, 0, criteria[0].DisplayOrder)
		assert.Equal(t, 1, criteria[1].DisplayOrder)
	}

	// a re-import replaces the whole set
	criteria, err = svc.ReplaceCriteria(ctx, evt.ID, []event.NewCriterion{
		{Name: "Impact", MaxScore: 20},
	})
	if err != nil {
		t.Fatalf("ReplaceCriteria() failed: %v", err)
	}
	assert.Len(t, criteria, 1)

	fetched, err := svc.QueryCriteria(ctx, evt.ID)
	if err != nil {
		t.Fatalf("QueryCriteria() failed: %v", err)
	}
	if assert.Len(t, fetched, 1) {
		assert.Equal(t, "Impact", fetched[0].Name)
	}
}

func TestService_ReplaceCriteria_eventNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := event.NewService(dummydb.NewEventRepository(db))

	_, err := svc.ReplaceCriteria(context.Background(), "c2a5ffea-9f27-4f4e-9a78-96a7709affcc", []event.NewCriterion{
		{Name: "Innovation", MaxScore: 10},
	})
	if errors.Cause(err) != event.ErrNotFound {
		t.Fatalf("ReplaceCriteria() err = %v; want ErrNotFound", err)
	}
}

func TestService_Update(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	repo := dummydb.NewEventRepository(db)
	svc := event.NewService(repo)

	evt := testutil.CreateEvent(t, repo, "Science Fair", "2020-2021")

	inactive := false
	updated, err := svc.Update(ctx, evt.ID, event.UpdateEvent{Name: "Regional Science Fair", IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, "Regional Science Fair", updated.Name)
	assert.Equal(t, "2020-2021", updated.Season) // untouched
	assert.False(t, updated.IsActive)
}
