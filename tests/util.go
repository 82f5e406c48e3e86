package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
	dummydb "github.com/trezcool/shindano/storage/database/dummy"
)

func OpenDB(t *testing.T) *dummydb.DB {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func ResetDB(t *testing.T, db *dummydb.DB) {
	t.Helper()
	db.Reset()
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateEvent(t *testing.T, repo event.Repository, name, season string) event.Event {
	t.Helper()
	now := time.Now().UTC()
	evt, err := repo.CreateEvent(context.Background(), event.Event{
		Name:      name,
		Season:    season,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return evt
}

// CreateCriteria replaces evt's criteria; weights default to 1 when zero.
func CreateCriteria(t *testing.T, repo event.Repository, evt event.Event, batch ...event.NewCriterion) []event.Criterion {
	t.Helper()
	criteria := make([]event.Criterion, 0, len(batch))
	for i, nc := range batch {
		weight := nc.Weight
		if weight == 0 {
			weight = 1
		}
		criteria = append(criteria, event.Criterion{
			EventID:      evt.ID,
			Name:         nc.Name,
			MaxScore:     nc.MaxScore,
			Weight:       weight,
			DisplayOrder: i,
		})
	}
	criteria, err := repo.ReplaceCriteria(context.Background(), evt.ID, criteria)
	if err != nil {
		t.Fatalf("CreateCriteria() failed: %v", err)
	}
	return criteria
}

func CreateTeam(t *testing.T, repo team.Repository, evt event.Event, name, school string) team.Team {
	t.Helper()
	now := time.Now().UTC()
	tm := team.Team{
		EventID:   evt.ID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if school != "" {
		tm.SchoolName.SetValid(school)
	}
	tm, err := repo.CreateTeam(context.Background(), tm)
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	return tm
}

func AssignJudge(t *testing.T, repo judging.Repository, tm team.Team, judge user.User) judging.Assignment {
	t.Helper()
	now := time.Now().UTC()
	a, err := repo.CreateAssignment(context.Background(), judging.Assignment{
		TeamID:    tm.ID,
		JudgeID:   judge.ID,
		Status:    judging.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("AssignJudge() failed: %v", err)
	}
	return a
}

// SubmitScore writes one score row directly through the repository.
func SubmitScore(
	t *testing.T,
	repo judging.Repository,
	tm team.Team,
	judge user.User,
	criterion event.Criterion,
	value float64,
	createdAt ...time.Time,
) {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	err := repo.UpsertScores(context.Background(), []judging.Score{{
		TeamID:      tm.ID,
		JudgeID:     judge.ID,
		CriterionID: criterion.ID,
		Value:       value,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}})
	if err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}
}
