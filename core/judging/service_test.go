package judging_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/user"
	dummydb "github.com/trezcool/shindano/storage/database/dummy"
	testutil "github.com/trezcool/shindano/tests"
)

func setup(t *testing.T) (*dummydb.DB, judging.Service, judging.Repository) {
	db := testutil.OpenDB(t)
	repo := dummydb.NewJudgingRepository(db)
	return db, judging.NewService(repo), repo
}

func TestService_SubmitScores_requiresAssignment(t *testing.T) {
	db, svc, repo := setup(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt, event.NewCriterion{Name: "Innovation", MaxScore: 10})
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	sub := judging.ScoreSubmission{{CriterionID: criteria[0].ID, Value: 7}}
	err := svc.SubmitScores(ctx, tm.ID, judge.ID, sub)
	if errors.Cause(err) != judging.ErrNotAssigned {
		t.Fatalf("SubmitScores() err = %v; want ErrNotAssigned", err)
	}

	// the rejection must leave no score rows behind
	scores, err := repo.QueryTeamScores(ctx, tm.ID)
	if err != nil {
		t.Fatalf("QueryTeamScores() failed: %v", err)
	}
	assert.Empty(t, scores)

	tm, err = teamRepo.GetTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 0.0, tm.TotalScore)
}

func TestService_SubmitScores(t *testing.T) {
	db, svc, repo := setup(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt,
		event.NewCriterion{Name: "Innovation", MaxScore: 10, Weight: 2},
		event.NewCriterion{Name: "Presentation", MaxScore: 10}, // weight defaults to 1
	)
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "Greenwood High")
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)
	testutil.AssignJudge(t, repo, tm, judge)

	sub := judging.ScoreSubmission{
		{CriterionID: criteria[0].ID, Value: 5, Feedback: "solid"},
		{CriterionID: criteria[1].ID, Value: 2},
	}
	if err := svc.SubmitScores(ctx, tm.ID, judge.ID, sub); err != nil {
		t.Fatalf("SubmitScores() failed: %v", err)
	}

	// total = (5×2 + 2×1) / 2 score rows = 6;
	// the divisor is the row count, not the weight sum (which would give 4)
	tm, err := teamRepo.GetTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 6.0, tm.TotalScore)

	// assignment flips to completed
	a, err := repo.GetAssignment(ctx, tm.ID, judge.ID)
	if err != nil {
		t.Fatalf("GetAssignment() failed: %v", err)
	}
	assert.Equal(t, judging.StatusCompleted, a.Status)

	// resubmission replaces values on the (team, judge, criterion) key
	resub := judging.ScoreSubmission{
		{CriterionID: criteria[0].ID, Value: 10},
		{CriterionID: criteria[1].ID, Value: 4},
	}
	if err := svc.SubmitScores(ctx, tm.ID, judge.ID, resub); err != nil {
		t.Fatalf("SubmitScores() resubmission failed: %v", err)
	}

	scores, err := repo.QueryTeamScores(ctx, tm.ID)
	if err != nil {
		t.Fatalf("QueryTeamScores() failed: %v", err)
	}
	assert.Len(t, scores, 2)

	tm, err = teamRepo.GetTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 12.0, tm.TotalScore) // (10×2 + 4×1) / 2
}

func TestService_SubmitScores_partialRubricCompletes(t *testing.T) {
	db, svc, repo := setup(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt,
		event.NewCriterion{Name: "Innovation", MaxScore: 10},
		event.NewCriterion{Name: "Presentation", MaxScore: 10},
		event.NewCriterion{Name: "Impact", MaxScore: 10},
	)
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)
	testutil.AssignJudge(t, repo, tm, judge)

	// scoring one criterion out of three still completes the assignment
	sub := judging.ScoreSubmission{{CriterionID: criteria[0].ID, Value: 7}}
	if err := svc.SubmitScores(ctx, tm.ID, judge.ID, sub); err != nil {
		t.Fatalf("SubmitScores() failed: %v", err)
	}

	a, err := repo.GetAssignment(ctx, tm.ID, judge.ID)
	if err != nil {
		t.Fatalf("GetAssignment() failed: %v", err)
	}
	assert.Equal(t, judging.StatusCompleted, a.Status)
}

func TestService_RecomputeTeamTotal_noScores(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")

	total, err := svc.RecomputeTeamTotal(ctx, tm.ID)
	if err != nil {
		t.Fatalf("RecomputeTeamTotal() failed: %v", err)
	}
	assert.Equal(t, 0.0, total)
}

func TestService_Assign(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	a, err := svc.Assign(ctx, tm.ID, judge.ID)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	assert.Equal(t, judging.StatusPending, a.Status)

	_, err = svc.Assign(ctx, tm.ID, judge.ID)
	if errors.Cause(err) != judging.ErrAlreadyAssigned {
		t.Fatalf("Assign() err = %v; want ErrAlreadyAssigned", err)
	}

	if err := svc.Revoke(ctx, tm.ID, judge.ID); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	assignments, err := svc.QueryByJudge(ctx, judge.ID)
	if err != nil {
		t.Fatalf("QueryByJudge() failed: %v", err)
	}
	assert.Empty(t, assignments)
}
