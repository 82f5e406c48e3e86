package leaderboard_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/user"
	dummydb "github.com/trezcool/shindano/storage/database/dummy"
	testutil "github.com/trezcool/shindano/tests"
)

func TestService_Recalculate_noTeams(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := leaderboard.NewService(dummydb.NewLeaderboardRepository(db))

	evt := testutil.CreateEvent(t, dummydb.NewEventRepository(db), "Science Fair", "2020-2021")

	_, err := svc.Recalculate(context.Background(), evt.ID)
	if errors.Cause(err) != leaderboard.ErrNoTeams {
		t.Fatalf("Recalculate() err = %v; want ErrNoTeams", err)
	}
}

func TestService_Recalculate(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	jdgRepo := dummydb.NewJudgingRepository(db)
	svc := leaderboard.NewService(dummydb.NewLeaderboardRepository(db))

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt,
		event.NewCriterion{Name: "Innovation", MaxScore: 10, Weight: 2},
		event.NewCriterion{Name: "Presentation", MaxScore: 10}, // weight defaults to 1
	)
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "Greenwood High")
	beta := testutil.CreateTeam(t, teamRepo, evt, "Beta", "")
	gamma := testutil.CreateTeam(t, teamRepo, evt, "Gamma", "")

	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[0], 5)
	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[1], 2)
	testutil.SubmitScore(t, jdgRepo, beta, judge, criteria[0], 9)
	testutil.SubmitScore(t, jdgRepo, beta, judge, criteria[1], 6)
	testutil.SubmitScore(t, jdgRepo, gamma, judge, criteria[0], 1)

	entries, err := svc.Recalculate(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Recalculate() failed: %v", err)
	}

	// totals here are unweighted sums of raw values: Alpha 7, Beta 15, Gamma 1
	if assert.Len(t, entries, 3) {
		assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
		assert.Equal(t, beta.ID, entries[0].TeamID)
		assert.Equal(t, 15.0, entries[0].TotalScore)
		assert.Equal(t, alpha.ID, entries[1].TeamID)
		assert.Equal(t, 7.0, entries[1].TotalScore)
		assert.Equal(t, gamma.ID, entries[2].TeamID)
		assert.Equal(t, 1.0, entries[2].TotalScore)
	}

	// the stored team total is overwritten with the unweighted sum,
	// even though the judging path writes a weighted mean to the same field
	alpha, err = teamRepo.GetTeam(ctx, alpha.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 7.0, alpha.TotalScore)

	// snapshot is persisted and readable
	persisted, err := svc.Query(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	assert.Len(t, persisted, 3)
	assert.Equal(t, entries[0].TeamID, persisted[0].TeamID)
}

func TestService_Recalculate_tiesGetConsecutiveRanks(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	jdgRepo := dummydb.NewJudgingRepository(db)
	svc := leaderboard.NewService(dummydb.NewLeaderboardRepository(db))

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt, event.NewCriterion{Name: "Innovation", MaxScore: 100})
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	beta := testutil.CreateTeam(t, teamRepo, evt, "Beta", "")
	gamma := testutil.CreateTeam(t, teamRepo, evt, "Gamma", "")

	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[0], 50)
	testutil.SubmitScore(t, jdgRepo, beta, judge, criteria[0], 50)
	testutil.SubmitScore(t, jdgRepo, gamma, judge, criteria[0], 30)

	entries, err := svc.Recalculate(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Recalculate() failed: %v", err)
	}

	// tied teams get consecutive positional ranks, not equal ranks;
	// the stable sort keeps them in fetch (name) order
	if assert.Len(t, entries, 3) {
		assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
		assert.Equal(t, alpha.ID, entries[0].TeamID)
		assert.Equal(t, beta.ID, entries[1].TeamID)
		assert.Equal(t, gamma.ID, entries[2].TeamID)
	}
}

func TestService_Recalculate_replacesSnapshot(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	jdgRepo := dummydb.NewJudgingRepository(db)
	svc := leaderboard.NewService(dummydb.NewLeaderboardRepository(db))

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt, event.NewCriterion{Name: "Innovation", MaxScore: 100})
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	beta := testutil.CreateTeam(t, teamRepo, evt, "Beta", "")

	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[0], 10)
	testutil.SubmitScore(t, jdgRepo, beta, judge, criteria[0], 20)

	entries, err := svc.Recalculate(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Recalculate() failed: %v", err)
	}
	assert.Equal(t, beta.ID, entries[0].TeamID)

	// new scores reverse the order; the prior snapshot must be fully replaced
	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[0], 30)

	entries, err = svc.Recalculate(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Recalculate() failed: %v", err)
	}
	if assert.Len(t, entries, 2) {
		assert.Equal(t, alpha.ID, entries[0].TeamID)
		assert.Equal(t, 30.0, entries[0].TotalScore)
	}

	persisted, err := svc.Query(ctx, evt.ID)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	assert.Len(t, persisted, 2)
}

// The two aggregation paths intentionally disagree: score submission stores a
// weighted mean, recalculation stores an unweighted sum. Both write the same
// team field; this pins the divergence down.
func TestAggregationPathsDiverge(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	evtRepo := dummydb.NewEventRepository(db)
	teamRepo := dummydb.NewTeamRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	jdgRepo := dummydb.NewJudgingRepository(db)
	jdgSvc := judging.NewService(jdgRepo)
	lbSvc := leaderboard.NewService(dummydb.NewLeaderboardRepository(db))

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt,
		event.NewCriterion{Name: "Innovation", MaxScore: 10, Weight: 2},
		event.NewCriterion{Name: "Presentation", MaxScore: 10},
	)
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)
	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	testutil.AssignJudge(t, jdgRepo, alpha, judge)

	sub := judging.ScoreSubmission{
		{CriterionID: criteria[0].ID, Value: 5},
		{CriterionID: criteria[1].ID, Value: 2},
	}
	if err := jdgSvc.SubmitScores(ctx, alpha.ID, judge.ID, sub); err != nil {
		t.Fatalf("SubmitScores() failed: %v", err)
	}

	alpha, err := teamRepo.GetTeam(ctx, alpha.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 6.0, alpha.TotalScore) // (5×2 + 2×1) / 2

	if _, err := lbSvc.Recalculate(ctx, evt.ID); err != nil {
		t.Fatalf("Recalculate() failed: %v", err)
	}

	alpha, err = teamRepo.GetTeam(ctx, alpha.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 7.0, alpha.TotalScore) // 5 + 2, weights ignored; last writer wins
}
