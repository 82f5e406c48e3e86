package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/user"
	testutil "github.com/trezcool/shindano/tests"
)

func Test_judgingApi_submitScores(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt,
		event.NewCriterion{Name: "Innovation", MaxScore: 10, Weight: 2},
		event.NewCriterion{Name: "Presentation", MaxScore: 10},
	)
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "Greenwood High")

	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)
	outsider := testutil.CreateUser(t, usrRepo, "Outsider", "judge02", "outsider@test.cd", "", []string{user.RoleJudge}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student01", "student@test.cd", "", []string{user.RoleStudent}, true)
	testutil.AssignJudge(t, jdgRepo, tm, judge)

	path := "/v1/teams/" + tm.ID + "/scores"
	body := marchallObj(t, judging.ScoreSubmission{
		{CriterionID: criteria[0].ID, Value: 5, Feedback: "solid"},
		{CriterionID: criteria[1].ID, Value: 2},
	})
	success := marchallObj(t, map[string]bool{"success": true})

	tests := []httpTest{
		{
			name: "Auth required", path: path, body: body,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Judge role required", path: path, body: body, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Unassigned judge is rejected", path: path, body: body, token: getToken(t, outsider),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "judge is not assigned to this team"}),
		},
		{
			name: "Empty submission", path: path, body: marchallObj(t, judging.ScoreSubmission{}),
			token: getToken(t, judge), wantCode: http.StatusBadRequest, extra: "skipData",
		},
		{
			name: "OK", path: path, body: body, token: getToken(t, judge),
			wantCode: http.StatusOK, wantData: success,
		},
		{
			name: "Resubmission replaces prior values", path: path, body: body, token: getToken(t, judge),
			wantCode: http.StatusOK, wantData: success,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.extra == "skipData" {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// two submissions of the same tuples leave exactly two rows
	scores, err := jdgRepo.QueryTeamScores(ctx, tm.ID)
	if err != nil {
		t.Fatalf("QueryTeamScores() failed: %v", err)
	}
	assert.Len(t, scores, 2)

	// total = (5×2 + 2×1) / 2 rows
	updated, err := teamRepo.GetTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("GetTeam() failed: %v", err)
	}
	assert.Equal(t, 6.0, updated.TotalScore)

	// the judge's assignment is completed
	a, err := jdgRepo.GetAssignment(ctx, tm.ID, judge.ID)
	if err != nil {
		t.Fatalf("GetAssignment() failed: %v", err)
	}
	assert.Equal(t, judging.StatusCompleted, a.Status)
}

func Test_judgingApi_myAssignments(t *testing.T) {
	testutil.ResetDB(t, db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	beta := testutil.CreateTeam(t, teamRepo, evt, "Beta", "")

	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "judge02", "other@test.cd", "", []string{user.RoleJudge}, true)
	a1 := testutil.AssignJudge(t, jdgRepo, alpha, judge)
	a2 := testutil.AssignJudge(t, jdgRepo, beta, judge)
	testutil.AssignJudge(t, jdgRepo, alpha, other)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/judging/assignments",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Own assignments only", path: "/v1/judging/assignments", token: getToken(t, judge),
			wantCode: http.StatusOK, wantData: marchallList(t, a1, a2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_judgingApi_assign(t *testing.T) {
	testutil.ResetDB(t, db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	tm := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	path := "/v1/teams/" + tm.ID + "/judges"
	body := marchallObj(t, map[string]string{"judge_id": judge.ID})

	// non-admins cannot assign
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, judge), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// double assignment is a validation error
	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// revoke
	req, rec = newAuthRequest(http.MethodDelete, path+"?judge_id="+judge.ID, getToken(t, admin))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
