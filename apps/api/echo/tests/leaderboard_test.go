package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/user"
	testutil "github.com/trezcool/shindano/tests"
)

func Test_leaderboardApi_recalculate(t *testing.T) {
	testutil.ResetDB(t, db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	emptyEvt := testutil.CreateEvent(t, evtRepo, "Empty Fair", "2020-2021")
	criteria := testutil.CreateCriteria(t, evtRepo, evt, event.NewCriterion{Name: "Innovation", MaxScore: 100})

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	alpha := testutil.CreateTeam(t, teamRepo, evt, "Alpha", "")
	beta := testutil.CreateTeam(t, teamRepo, evt, "Beta", "")
	testutil.SubmitScore(t, jdgRepo, alpha, judge, criteria[0], 10)
	testutil.SubmitScore(t, jdgRepo, beta, judge, criteria[0], 20)

	path := "/v1/events/" + evt.ID + "/leaderboard/recalculate"

	tests := []httpTest{
		{
			name: "Auth required", path: path,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", path: path, token: getToken(t, judge),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "No teams", path: "/v1/events/" + emptyEvt.ID + "/leaderboard/recalculate", token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "no teams found for this event"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("OK", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, admin))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success  bool                `json:"success"`
			Rankings []leaderboard.Entry `json:"rankings"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		assert.True(t, resp.Success)
		if assert.Len(t, resp.Rankings, 2) {
			assert.Equal(t, 1, resp.Rankings[0].Rank)
			assert.Equal(t, beta.ID, resp.Rankings[0].TeamID)
			assert.Equal(t, 20.0, resp.Rankings[0].TotalScore)
			assert.Equal(t, 2, resp.Rankings[1].Rank)
			assert.Equal(t, alpha.ID, resp.Rankings[1].TeamID)
			assert.Equal(t, 10.0, resp.Rankings[1].TotalScore)
		}
	})

	t.Run("Snapshot readable by any authed user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events/"+evt.ID+"/leaderboard", getToken(t, judge))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var entries []leaderboard.Entry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if assert.Len(t, entries, 2) {
			assert.Equal(t, beta.ID, entries[0].TeamID)
		}
	})
}

func Test_leaderboardApi_query_emptySnapshot(t *testing.T) {
	testutil.ResetDB(t, db)

	evt := testutil.CreateEvent(t, evtRepo, "Science Fair", "2020-2021")
	judge := testutil.CreateUser(t, usrRepo, "Judge", "judge01", "judge@test.cd", "", []string{user.RoleJudge}, true)

	// no snapshot has been calculated yet
	req, rec := newAuthRequest(http.MethodGet, "/v1/events/"+evt.ID+"/leaderboard", getToken(t, judge))
	app.ServeHTTP(rec, req)

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}
	checkCodeAndData(t, tt, rec)
}
