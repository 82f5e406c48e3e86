package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shindano/core/user"
	testutil "github.com/trezcool/shindano/tests"
)

func Test_userApi_login(t *testing.T) {
	testutil.ResetDB(t, db)

	pwd := "LePassword123!"
	testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.cd", pwd, nil, true)
	testutil.CreateUser(t, usrRepo, "Gone", "gone", "gone@test.cd", pwd, nil, false)

	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name: "Wrong password", body: marchallObj(t, map[string]string{"username": "awe", "password": "nope"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "Unknown user", body: marchallObj(t, map[string]string{"username": "ghost", "password": pwd}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "Deactivated account", body: marchallObj(t, map[string]string{"username": "gone", "password": pwd}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("OK (username or email, any case)", func(t *testing.T) {
		for _, uname := range []string{"awe", "AWE", "awe@test.cd"} {
			body := marchallObj(t, map[string]string{"username": uname, "password": pwd})
			req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			assert.NotEmpty(t, resp.Token)
		}
	})
}

func Test_userApi_queryRoles(t *testing.T) {
	testutil.ResetDB(t, db)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student01", "student@test.cd", "", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/users/roles",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", path: "/v1/users/roles", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "OK", path: "/v1/users/roles", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles),
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

func Test_userApi_register(t *testing.T) {
	testutil.ResetDB(t, db)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin01", "admin@test.cd", "", user.AllRoles, true)

	body := marchallObj(t, map[string]interface{}{
		"name":             "New Judge",
		"username":         "newjudge",
		"email":            "newjudge@test.cd",
		"password":         "LePassword123!",
		"password_confirm": "LePassword123!",
		"roles":            []string{user.RoleJudge},
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	assert.Equal(t, "newjudge", created.Username)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{user.RoleJudge}, created.Roles)

	// duplicate username is a validation error
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
