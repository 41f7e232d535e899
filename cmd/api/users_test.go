package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	valid := map[string]any{
		"username":     "bob",
		"email":        "Bob@Example.com",
		"password":     "Secr3t!pass",
		"phone_number": "9800000000",
		"location":     "Kathmandu",
	}

	t.Run("should list every missing field", func(t *testing.T) {
		app, _ := newTestApplication(t, config{})

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", map[string]any{}), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{
			"Email is required",
			"Password is required",
			"Username is required",
			"phonenumber is required",
			"location is required",
		}, decodeError(t, rr).Errors)
	})

	t.Run("should reject a bad email and a weak password", func(t *testing.T) {
		app, _ := newTestApplication(t, config{})
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body["email"] = "not-an-email"
		body["password"] = "password"

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", body), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{"Invalid email format", "Password not strong enough"}, decodeError(t, rr).Errors)
	})

	t.Run("should accept phonenumber as sent by older clients", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("ExistsByUsernameOrEmail", mock.Anything, "erin", "erin@example.com").Return(false, nil)
		mocks.users.On("Create", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
			return u.PhoneNumber == "555"
		})).Return(nil)

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", map[string]any{
			"username":    "erin",
			"email":       "erin@example.com",
			"password":    "Secr3t!pass",
			"phonenumber": "555",
			"location":    "Pokhara",
		}), app.mount())

		assert.Equal(t, http.StatusCreated, rr.Code)
		mocks.users.AssertExpectations(t)
	})

	t.Run("should refuse a taken username or email", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@example.com").Return(true, nil)

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", valid), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Username or email already exists", decodeError(t, rr).Message)
		mocks.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("should map a unique violation on insert to the same message", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@example.com").Return(false, nil)
		mocks.users.On("Create", mock.Anything, mock.Anything).Return(users.ErrDuplicate)

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", valid), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Username or email already exists", decodeError(t, rr).Message)
	})

	t.Run("should create the user and return a token", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@example.com").Return(false, nil)
		mocks.users.On("Create", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
			return u.Username == "bob" && u.Password.Compare("Secr3t!pass") == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*users.User).ID = 11
		}).Return(nil)

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/register", valid), app.mount())
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "Secr3t!pass")

		var got struct {
			User  users.User `json:"user"`
			Token string     `json:"token"`
		}
		decodeData(t, rr, &got)
		assert.Equal(t, int64(11), got.User.ID)
		assert.Equal(t, "bob@example.com", got.User.Email)

		token, err := app.authenticator.ValidateToken(got.Token)
		require.NoError(t, err)
		id, err := auth.UserID(token)
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})
}

func TestLoginUser(t *testing.T) {
	stored := &users.User{ID: 5, Username: "carol", Email: "carol@example.com"}
	require.NoError(t, stored.Password.Set("Secr3t!pass"))

	cases := []struct {
		name    string
		body    map[string]any
		setup   func(m *testStores)
		status  int
		message string
	}{
		{
			name:    "missing fields",
			body:    map[string]any{"username": "carol"},
			status:  http.StatusBadRequest,
			message: "Please Fill all required fields",
		},
		{
			name: "unknown user",
			body: map[string]any{"username": "dave", "password": "whatever"},
			setup: func(m *testStores) {
				m.users.On("GetByUsername", mock.Anything, "dave").Return(nil, users.ErrNotFound)
			},
			status:  http.StatusBadRequest,
			message: "user not found",
		},
		{
			name: "wrong password",
			body: map[string]any{"username": "carol", "password": "nope"},
			setup: func(m *testStores) {
				m.users.On("GetByUsername", mock.Anything, "carol").Return(stored, nil)
			},
			status:  http.StatusBadRequest,
			message: "incorrect password",
		},
		{
			name: "store failure",
			body: map[string]any{"username": "carol", "password": "nope"},
			setup: func(m *testStores) {
				m.users.On("GetByUsername", mock.Anything, "carol").Return(nil, errors.New("timeout"))
			},
			status:  http.StatusInternalServerError,
			message: "the server encountered a problem",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, mocks := newTestApplication(t, config{})
			if tc.setup != nil {
				tc.setup(mocks)
			}

			rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/login", tc.body), app.mount())

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.message, decodeError(t, rr).Message)
		})
	}

	t.Run("should return username and token", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("GetByUsername", mock.Anything, "carol").Return(stored, nil)

		rr := executeRequest(jsonRequest(t, http.MethodPost, "/v1/users/login", map[string]any{
			"username": "carol",
			"password": "Secr3t!pass",
		}), app.mount())
		require.Equal(t, http.StatusOK, rr.Code)

		var got LoginResponse
		decodeData(t, rr, &got)
		assert.Equal(t, "carol", got.Username)
		assert.NotEmpty(t, got.Token)
	})
}

func TestGetAllUsers(t *testing.T) {
	t.Run("should require a token", func(t *testing.T) {
		app, _ := newTestApplication(t, config{})

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/v1/users", nil), app.mount())

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("should return 404 when there are no users", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("List", mock.Anything).Return([]*users.User{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		authorize(t, app, mocks, req)

		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "there are no available users", decodeError(t, rr).Message)
	})

	t.Run("should list users", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.users.On("List", mock.Anything).Return([]*users.User{testUser}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		authorize(t, app, mocks, req)

		rr := executeRequest(req, app.mount())
		require.Equal(t, http.StatusOK, rr.Code)

		var got []users.User
		decodeData(t, rr, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].Username)
	})
}

func TestGetCurrentUser(t *testing.T) {
	app, mocks := newTestApplication(t, config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	authorize(t, app, mocks, req)

	rr := executeRequest(req, app.mount())
	require.Equal(t, http.StatusOK, rr.Code)

	var got users.User
	decodeData(t, rr, &got)
	assert.Equal(t, testUser.ID, got.ID)
}
