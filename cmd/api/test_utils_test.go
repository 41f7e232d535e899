package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain/storage"
	"storefront/internal/domain/users"
	"storefront/internal/images"
	"storefront/internal/ratelimiter"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testStores struct {
	users      *MockUserStore
	categories *MockCategoryStore
	products   *MockProductStore
	reviews    *MockReviewStore
}

func newTestApplication(t *testing.T, cfg config) (*application, *testStores) {
	t.Helper()

	mocks := &testStores{
		users:      &MockUserStore{},
		categories: &MockCategoryStore{},
		products:   &MockProductStore{},
		reviews:    &MockReviewStore{},
	}

	if cfg.rateLimiter.RequestsPerTimeFrame == 0 {
		cfg.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 20, TimeFrame: 5 * time.Second}
	}

	app := &application{
		config: cfg,
		logger: zap.NewNop().Sugar(),
		store: &storage.Container{
			Users:      mocks.users,
			Categories: mocks.categories,
			Products:   mocks.products,
			Reviews:    mocks.reviews,
		},
		images:        images.NewURLIngester(),
		authenticator: auth.NewJWTAuthenticator("test-secret", "Storefront", "Storefront", time.Hour),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}

	return app, mocks
}

var testUser = &users.User{ID: 1, Username: "alice", Email: "alice@example.com"}

// authorize signs a token for testUser and lets the auth middleware resolve it.
func authorize(t *testing.T, app *application, mocks *testStores, req *http.Request) {
	t.Helper()

	token, err := app.authenticator.GenerateToken(testUser.ID)
	require.NoError(t, err)

	mocks.users.On("GetByID", mock.Anything, testUser.ID).Return(testUser, nil)
	req.Header.Set("Authorization", "Bearer "+token)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Errors  []string `json:"errors"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// decodeData unwraps the {"data": ...} envelope into v.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}
