package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/categories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	t.Run("should list categories", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.categories.On("List", mock.Anything).Return([]*categories.Category{{ID: 1, Name: "Books"}, {ID: 2, Name: "Home"}}, nil)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/v1/categories", nil), app.mount())
		require.Equal(t, http.StatusOK, rr.Code)

		var got []categories.Category
		decodeData(t, rr, &got)
		assert.Len(t, got, 2)
	})

	t.Run("should return 404 for a missing category", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.categories.On("GetByID", mock.Anything, int64(4)).Return(nil, categories.ErrNotFound)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/v1/categories/4", nil), app.mount())

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Category not found", decodeError(t, rr).Message)
	})

	t.Run("should create a category", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.categories.On("Create", mock.Anything, mock.MatchedBy(func(c *categories.Category) bool {
			return c.Name == "Toys"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*categories.Category).ID = 5
		}).Return(nil)

		req := jsonRequest(t, http.MethodPost, "/v1/categories", map[string]any{"name": "  Toys "})
		authorize(t, app, mocks, req)

		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "/v1/categories/5", rr.Header().Get("Location"))
	})

	t.Run("should return 409 for a duplicate name", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})
		mocks.categories.On("Create", mock.Anything, mock.Anything).Return(categories.ErrDuplicate)

		req := jsonRequest(t, http.MethodPost, "/v1/categories", map[string]any{"name": "Books"})
		authorize(t, app, mocks, req)

		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("should require a name", func(t *testing.T) {
		app, mocks := newTestApplication(t, config{})

		req := jsonRequest(t, http.MethodPost, "/v1/categories", map[string]any{"name": "   "})
		authorize(t, app, mocks, req)

		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
