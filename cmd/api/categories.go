package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/categories"
)

type CreateCategoryPayload struct {
	Name string `json:"name" validate:"required,max=100"`
}

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	Lists every category ordered by name
//	@Tags			categories
//	@Produce		json
//	@Success		200	{array}		categories.Category
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

// getCategoryHandler godoc
//
//	@Summary		Get a category
//	@Tags			categories
//	@Produce		json
//	@Param			categoryID	path		int	true	"Category ID"
//	@Success		200			{object}	categories.Category
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Category not found"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/categories/{categoryID} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category, err := app.store.Categories.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Category not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, category)
}

// createCategoryHandler godoc
//
//	@Summary		Create a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCategoryPayload	true	"Category"
//	@Success		201		{object}	categories.Category
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Category already exists"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &categories.Category{Name: payload.Name}
	if err := app.store.Categories.Create(r.Context(), category); err != nil {
		if errors.Is(err, categories.ErrDuplicate) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/v1/categories/%d", category.ID))
	if err := app.jsonResponse(w, http.StatusCreated, category); err != nil {
		app.internalServerError(w, r, err)
	}
}
