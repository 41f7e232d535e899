package main

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
)

type CreateReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=500"`
}

type ProductReviews struct {
	Reviews []*reviews.Review `json:"reviews"`
	reviews.Stats
}

// createReviewHandler godoc
//
//	@Summary		Review a product
//	@Description	Adds the authenticated user's review. Each user may review a product once.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int					true	"Product ID"
//	@Param			payload		body		CreateReviewPayload	true	"Rating and comment"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		401			{object}	error
//	@Failure		404			{object}	error	"Product not found"
//	@Failure		409			{object}	error	"Already reviewed"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Comment = strings.TrimSpace(payload.Comment)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	review := &reviews.Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		Author:    &reviews.Author{ID: user.ID, Username: user.Username},
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, reviews.ErrProductNotFound):
			app.notFoundResponse(w, r, errors.New("Product not found"))
		case errors.Is(err, reviews.ErrDuplicate):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductReviewsHandler godoc
//
//	@Summary		List a product's reviews
//	@Description	Returns the reviews with their authors, the review count and the average rating
//	@Tags			reviews
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	ProductReviews
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Product not found"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/products/{productID}/reviews [get]
func (app *application) getProductReviewsHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if _, err := app.store.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	list, err := app.store.Reviews.ListByProduct(ctx, productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	stats, err := app.store.Reviews.GetStats(ctx, productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	stats.Average = math.Round(stats.Average*10) / 10

	if list == nil {
		list = []*reviews.Review{}
	}

	app.jsonResponse(w, http.StatusOK, ProductReviews{Reviews: list, Stats: stats})
}

// deleteReviewHandler godoc
//
//	@Summary		Delete a review
//	@Description	Only the review's author may delete it
//	@Tags			reviews
//	@Param			reviewID	path	int	true	"Review ID"
//	@Success		204			"No Content"
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	user := getUserFromContext(r)

	review, err := app.store.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if review.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
