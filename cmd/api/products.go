package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/categories"
	"storefront/internal/domain/products"
	"storefront/internal/images"
	"storefront/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const errAllFieldsRequired = "All fields are required"

// CreateProductPayload is the JSON form of a new product. The same fields are
// accepted as multipart form values, with the image sent as a file part.
type CreateProductPayload struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Description  string          `json:"description" validate:"required,max=5000"`
	Image        string          `json:"image"`
	CategoryID   int64           `json:"category_id" validate:"required,gt=0"`
	CuratorsPick bool            `json:"curators_pick"`

	// Older clients send the category as categoryId.
	LegacyCategoryID int64 `json:"categoryId" swaggerignore:"true"`
}

func (p *CreateProductPayload) normalize() {
	if p.CategoryID == 0 {
		p.CategoryID = p.LegacyCategoryID
	}
}

type UpdateProductPayload struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Description  string          `json:"description" validate:"required,max=5000"`
	CuratorsPick *bool           `json:"curators_pick"`
}

// PaginatedProducts is returned by the product listing when page or limit is set.
type PaginatedProducts struct {
	Products   []*products.ProductWithReviews `json:"products"`
	Pagination params.Pagination              `json:"pagination"`
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readProductForm fills payload and src from either a JSON body or a
// multipart form. The returned cleanup must be called once the file is
// no longer needed.
func (app *application) readProductForm(w http.ResponseWriter, r *http.Request, payload *CreateProductPayload) (images.Source, func(), error) {
	noop := func() {}

	if !isMultipart(r) {
		if err := readJSON(w, r, payload); err != nil {
			return images.Source{}, noop, err
		}
		return images.Source{URL: payload.Image}, noop, nil
	}

	const maxBytes = images.MaxUploadBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return images.Source{}, noop, fmt.Errorf("failed to parse form: %w", err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	payload.Name = r.FormValue("name")
	payload.Description = r.FormValue("description")
	payload.Image = r.FormValue("image")

	if v := strings.TrimSpace(r.FormValue("price")); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			cleanup()
			return images.Source{}, noop, fmt.Errorf("invalid price: %q", v)
		}
		payload.Price = price
	}
	categoryValue := r.FormValue("category_id")
	if categoryValue == "" {
		categoryValue = r.FormValue("categoryId")
	}
	if v := strings.TrimSpace(categoryValue); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			cleanup()
			return images.Source{}, noop, fmt.Errorf("invalid category_id: %q", v)
		}
		payload.CategoryID = id
	}
	if v := strings.TrimSpace(r.FormValue("curators_pick")); v != "" {
		payload.CuratorsPick = strings.EqualFold(v, "true")
	}

	src := images.Source{URL: payload.Image}
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		src.File = file
		src.Filename = header.Filename
		return src, func() { file.Close(); cleanup() }, nil
	case errors.Is(err, http.ErrMissingFile):
		return src, cleanup, nil
	default:
		cleanup()
		return images.Source{}, noop, fmt.Errorf("invalid image part: %w", err)
	}
}

// productComplete mirrors the "all fields are required" rule: text fields
// must be non-blank and price must be positive.
func productComplete(name, description string, price decimal.Decimal) bool {
	return strings.TrimSpace(name) != "" &&
		strings.TrimSpace(description) != "" &&
		price.IsPositive()
}

// removeImage deletes an ingested image without holding up the response.
func (app *application) removeImage(ref string) {
	if ref == "" {
		return
	}
	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.images.Remove(ctx, ref); err != nil {
			app.logger.Errorw("image cleanup failed", "image", ref, "mode", app.images.Mode(), "error", err)
		}
	})
}

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	Creates a product. The image is a URL in JSON bodies, or a file part named "image" in multipart forms, depending on the configured image mode.
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		CreateProductPayload	true	"Product"
//	@Success		201		{object}	products.Product
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	src, cleanup, err := app.readProductForm(w, r, &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer cleanup()
	payload.normalize()

	hasImage := strings.TrimSpace(src.URL) != "" || src.HasFile()
	if !productComplete(payload.Name, payload.Description, payload.Price) || payload.CategoryID <= 0 || !hasImage {
		app.validationErrorResponse(w, r, []string{errAllFieldsRequired})
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	imageRef, err := app.images.Ingest(ctx, src)
	if err != nil {
		if images.IsClientError(err) {
			app.validationErrorResponse(w, r, []string{err.Error()})
			return
		}
		app.internalServerError(w, r, fmt.Errorf("ingest image: %w", err))
		return
	}

	product := &products.Product{
		Name:         strings.TrimSpace(payload.Name),
		Price:        payload.Price.Round(2),
		Description:  strings.TrimSpace(payload.Description),
		Image:        imageRef,
		CategoryID:   payload.CategoryID,
		CuratorsPick: payload.CuratorsPick,
	}

	if err := app.store.Products.Create(ctx, product); err != nil {
		app.removeImage(imageRef)

		if errors.Is(err, products.ErrCategoryNotFound) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("product created", "product_id", product.ID, "image_mode", app.images.Mode())

	w.Header().Set("Location", fmt.Sprintf("/v1/products/%d", product.ID))
	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getAllProductsHandler godoc
//
//	@Summary		List products
//	@Description	Lists every product with its reviews. Passing page or limit switches to a paginated response.
//	@Tags			products
//	@Produce		json
//	@Param			page	query		int	false	"Page number (1-based)"
//	@Param			limit	query		int	false	"Items per page (max 50)"
//	@Success		200		{array}		products.ProductWithReviews
//	@Failure		404		{object}	error	"There are no available products"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/products [get]
func (app *application) getAllProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pagination := params.ParsePagination(r.URL.Query())

	limit := 0
	if pagination.Enabled {
		limit = pagination.Limit
	}

	list, total, err := app.store.Products.List(ctx, limit, pagination.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if len(list) == 0 {
		app.notFoundResponse(w, r, errors.New("There are no available products"))
		return
	}

	withReviews, err := app.attachReviews(ctx, list)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if !pagination.Enabled {
		app.jsonResponse(w, http.StatusOK, withReviews)
		return
	}

	pagination.ComputeMeta(total)
	app.jsonResponse(w, http.StatusOK, PaginatedProducts{Products: withReviews, Pagination: pagination})
}

func (app *application) attachReviews(ctx context.Context, list []*products.Product) ([]*products.ProductWithReviews, error) {
	byProduct, err := app.store.Reviews.ListByProducts(ctx, products.IDs(list))
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return products.AttachReviews(list, byProduct), nil
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Description	Returns one product with its reviews and each review's author
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	products.ProductWithReviews
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Product not found"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	product, err := app.store.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	list, err := app.store.Reviews.ListByProduct(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, &products.ProductWithReviews{Product: product, Reviews: list})
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Replaces name, price and description, and sets the curator's pick flag (false when omitted)
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int						true	"Product ID"
//	@Param			payload		body		UpdateProductPayload	true	"Product fields"
//	@Success		200			{object}	products.Product
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Product not found"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !productComplete(payload.Name, payload.Description, payload.Price) {
		app.validationErrorResponse(w, r, []string{errAllFieldsRequired})
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &products.Product{
		ID:           id,
		Name:         strings.TrimSpace(payload.Name),
		Price:        payload.Price.Round(2),
		Description:  strings.TrimSpace(payload.Description),
		CuratorsPick: payload.CuratorsPick != nil && *payload.CuratorsPick,
	}

	if err := app.store.Products.Update(r.Context(), product); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, product)
}

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Deletes a product and its reviews; the stored image is removed afterwards
//	@Tags			products
//	@Param			productID	path	int	true	"Product ID"
//	@Success		204			"No Content"
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Product not found"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	// Load once to get the image for cleanup (and to 404 early)
	product, err := app.store.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.removeImage(product.Image)

	w.WriteHeader(http.StatusNoContent)
}

// getProductsByCategoryHandler godoc
//
//	@Summary		List products in a category
//	@Description	Lists the products of the named category. The name "all" lists every product.
//	@Tags			products
//	@Produce		json
//	@Param			categoryName	path		string	true	"Category name or \"all\""
//	@Success		200				{array}		products.Product
//	@Failure		404				{object}	error	"Category not found, or no products in it"
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Router			/products/category/{categoryName} [get]
func (app *application) getProductsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "categoryName")
	ctx := r.Context()

	if strings.EqualFold(name, "all") {
		list, _, err := app.store.Products.List(ctx, 0, 0)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		app.jsonResponse(w, http.StatusOK, list)
		return
	}

	category, err := app.store.Categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Category not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	list, err := app.store.Products.ListByCategory(ctx, category.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if len(list) == 0 {
		app.notFoundResponse(w, r, errors.New("There are no products in this category"))
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

// getCuratorsPickProductsHandler godoc
//
//	@Summary		List curator's picks
//	@Description	Lists products flagged for promotional display
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		products.Product
//	@Failure		404	{object}	error	"There are no products marked as curators' pick"
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/products/curators-pick [get]
func (app *application) getCuratorsPickProductsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Products.ListCuratorsPicks(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if len(list) == 0 {
		app.notFoundResponse(w, r, errors.New("There are no products marked as curators' pick"))
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}
