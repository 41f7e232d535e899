package main

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/users"
	"storefront/internal/mailer"
)

// ErrorBadRequestResponse represents the standard error format for bad request API responses.
//
//	@name			ErrorBadRequestResponse
//	@description	Standard error response format returned by all bad request API endpoints
type ErrorBadRequestResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"It show error from err.Error()"`
	Status  int    `json:"status" example:"400"`
}

// ErrorValidationResponse is ErrorBadRequestResponse with every failed rule listed.
//
//	@name			ErrorValidationResponse
//	@description	Returned when one or more required fields are missing or invalid
type ErrorValidationResponse struct {
	Success bool     `json:"success" example:"false"`
	Message string   `json:"message" example:"Email is required"`
	Status  int      `json:"status" example:"400"`
	Errors  []string `json:"errors" example:"Email is required,Password is required"`
}

// ErrorInternalServerResponse represents the standard error format for internal server API responses.
//
//	@name			ErrorInternalServerResponse
//	@description	Standard error response format returned by all internal server error API endpoints
type ErrorInternalServerResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"the server encountered a problem"`
	Status  int    `json:"status" example:"500"`
}

type RegisterUserPayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`

	// Older clients send the phone number as phonenumber.
	LegacyPhoneNumber string `json:"phonenumber" swaggerignore:"true"`
}

func (p *RegisterUserPayload) normalize() {
	if strings.TrimSpace(p.PhoneNumber) == "" {
		p.PhoneNumber = p.LegacyPhoneNumber
	}
}

// validate collects every problem with the payload instead of stopping at the first.
func (p RegisterUserPayload) validate() []string {
	var errs []string

	switch email := strings.TrimSpace(p.Email); {
	case email == "":
		errs = append(errs, "Email is required")
	case Validate.Var(email, "email,max=255") != nil:
		errs = append(errs, "Invalid email format")
	}

	switch {
	case p.Password == "":
		errs = append(errs, "Password is required")
	case Validate.Var(p.Password, "strongpassword,max=72") != nil:
		errs = append(errs, "Password not strong enough")
	}

	if strings.TrimSpace(p.Username) == "" {
		errs = append(errs, "Username is required")
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		errs = append(errs, "phonenumber is required")
	}
	if strings.TrimSpace(p.Location) == "" {
		errs = append(errs, "location is required")
	}

	return errs
}

type UserWithToken struct {
	*users.User `json:"user"`
	Token       string `json:"token"`
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates an account and returns it with an access token. A welcome email is sent in the background when SMTP is configured.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload			true	"User details"
//	@Success		201		{object}	UserWithToken				"User registered"
//	@Failure		400		{object}	ErrorValidationResponse		"Validation failed or username/email taken"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Router			/users/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.normalize()
	if errs := payload.validate(); len(errs) > 0 {
		app.validationErrorResponse(w, r, errs)
		return
	}

	user := &users.User{
		Username:    strings.TrimSpace(payload.Username),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		PhoneNumber: strings.TrimSpace(payload.PhoneNumber),
		Location:    strings.TrimSpace(payload.Location),
	}

	ctx := r.Context()

	exists, err := app.store.Users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if exists {
		app.validationErrorResponse(w, r, []string{"Username or email already exists"})
		return
	}

	// hash the user password.
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			app.validationErrorResponse(w, r, []string{"Username or email already exists"})
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.sendWelcomeEmail(user)

	if err := app.jsonResponse(w, http.StatusCreated, UserWithToken{User: user, Token: token}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) sendWelcomeEmail(user *users.User) {
	if app.mailer == nil {
		return
	}

	vars := struct {
		Username string
		ShopURL  string
	}{
		Username: user.Username,
		ShopURL:  app.config.frontendURL,
	}

	app.background(func() {
		if err := app.mailer.Send(mailer.UserWelcomeTemplate, user.Username, user.Email, vars); err != nil {
			app.logger.Errorw("error sending welcome email", "user_id", user.ID, "error", err)
			return
		}
		app.logger.Infow("welcome email sent", "user_id", user.ID)
	})
}

type LoginUserPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// loginUserHandler godoc
//
//	@Summary		Login to get a token
//	@Description	Checks username and password and returns a JWT for the Authorization header
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginUserPayload		true	"User credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorValidationResponse	"Missing fields, unknown user or wrong password"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/users/login [post]
func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		app.validationErrorResponse(w, r, []string{"Please Fill all required fields"})
		return
	}

	user, err := app.store.Users.GetByUsername(r.Context(), strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.validationErrorResponse(w, r, []string{"user not found"})
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.validationErrorResponse(w, r, []string{"incorrect password"})
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, LoginResponse{Username: user.Username, Token: token})
}

// getAllUsersHandler godoc
//
//	@Summary		List users
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}		users.User
//	@Failure		401	{object}	error
//	@Failure		404	{object}	error	"there are no available users"
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/users [get]
func (app *application) getAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Users.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if len(list) == 0 {
		app.notFoundResponse(w, r, errors.New("there are no available users"))
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

// getCurrentUserHandler godoc
//
//	@Summary		Current user
//	@Description	Returns the user the bearer token belongs to
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		401	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	app.jsonResponse(w, http.StatusOK, getUserFromContext(r))
}
