package handler

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"garage/internal/auth"
	"garage/internal/errors"
	"garage/internal/service"
)

// PhotoStore saves and removes profile photos.
type PhotoStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	authService service.AuthService
	photos      PhotoStore
}

// NewAuthHandler creates a new auth handler. A nil photos ignores uploads.
func NewAuthHandler(authService service.AuthService, photos PhotoStore) *AuthHandler {
	return &AuthHandler{authService: authService, photos: photos}
}

// SignupRequest represents a signup form. It is accepted as multipart,
// urlencoded form or JSON.
type SignupRequest struct {
	Firstname string `json:"firstname" form:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" form:"lastname" validate:"required,max=100"`
	Email     string `json:"email" form:"email" validate:"required,email,max=255"`
	Password  string `json:"password" form:"password"`
}

// SignupResponse is returned for a created account.
type SignupResponse struct {
	Email string `json:"email" example:"a@b.com"`
	ID    uint   `json:"id" example:"1"`
}

// LoginRequest is an OAuth2 password grant form; username carries the email.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// Signup godoc
// @Summary Create an account
// @Tags users
// @Accept multipart/form-data,application/x-www-form-urlencoded,json
// @Produce json
// @Param firstname formData string true "First name"
// @Param lastname formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param photo formData file false "Profile photo (jpeg, png, gif or webp, max 5 MiB)"
// @Success 200 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/create [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidFields(err)
	}
	if req.Password == "" {
		return fail(errors.ErrPasswordRequired)
	}

	photoName, err := h.savePhoto(c)
	if err != nil {
		return fail(err)
	}

	user, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
		PhotoName: photoName,
	}, requestMeta(c))
	if err != nil {
		if photoName != "" {
			if rmErr := h.photos.Remove(photoName); rmErr != nil {
				log.Warnf("signup: remove orphan photo %s: %v", photoName, rmErr)
			}
		}
		return fail(err)
	}

	return c.JSON(http.StatusOK, SignupResponse{
		Email: user.Email,
		ID:    user.ID,
	})
}

func (h *AuthHandler) savePhoto(c echo.Context) (string, error) {
	if h.photos == nil || !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", nil
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	return h.photos.Save(fh)
}

// Login godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept application/x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidFields(err)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, requestMeta(c))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout godoc
// @Summary Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OKResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return fail(errors.ErrNotAuthenticated)
	}

	if err := h.authService.Logout(c.Request().Context(), claims, requestMeta(c)); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
