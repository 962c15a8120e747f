package auth

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "garage/internal/errors"
	"garage/internal/model"
)

const (
	claimsContextKey = "auth.claims"
	userContextKey   = "auth.user"
)

// UserResolver turns verified claims into the account they belong to.
type UserResolver interface {
	Authenticate(ctx context.Context, claims *Claims) (*model.User, error)
}

// Middleware gates a route on a valid bearer token whose subject still exists.
// A missing token yields 401 "Not authenticated"; every other failure yields
// the same 401 "Invalid token".
func Middleware(jwtService *JWTService, resolver UserResolver) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			if errors.As(err, &extractErr) {
				return unauthorized(c, apperrors.ErrNotAuthenticated)
			}
			return unauthorized(c, apperrors.ErrInvalidToken)
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return unauthorized(c, apperrors.ErrInvalidToken)
			}
			user, err := resolver.Authenticate(c.Request().Context(), claims)
			if err != nil {
				if errors.Is(err, apperrors.ErrInvalidToken) {
					return unauthorized(c, apperrors.ErrInvalidToken)
				}
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(resolve(next))
	}
}

// ClaimsFromContext returns the verified claims of the current request.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserFromContext returns the account resolved by Middleware.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok && user != nil
}

func unauthorized(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse()).SetInternal(err)
}
