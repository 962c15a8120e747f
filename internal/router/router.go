package router

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"garage/internal/auth"
	apperrors "garage/internal/errors"
	"garage/internal/handler"
)

const (
	contentSecurityPolicy = "default-src 'self'; script-src 'self'"
	hstsHeader            = "max-age=63072000; includeSubDomains; preload"
	bodyLimit             = "6M"
)

// Options holds what Register needs besides the handlers.
type Options struct {
	CORSOrigins []string
	// AuthRate and AuthBurst limit signup and login per client IP.
	// A zero AuthRate uses 5 requests per second with a burst of 10.
	AuthRate  rate.Limit
	AuthBurst int
}

// Handlers groups the HTTP handlers Register mounts.
type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Item *handler.ItemHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	opts Options,
	jwtService *auth.JWTService,
	resolver auth.UserResolver,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(securityHeaders())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Hello World"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	gate := auth.Middleware(jwtService, resolver)
	limited := authRateLimiter(opts)

	// Public routes
	api.POST("/users/create", h.Auth.Signup, limited)
	api.POST("/auth/login", h.Auth.Login, limited)
	api.GET("/items", h.Item.List)
	api.GET("/items/:id", h.Item.Get)

	// Secured routes (require a bearer token of an existing user)
	api.POST("/auth/logout", h.Auth.Logout, gate)
	api.GET("/users/me", h.User.Me, gate)
	api.DELETE("/users/delete", h.User.Delete, gate)
	api.POST("/items/create", h.Item.Create, gate)
	api.PUT("/items/:id", h.Item.Update, gate)
	api.DELETE("/items/:id", h.Item.Delete, gate)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				c.Logger().Errorf("%s %s %d %s id=%s ip=%s: %v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.RemoteIP, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s id=%s ip=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.RemoteIP)
			return nil
		},
	})
}

// securityHeaders sets the browser hardening headers on every response.
// The swagger UI needs inline scripts and is served without a CSP.
func securityHeaders() echo.MiddlewareFunc {
	cfg := middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}
	withoutCSP := middleware.SecureWithConfig(cfg)
	cfg.ContentSecurityPolicy = contentSecurityPolicy
	withCSP := middleware.SecureWithConfig(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		strict, docs := withCSP(next), withoutCSP(next)
		return func(c echo.Context) error {
			// echo only sends HSTS on TLS requests
			c.Response().Header().Set(echo.HeaderStrictTransportSecurity, hstsHeader)
			if strings.HasPrefix(c.Request().URL.Path, "/swagger/") {
				return docs(c)
			}
			return strict(c)
		}
	}
}

func authRateLimiter(opts Options) echo.MiddlewareFunc {
	limit, burst := opts.AuthRate, opts.AuthBurst
	if limit == 0 {
		limit, burst = 5, 10
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "client not identifiable",
				Code:  "FORBIDDEN",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// HTTPErrorHandler renders every error as errors.ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var body apperrors.ErrorResponse

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body = apperrors.ErrorResponse{Error: msg, Code: codeForStatus(status)}
		default:
			body = apperrors.ErrorResponse{Error: http.StatusText(status), Code: codeForStatus(status)}
		}
	} else {
		mapped := apperrors.MapErrorToHTTP(err)
		status = mapped.StatusCode
		body = mapped.ToErrorResponse()
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if status == http.StatusUnauthorized && c.Response().Header().Get(echo.HeaderWWWAuthenticate) == "" {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// NewValidator returns a validator that names fields by their json tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
