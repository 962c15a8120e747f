package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"garage/internal/errors"
	"garage/internal/service"
)

// OKResponse acknowledges an operation without a payload.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// fail renders a domain error with its mapped status. The cause stays internal.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "VALIDATION_ERROR",
	}).SetInternal(err)
}

// invalidFields reports failed field rules as "field: problem" pairs.
func invalidFields(err error) error {
	msg := "invalid request"
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldName(fe)+": "+fieldProblem(fe))
		}
		msg = strings.Join(parts, "; ")
	}
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  "VALIDATION_ERROR",
	}).SetInternal(err)
}

// fieldName falls back to the lowercased Go field name when no tag name
// function is registered on the validator.
func fieldName(fe validator.FieldError) string {
	if fe.Field() != fe.StructField() {
		return fe.Field()
	}
	return strings.ToLower(fe.Field())
}

func fieldProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

func requestMeta(c echo.Context) service.RequestMeta {
	return service.RequestMeta{
		RemoteIP:  c.RealIP(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}
