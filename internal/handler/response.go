package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"taskflow/internal/apperrors"
)

// Envelope is the uniform response shape of every endpoint. Failures omit
// data and always carry a populated errors map, even for non-field failures.
type Envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  apperrors.FieldErrors `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c echo.Context, err error) error {
	appErr := apperrors.From(err)
	return c.JSON(appErr.Status, Envelope{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// bindAndValidate decodes the request body into req and runs the validator,
// converting failures into field-level validation outcomes.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("The data is not valid.", apperrors.FieldErrors{
			"body": {"The request body is malformed."},
		})
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	fields := apperrors.FieldErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			// Field() yields the json name; the router registers a tag
			// name func on the validator.
			name := fe.Field()
			fields[name] = append(fields[name], validationMessage(fe))
		}
	}
	if len(fields) == 0 {
		fields["body"] = []string{"The request body is not valid."}
	}
	return apperrors.Validation("The data is not valid.", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "url":
		return "Must be a valid URL."
	case "datetime":
		return "Must be a valid date (YYYY-MM-DD)."
	case "gte":
		return "Must be " + fe.Param() + " or greater."
	default:
		return "Invalid value."
	}
}

const dateLayout = "2006-01-02"

// parseDate turns a validated YYYY-MM-DD string into a date, empty meaning
// unset.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
