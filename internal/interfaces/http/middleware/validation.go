package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors converts binding errors into per-field messages.
// The second result is false when err is not a validation failure.
func FormatValidationErrors(err error) (shared.FieldErrors, bool) {
	fields := shared.FieldErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			fields.Add(e.Field(), validationMessage(e))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields.Add(typeErr.Field, "The "+humanize(typeErr.Field)+" field has an invalid type.")
		return fields, true
	}
	return nil, false
}

// HandleValidationError answers a failed bind: 422 with field messages for
// validation failures, 400 for a malformed body
func HandleValidationError(c *gin.Context, err error) {
	fields, ok := FormatValidationErrors(err)
	if !ok {
		abort(c, http.StatusBadRequest, "Malformed request body.")
		return
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(firstMessage(fields), fields))
}

// firstMessage mirrors the convention of reporting the first field message
// as the summary
func firstMessage(fields shared.FieldErrors) string {
	if len(fields) == 1 {
		for _, msgs := range fields {
			if len(msgs) > 0 {
				return msgs[0]
			}
		}
	}
	return "Validation failed"
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	name := "The " + humanize(e.Field())
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return name + " field is required."
	case "email":
		return name + " field must be a valid email address."
	case "min":
		if isString {
			return name + " field must be at least " + e.Param() + " characters."
		}
		return name + " field must be at least " + e.Param() + "."
	case "max":
		if isString {
			return name + " field must not be greater than " + e.Param() + " characters."
		}
		return name + " field must not be greater than " + e.Param() + "."
	case "gte":
		return name + " field must be greater than or equal to " + e.Param() + "."
	case "lte":
		return name + " field must be less than or equal to " + e.Param() + "."
	case "gt":
		return name + " field must be greater than " + e.Param() + "."
	case "oneof":
		return "The selected " + humanize(e.Field()) + " is invalid."
	case "required_with":
		return name + " field is required when " + strings.ToLower(humanize(e.Param())) + " is present."
	case "eqfield":
		return "The " + humanize(strings.TrimSuffix(e.Field(), "_confirmation")) + " field confirmation does not match."
	case "numeric":
		return name + " field must be a number."
	case "datetime":
		return name + " field must match the format " + e.Param() + "."
	default:
		return name + " field is invalid."
	}
}
