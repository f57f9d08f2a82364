package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/snippetvault/internal/apperror"
)

// validate holds the shared validator instance. Validator caches struct
// metadata internally, so one instance serves the whole package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON decodes the request body into out and runs its `validate`
// struct tags. Malformed JSON and failed tag rules both come back as
// apperror.ErrValidation, so handlers forward the error straight to
// writeError for a 400.
func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}

	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.ToLower(fe.Field())
			return apperror.ValidationFailed(field, validationMessage(field, fe))
		}
		return apperror.ValidationFailed("body", "invalid request body")
	}
	return nil
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
