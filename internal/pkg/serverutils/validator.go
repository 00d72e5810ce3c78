package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"ai-digest-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts the first failure
// into a ValidationError so the error middleware can map it to a 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			fe := errs[0]
			return &apperror.ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			}
		}
		return &apperror.ValidationError{Message: err.Error()}
	}
	return nil
}
