package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"copyforge-be/pkg/apperr"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds the failures into a
// single 400 so controllers can just return the error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.NewBadRequest(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return apperr.NewBadRequest(strings.Join(messages, "; "))
}
