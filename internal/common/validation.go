// File: internal/common/validation.go
package common

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var alphaNumDashRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// RegisterValidators installs the custom binding tags used by request DTOs
// on gin's validator engine. Safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("alphanumdash", func(fl validator.FieldLevel) bool {
		return alphaNumDashRegex.MatchString(fl.Field().String())
	})
}
