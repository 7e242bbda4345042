package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/itsDrac/authgate/pkg/utils"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// GetValidator	returns the singleton instance of the validator
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// bcrypt reads at most 72 bytes; "max" counts runes.
		_ = validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= utils.MaxPasswordBytes
		})
	})
	return validate
}
