package validators

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
)

// Register installs the custom tags on gin's validator:
//
//	location      one of the supported cities
//	listing_type  one of the listing categories
//	maildomain    email domain resolves (only when checkDomain is set; otherwise always passes)
func Register(checkDomain bool) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validators: unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v, checkDomain)
}

func RegisterOn(v *validator.Validate, checkDomain bool) error {
	rules := map[string]validator.Func{
		"location": func(fl validator.FieldLevel) bool {
			return accommodation.IsLocation(fl.Field().String())
		},
		"listing_type": func(fl validator.FieldLevel) bool {
			return accommodation.IsType(fl.Field().String())
		},
		"maildomain": func(fl validator.FieldLevel) bool {
			return !checkDomain || IsEmailDomainValid(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validators: register %s: %w", tag, err)
		}
	}
	return nil
}
