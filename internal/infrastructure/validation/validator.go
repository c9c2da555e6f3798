package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator. Field errors are reported under the
// field's json name so handlers can map them back to request fields.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			default:
				return name
			}
		})

		// shortcode applies the same rule the allocator enforces on
		// caller-supplied codes.
		_ = validate.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return false
			}
			return links.ValidateShortCode(strings.TrimSpace(fl.Field().String())) == nil
		})
	})
	return validate
}

func Validate(s any) error {
	return Get().Struct(s)
}
