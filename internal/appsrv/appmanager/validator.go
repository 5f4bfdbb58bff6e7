package appmanager

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

var v *validator.Validate

// V returns the shared validator instance with the custom validations
// registered.
func V() *validator.Validate {
	return v
}

const nameRegex = `^[A-Za-z0-9][A-Za-z0-9_.-]*$`

// nameFormatValidator checks if the given name is alphanumeric with
// underscores, dots and hyphens, not starting with a separator.
func nameFormatValidator(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(nameRegex)
	return re.MatchString(fl.Field().String())
}

// versionStatusValidator checks if the given value is a known lifecycle
// status.
func versionStatusValidator(fl validator.FieldLevel) bool {
	return types.VersionStatus(fl.Field().String()).IsValid()
}

func init() {
	v = validator.New()
	v.RegisterValidation("nameFormat", nameFormatValidator)
	v.RegisterValidation("versionStatus", versionStatusValidator)
}
