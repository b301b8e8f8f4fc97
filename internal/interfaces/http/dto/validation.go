package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// usernameRegex matches letters, digits and @/./+/-/_ only
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterFormValidations installs the custom validation tags used by the
// form bindings on gin's validator engine. Call once at startup, before
// the first request is bound.
func RegisterFormValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", validUsername)
}

func validUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}
