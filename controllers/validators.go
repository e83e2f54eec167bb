package controllers

import (
	"regexp"

	"fittrack/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators adds the custom binding tags used by request bodies.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		_, err := services.NormalizeUsername(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
}
