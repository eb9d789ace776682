// Package validation registers custom binding rules on gin's validator engine.
package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eren/clubsphere/internal/app/models"
)

// Name length bounds shared by club and role names
const (
	NameMinLength = 1
	NameMaxLength = 50
)

// RegisterCustomValidators installs the domain binding rules. Call once at
// startup before the router starts serving.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("permtoken", validPermissionToken)
}

// validPermissionToken accepts only tokens from the fixed permission
// vocabulary.
func validPermissionToken(fl validator.FieldLevel) bool {
	return models.Permission(fl.Field().String()).IsValid()
}
