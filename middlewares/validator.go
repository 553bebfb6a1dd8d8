package middlewares

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"vitatrack/models"
)

// RegisterValidations adds the enum checks used by binding tags.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("goal", func(fl validator.FieldLevel) bool {
		return models.Goal(fl.Field().String()).Valid()
	})
}
