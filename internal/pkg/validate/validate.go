package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/folio-space/core/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var registerOnce sync.Once

// Register installs the custom binding tags on gin's validator:
// objectid (24-char hex id) and subsource (a known subscriber source).
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("subsource", func(fl validator.FieldLevel) bool {
			return models.Source(fl.Field().String()).Valid()
		})
	})
}

// Message turns a binding error into a user-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "objectid":
		return "Invalid id"
	case "subsource":
		return "Invalid source"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func humanize(field string) string {
	if field == "" {
		return "Field"
	}
	return field
}
