package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo.
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// parseBody BodyParser + validación de tags. Devuelve FieldError sobre el primer campo inválido.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errBody(err)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.InvalidField(fe.Field(), describeRule(fe))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "obligatorio"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "len":
		return "longitud " + fe.Param()
	}
	return "regla " + fe.Tag()
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
