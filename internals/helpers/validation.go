package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationErrorMap: validator.ValidationErrors → {"field": ["required"]}
// Nama field memakai tag json kalau ada.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		msg := fe.Tag()
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

// NewValidator: validator dengan nama field dari tag json.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindAndValidate: BodyParser + Struct. Kirim response error sendiri dan
// mengembalikan ok=false kalau gagal.
func BindAndValidate(c *fiber.Ctx, v *validator.Validate, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := v.Struct(dst); err != nil {
		return false, JsonValidationError(c, ValidationErrorMap(err))
	}
	return true, nil
}
