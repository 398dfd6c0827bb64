// Package validate собирает валидатор тел запросов с дополнительными правилами.
package validate

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator"
)

// TagMaxBytes ограничивает длину строки в байтах: max считает символы,
// а bcrypt принимает не больше 72 байт.
const TagMaxBytes = "maxbytes"

// New возвращает validator.Validate с зарегистрированным правилом maxbytes.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(TagMaxBytes, maxBytes); err != nil {
		panic("validate: " + err.Error())
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= limit
}
