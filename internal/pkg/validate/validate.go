package validate

import (
	"github.com/go-playground/validator/v10"
)

// validate - один инстанс на процесс, валидатор потокобезопасен
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct проверяет struct по validate-тегам полей
func Struct(s interface{}) error {
	return validate.Struct(s)
}
