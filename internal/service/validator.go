package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	weekdayTag  = "weekday"
	clockTag    = "clock"
	dateTag     = "isodate"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Имена полей в ошибках берём из json тегов
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(weekdayTag, weekdayValidation)
	_ = Validate.RegisterValidation(clockTag, layoutValidation(clockLayout))
	_ = Validate.RegisterValidation(dateTag, layoutValidation(dateLayout))

	registerCustomTranslations(notBlankTag, weekdayTag, clockTag, dateTag)
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomErrs)
	}
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case weekdayTag:
		return "must be a weekday name like Monday"
	case clockTag:
		return "must be a time in HH:MM format"
	case dateTag:
		return "must be a date in YYYY-MM-DD format"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func weekdayValidation(fl validator.FieldLevel) bool {
	_, ok := model.ParseWeekday(fl.Field().String())
	return ok
}

func layoutValidation(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// validateStruct прогоняет валидатор и переводит ошибки в *ValidationError
func validateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(vErrs))}
	for _, fe := range vErrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return out
}

// normalizeEmail приводит email к виду, по которому идёт сравнение на равенство
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
