package school

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"attendance-server-go/models"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	curriculumTag  = "curriculum"
	curriculumText = "{0} must be a subject of the curriculum"

	requiredTag  = "required"
	requiredText = "{0} is required"

	datetimeTag  = "datetime"
	datetimeText = "{0} must be a date formatted as YYYY-MM-DD"
)

// Instantiate the validator for use.
func init() {
	validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(curriculumTag, curriculumValidation)
	registerCustomTranslation(curriculumTag, curriculumText)
	registerCustomTranslation(requiredTag, requiredText, true)
	registerCustomTranslation(datetimeTag, datetimeText, true)
}

// registerCustomTranslation registers a custom translation for the specified validation tag.
func registerCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// curriculumValidation only allows subjects of the curriculum.
func curriculumValidation(fl validator.FieldLevel) bool {
	return models.InCurriculum(fl.Field().String())
}

// cleanString trims all leading and trailing white space in `s`.
func cleanString(s string) string {
	return strings.TrimSpace(s)
}
