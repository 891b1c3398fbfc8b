package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"course-portal/internal/model"
)

var (
	notBlankTag    = "notblank"
	phoneTag       = "phone"
	answerRangeTag = "answer_range"

	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

var (
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

// Errors maps JSON field names to a translated message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return model.ErrInvalidInput
}

func setup() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if fld.Anonymous {
			return fld.Name
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	validate.RegisterStructValidation(questionStructValidation, model.Question{})

	registerCustomTranslations(notBlankTag, phoneTag, answerRangeTag)
	overrideTranslation("eq", "this field must be accepted")
	overrideTranslation("eqfield", "values do not match")
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func overrideTranslation(tag string, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case phoneTag:
		return "phone must have exactly 10 digits"
	case answerRangeTag:
		return "correct answer must point to one of the options"
	default:
		return ""
	}
}

// Struct validates v and returns Errors keyed by JSON field name, or nil.
func Struct(v any) error {
	once.Do(setup)

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		key := fieldKey(fe)
		if _, exists := out[key]; !exists {
			out[key] = fe.Translate(translator)
		}
	}
	return out
}

// fieldKey drops the root struct and embedded struct names from the
// namespace, keeping the JSON path of nested fields.
func fieldKey(fe validator.FieldError) string {
	segments := strings.Split(fe.Namespace(), ".")
	kept := make([]string, 0, len(segments))
	for i, segment := range segments {
		if i == 0 || segment == "" || unicode.IsUpper([]rune(segment)[0]) {
			continue
		}
		kept = append(kept, segment)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func questionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(model.Question)
	if !ok {
		return
	}
	if q.CorrectAnswer >= len(q.Options) {
		sl.ReportError(q.CorrectAnswer, "respuesta_correcta", "CorrectAnswer", answerRangeTag, "")
	}
}
