package quiz

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type fieldValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

//nolint:gochecknoglobals // The validator caches struct metadata and is safe for concurrent use.
var getValidator = sync.OnceValue(func() *fieldValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	return &fieldValidator{validate: v, trans: trans}
})

// validateFields validates s and returns its problems keyed by JSON field name.
// It returns an empty map when s is valid.
func validateFields(s any) map[string]string {
	fv := getValidator()
	problems := make(map[string]string)

	err := fv.validate.Struct(s)
	if err == nil {
		return problems
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		problems["body"] = err.Error()

		return problems
	}
	for _, fe := range ve {
		problems[fe.Field()] = fe.Translate(fv.trans)
	}

	return problems
}

// ValidationError reports the fields of a request that failed validation.
type ValidationError struct {
	Problems map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for f := range e.Problems {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Problems[f])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns a *ValidationError for problems, or nil if there are none.
func NewValidationError(problems map[string]string) error {
	if len(problems) == 0 {
		return nil
	}

	return &ValidationError{Problems: problems}
}
