package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
	apperrors "github.com/umalmyha/customers/internal/errors"
)

// PayloadError is raised when request payload breaks declared rules
type PayloadError struct {
	violations []apperrors.Violation
}

func (e *PayloadError) Error() string {
	buff := bytes.NewBufferString("")

	for _, err := range e.violations {
		buff.WriteString(err.Message)
		buff.WriteString("\n")
	}

	return buff.String()
}

// Violation appends violation to the error
func (e *PayloadError) Violation(v apperrors.Violation) {
	e.violations = append(e.violations, v)
}

// Violations returns all collected violations
func (e *PayloadError) Violations() []apperrors.Violation {
	return e.violations
}

func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []apperrors.Violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

// EchoValidator adapts validator to echo.Validator interface
type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// Echo builds EchoValidator
func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

// NewEchoValidator builds EchoValidator with english messages, fields are reported by their form/json names
func NewEchoValidator() (*EchoValidator, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(fieldName)

	trans, err := EnglishTranslator(validate)
	if err != nil {
		return nil, err
	}
	return Echo(validate, trans), nil
}

// EnglishTranslator builds english translator and registers default translations for validate
func EnglishTranslator(validate *validator.Validate) (ut.Translator, error) {
	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)

	trans, ok := unvTranslator.GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translations")
	}

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register en translations - %w", err)
	}
	return trans, nil
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return v.payloadError(ve)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (v *EchoValidator) payloadError(ve validator.ValidationErrors) error {
	pldErr := &PayloadError{violations: make([]apperrors.Violation, 0)}
	for _, e := range ve {
		pldErr.Violation(apperrors.Violation{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return pldErr
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json", "param"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}
