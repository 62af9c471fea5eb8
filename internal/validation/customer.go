package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
)

const (
	notBlankTag = "notblank"
	phoneTag    = "ukphone"
	postCodeTag = "ukpostcode"
)

var (
	phoneRegexp    = regexp.MustCompile(`^(?:0|\+?44)(?:\d\s?){9,10}$`)
	postCodeRegexp = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9A-Za-z]{1,2}[ ]?[0-9]{0,1}[A-Za-z]{2}$`)
)

// Customer fields as they are reported in violations
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPostCode = "postCode"
	FieldCountry  = "country"
)

// Customer rule messages
const (
	MsgCustomerNotExist = "Customer does not exist."
	MsgNameRequired     = "Name is required."
	MsgNameTooShort     = "Name must be at least 3 characters."
	MsgNameTooLong      = "Name must not exceed 50 characters."
	MsgNameExists       = "Name already exists."
	MsgEmailInvalid     = "Email is not valid."
	MsgEmailTooLong     = "Email address must not exceed 150 characters."
	MsgEmailExists      = "Email already exists."
	MsgPhoneInvalid     = "Phone number is not valid."
	MsgPostCodeInvalid  = "Postcode is not valid."
	MsgCountryLength    = "Country must be between 2 and 50 characters if provided."
)

// CustomerLookup gives access to persisted customers for rules which depend on current state
type CustomerLookup interface {
	GetByID(context.Context, int) (*model.Customer, error)
	GetByName(context.Context, string) (*model.Customer, error)
	GetByEmail(context.Context, string) (*model.Customer, error)
}

// CustomerValidator checks customer against all business rules
type CustomerValidator interface {
	Validate(context.Context, CustomerLookup, *model.Customer) ([]apperrors.Violation, error)
}

type fieldRule struct {
	tag string
	msg string
}

var (
	nameRules = []fieldRule{
		{tag: notBlankTag, msg: MsgNameRequired},
		{tag: "min=3", msg: MsgNameTooShort},
		{tag: "max=50", msg: MsgNameTooLong},
	}
	emailRules = []fieldRule{
		{tag: "email", msg: MsgEmailInvalid},
		{tag: "max=150", msg: MsgEmailTooLong},
	}
	phoneRules    = []fieldRule{{tag: phoneTag, msg: MsgPhoneInvalid}}
	postCodeRules = []fieldRule{{tag: postCodeTag, msg: MsgPostCodeInvalid}}
	countryRules  = []fieldRule{{tag: "omitempty,min=2,max=50", msg: MsgCountryLength}}
)

type customerValidator struct {
	validate *validator.Validate
}

// NewCustomerValidator builds CustomerValidator, every rule is evaluated independently so all violations are reported
func NewCustomerValidator() (CustomerValidator, error) {
	validate := validator.New()

	if err := validate.RegisterValidation(notBlankTag, validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register %s validation - %w", notBlankTag, err)
	}

	if err := validate.RegisterValidation(phoneTag, matches(phoneRegexp)); err != nil {
		return nil, fmt.Errorf("failed to register %s validation - %w", phoneTag, err)
	}

	if err := validate.RegisterValidation(postCodeTag, matches(postCodeRegexp)); err != nil {
		return nil, fmt.Errorf("failed to register %s validation - %w", postCodeTag, err)
	}

	return &customerValidator{validate: validate}, nil
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func (v *customerValidator) Validate(ctx context.Context, lookup CustomerLookup, c *model.Customer) ([]apperrors.Violation, error) {
	violations := make([]apperrors.Violation, 0)

	if !c.IsNew() {
		existing, err := lookup.GetByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			violations = append(violations, apperrors.Violation{Field: FieldID, Message: MsgCustomerNotExist})
		}
	}

	violations = append(violations, v.check(FieldName, c.Name, nameRules)...)

	sameName, err := lookup.GetByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}

	if sameName != nil && sameName.ID != c.ID {
		violations = append(violations, apperrors.Violation{Field: FieldName, Message: MsgNameExists})
	}

	violations = append(violations, v.check(FieldEmail, c.Email, emailRules)...)

	sameEmail, err := lookup.GetByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}

	if sameEmail != nil && sameEmail.ID != c.ID {
		violations = append(violations, apperrors.Violation{Field: FieldEmail, Message: MsgEmailExists})
	}

	if phone := model.Value(c.Phone); phone != "" {
		violations = append(violations, v.check(FieldPhone, phone, phoneRules)...)
	}

	if postCode := model.Value(c.PostCode); postCode != "" {
		violations = append(violations, v.check(FieldPostCode, postCode, postCodeRules)...)
	}

	violations = append(violations, v.check(FieldCountry, model.Value(c.Country), countryRules)...)

	return violations, nil
}

func (v *customerValidator) check(field string, value string, rules []fieldRule) []apperrors.Violation {
	var violations []apperrors.Violation
	for _, r := range rules {
		if err := v.validate.Var(value, r.tag); err != nil {
			violations = append(violations, apperrors.Violation{Field: field, Message: r.msg})
		}
	}
	return violations
}
