// Package validation is an explicit field-validation pipeline. It returns a
// map of field name to message key, so the response layer can localize each
// message and the rules stay testable without any HTTP machinery.
package validation

import (
	"unicode"

	"flyhigh/internal/dto"

	"github.com/go-playground/validator/v10"
)

// EmailTaken reports whether an account already exists for the address.
type EmailTaken func(email string) bool

type UserValidator struct {
	validate   *validator.Validate
	emailTaken EmailTaken
}

func NewUserValidator(emailTaken EmailTaken) *UserValidator {
	return &UserValidator{
		validate:   validator.New(),
		emailTaken: emailTaken,
	}
}

// ValidateRegistration checks every field and aggregates failures, one message
// key per field. An empty map means the request is valid.
func (v *UserValidator) ValidateRegistration(req dto.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	switch {
	case req.Username == "":
		errs["username"] = "username_null"
	case v.validate.Var(req.Username, "min=4,max=32") != nil:
		errs["username"] = "username_size"
	}

	switch {
	case req.Email == "":
		errs["email"] = "email_null"
	case v.validate.Var(req.Email, "email") != nil:
		errs["email"] = "email_invalid"
	case v.emailTaken != nil && v.emailTaken(req.Email):
		errs["email"] = "email_inuse"
	}

	switch {
	case req.Password == "":
		errs["password"] = "password_null"
	case len(req.Password) < 6:
		errs["password"] = "password_size"
	case !passwordComplexEnough(req.Password):
		errs["password"] = "password_pattern"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidLoginRequest reports whether a login payload is well-formed. A missing
// or malformed email can never match an account, so the caller treats an
// invalid payload exactly like wrong credentials.
func (v *UserValidator) ValidLoginRequest(req dto.LoginRequest) bool {
	return req.Email != "" &&
		v.validate.Var(req.Email, "email") == nil &&
		req.Password != ""
}

// passwordComplexEnough requires at least one uppercase letter, one lowercase
// letter, and one digit.
func passwordComplexEnough(password string) bool {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
