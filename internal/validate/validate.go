// Package validate performs pre-flight field validation for the account
// forms. It is pure: no side effects, no network access. A form whose
// validation returns no findings is eligible for submission.
package validate

import (
	"github.com/go-playground/validator/v10"

	"github.com/nfrund/accountctl/internal/domain"
)

// LoginForm carries the inputs of the login screen.
type LoginForm struct {
	Identifier string `validate:"required"`
	Secret     string `validate:"required"`
}

// RegistrationForm carries the inputs of the registration screen.
//
// The email rule is intentionally weak: the only format requirement is the
// presence of "@". This mirrors the account service's own check and is a
// documented policy, not a gap to strengthen.
type RegistrationForm struct {
	DisplayName        string `validate:"required"`
	Email              string `validate:"required,contains=@"`
	Secret             string `validate:"required"`
	SecretConfirmation string `validate:"required,eqfield=Secret"`
}

// ProfileUpdateForm carries the inputs of the profile edit screen. All
// fields are optional (the service applies only the non-empty ones), but a
// provided email must still contain "@".
type ProfileUpdateForm struct {
	DisplayName string
	Email       string `validate:"omitempty,contains=@"`
	Secret      string
}

var v = validator.New()

// fieldFor maps a struct field name to the form field it represents.
var fieldFor = map[string]domain.Field{
	"Identifier":         domain.FieldIdentifier,
	"DisplayName":        domain.FieldIdentifier,
	"Email":              domain.FieldEmail,
	"Secret":             domain.FieldSecret,
	"SecretConfirmation": domain.FieldSecretConfirmation,
}

// messages keyed by struct field name and failing tag.
var messages = map[string]map[string]string{
	"Identifier": {
		"required": "Username or email is required",
	},
	"DisplayName": {
		"required": "Username is required",
	},
	"Email": {
		"required": "Email is required",
		"contains": `Email must contain "@"`,
	},
	"Secret": {
		"required": "Password is required",
	},
	"SecretConfirmation": {
		"required": "Confirm password is required",
		"eqfield":  "Passwords do not match",
	},
}

// Login validates the login form and returns every violation at once.
func Login(form LoginForm) domain.FieldErrors {
	return run(form)
}

// Registration validates the registration form and returns every violation
// at once. The secret equality rule only applies when both secret fields are
// present; an empty secret already yields its own required finding.
func Registration(form RegistrationForm) domain.FieldErrors {
	findings := run(form)
	if form.Secret != "" {
		return findings
	}
	filtered := findings[:0]
	for _, fe := range findings {
		if fe.Field == domain.FieldSecretConfirmation && fe.Message == messages["SecretConfirmation"]["eqfield"] {
			continue
		}
		filtered = append(filtered, fe)
	}
	return filtered
}

// ProfileUpdate validates the profile edit form.
func ProfileUpdate(form ProfileUpdateForm) domain.FieldErrors {
	return run(form)
}

func run(form any) domain.FieldErrors {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Struct-level misuse (nil, non-struct). Validation itself never
		// fails on user input.
		panic(err)
	}

	findings := make(domain.FieldErrors, 0, len(verrs))
	for _, ve := range verrs {
		field, ok := fieldFor[ve.StructField()]
		if !ok {
			continue
		}
		msg := messages[ve.StructField()][ve.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		findings = append(findings, domain.FieldError{Field: field, Message: msg})
	}
	return findings
}
