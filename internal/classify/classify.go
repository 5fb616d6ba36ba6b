// Package classify turns a raw failure signal from the account service (an
// HTTP status plus a free-text message) into field-scoped errors where the
// message can be attributed, or a single global error otherwise.
//
// The service emits no structured error codes, so attribution is heuristic
// case-insensitive substring matching against known tokens. The accuracy of
// this layer depends on the service's message text staying stable; that
// fragility is intrinsic to the contract and is kept isolated here so it can
// be swapped out if the service ever grows structured codes.
package classify

import (
	"net/http"
	"strings"

	"github.com/nfrund/accountctl/internal/domain"
)

// rule maps message tokens to the fields they implicate. Rules are evaluated
// in order; the first match wins. A rule with two tokens requires both.
type rule struct {
	tokens []string
	fields []domain.Field
}

// rules covers the login and registration/update failure vocabularies.
// "incorrect password" and "not found" come from the login flow; bare
// "username"/"email" mentions come from duplicate-attribute rejections.
var rules = []rule{
	{tokens: []string{"incorrect password"}, fields: []domain.Field{domain.FieldSecret}},
	{tokens: []string{"not found"}, fields: []domain.Field{domain.FieldIdentifier}},
	{tokens: []string{"username", "email"}, fields: []domain.Field{domain.FieldIdentifier, domain.FieldEmail}},
	{tokens: []string{"username"}, fields: []domain.Field{domain.FieldIdentifier}},
	{tokens: []string{"email"}, fields: []domain.Field{domain.FieldEmail}},
}

// fieldMessages are the inline messages shown next to an implicated input on
// duplicate-attribute rejections.
var fieldMessages = map[domain.Field]string{
	domain.FieldIdentifier: "Username already exists",
	domain.FieldEmail:      "Email already exists",
}

// Classify maps a failure response to an error from the domain taxonomy.
// The status code selects the kind; the message text selects the fields.
// Messages that match no rule fall through to GlobalError.
func Classify(status int, message string) error {
	lower := strings.ToLower(message)

	var fields []domain.Field
	for _, r := range rules {
		if matches(lower, r.tokens) {
			fields = r.fields
			break
		}
	}

	switch {
	case hasField(fields, domain.FieldSecret):
		return &domain.AuthError{
			Message: message,
			Fields: domain.FieldErrors{
				{Field: domain.FieldSecret, Message: "Password is incorrect."},
			},
		}
	case strings.Contains(lower, "not found"):
		return &domain.NotFoundError{
			Message: message,
			Fields: domain.FieldErrors{
				{Field: domain.FieldIdentifier, Message: "Username or email does not exist."},
			},
		}
	case status == http.StatusConflict && len(fields) > 0:
		return &domain.ConflictError{Message: message, Fields: fieldErrors(fields)}
	case status == http.StatusBadRequest && len(fields) > 0:
		return &domain.ValidationError{Fields: fieldErrors(fields)}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &domain.AuthError{Message: message}
	}

	return &domain.GlobalError{StatusCode: status, Message: message}
}

func matches(lower string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}

func hasField(fields []domain.Field, f domain.Field) bool {
	for _, have := range fields {
		if have == f {
			return true
		}
	}
	return false
}

func fieldErrors(fields []domain.Field) domain.FieldErrors {
	findings := make(domain.FieldErrors, 0, len(fields))
	for _, f := range fields {
		msg := fieldMessages[f]
		if msg == "" {
			msg = "Invalid value"
		}
		findings = append(findings, domain.FieldError{Field: f, Message: msg})
	}
	return findings
}
