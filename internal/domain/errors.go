package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Field identifies which form input a finding applies to.
type Field string

const (
	FieldIdentifier         Field = "identifier"
	FieldEmail              Field = "email"
	FieldSecret             Field = "secret"
	FieldSecretConfirmation Field = "secret_confirmation"
)

// FieldError is a single field-scoped finding, produced either by local
// validation or by classifying a remote failure message.
type FieldError struct {
	Field   Field
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is the set of findings for one form instance.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the first finding for the given field, if any.
func (e FieldErrors) ByField(f Field) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == f {
			return fe, true
		}
	}
	return FieldError{}, false
}

// ValidationError is a field-scoped failure. Client-side validation produces
// one before any network call; the service can also surface one (e.g. a
// malformed email on update).
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields.Error()
}

// AuthError indicates bad or expired credentials. Fields is non-empty when
// the failure could be attributed to a specific input.
type AuthError struct {
	Message string
	Fields  FieldErrors
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// ConflictError indicates a duplicate identity attribute on register or
// update. Fields names which of the attributes collided.
type ConflictError struct {
	Message string
	Fields  FieldErrors
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "conflicting account attributes"
	}
	return e.Message
}

// NotFoundError indicates an unknown identifier or account.
type NotFoundError struct {
	Message string
	Fields  FieldErrors
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// NetworkError wraps a transport-level failure: the service never produced
// a response to classify.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("account service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// GlobalError is the fallback for a server failure message that could not
// be attributed to any field. It is presented as a blocking top-level
// failure rather than inline.
type GlobalError struct {
	StatusCode int
	Message    string
}

func (e *GlobalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("account service error (status %d)", e.StatusCode)
	}
	return e.Message
}

// FieldErrorsFrom extracts the field-scoped findings carried by any error in
// the taxonomy. It returns nil for global, network and unknown errors.
func FieldErrorsFrom(err error) FieldErrors {
	var (
		fe FieldErrors
		ve *ValidationError
		ae *AuthError
		ce *ConflictError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.As(err, &ve):
		return ve.Fields
	case errors.As(err, &ae):
		return ae.Fields
	case errors.As(err, &ce):
		return ce.Fields
	case errors.As(err, &ne):
		return ne.Fields
	}
	return nil
}
