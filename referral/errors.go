package referral

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/sisreg/model"
	"gorm.io/gorm"
)

// Kind classifies domain errors. Anything that is not an *Error is internal.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthorization
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is a classified domain error carrying a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConflict      = &Error{Kind: KindConflict}
)

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func authorizationError(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(entity string, id uint) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s %d not found", entity, id)}
}

func conflictError(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// classifyDBError turns lookup misses and model invariant violations into
// domain errors and leaves everything else untouched.
func classifyDBError(err error, entity string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundError(entity, id)
	case errors.Is(err, model.ErrExclusiveServiceType):
		return &Error{Kind: KindConflict, Msg: model.ErrExclusiveServiceType.Error()}
	}
	return err
}
