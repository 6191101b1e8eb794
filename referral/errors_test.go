package referral

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", notFoundError("request", 7))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "wrapped: request 7 not found", err.Error())

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(classifyDBError(gorm.ErrRecordNotFound, "patient", 3)))
	assert.Nil(t, classifyDBError(nil, "patient", 3))

	inner := errors.New("disk full")
	e := &Error{Kind: KindValidation, Msg: "bad upload", Err: inner}
	assert.ErrorIs(t, e, inner)
	assert.Equal(t, "bad upload: disk full", e.Error())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "internal", KindInternal.String())
}
