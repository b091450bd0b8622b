package fuzzerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationErrorFormatsWithAndWithoutCause(t *testing.T) {
	cause := errors.New("width mismatch")
	withCause := &MutationError{Frame: "MAX_DATA", Reason: "does not fit", Err: cause}
	assert.Contains(t, withCause.Error(), "MAX_DATA")
	assert.Contains(t, withCause.Error(), "does not fit")
	assert.Contains(t, withCause.Error(), "width mismatch")
	assert.ErrorIs(t, withCause, cause)

	withoutCause := &MutationError{Frame: "PING", Reason: "nothing to mutate"}
	assert.Contains(t, withoutCause.Error(), "PING")
	assert.NoError(t, withoutCause.Unwrap())
}

func TestParseErrorFormatsWithAndWithoutOffset(t *testing.T) {
	cause := errors.New("truncated")
	withOffset := &ParseError{Operation: "walk frames", Offset: 4, Err: cause}
	assert.Contains(t, withOffset.Error(), "walk frames")
	assert.Contains(t, withOffset.Error(), "4")
	assert.ErrorIs(t, withOffset, cause)

	noOffset := &ParseError{Operation: "parse VN version list", Offset: -1, Err: cause}
	assert.NotContains(t, noOffset.Error(), "at offset")
	assert.Contains(t, noOffset.Error(), "parse VN version list")
}

func TestCapacityErrorReportsActionAndBounds(t *testing.T) {
	err := &CapacityError{Action: "append corpus entry", Needed: 40, Capacity: 32}
	msg := err.Error()
	assert.Contains(t, msg, "append corpus entry")
	assert.Contains(t, msg, "40")
	assert.Contains(t, msg, "32")
}

func TestErrorsAsMatchesConcreteTypes(t *testing.T) {
	var err error = &CapacityError{Action: "extend payload", Needed: 10, Capacity: 5}
	var capErr *CapacityError
	assert.True(t, errors.As(err, &capErr))
	assert.Equal(t, "extend payload", capErr.Action)
}
