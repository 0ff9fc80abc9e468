package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := Validation("text is required")
	assert.Equal(t, "text is required", err.Error())

	wrapped := Wrap(errors.New("connection refused"), ErrCodeUpstream, "ml service call failed")
	assert.Equal(t, "ml service call failed: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "something broke")

	require.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("job not found")))
	assert.True(t, IsConflict(Conflict("email already registered")))
	assert.True(t, IsValidation(Validation("bad input")))
	assert.True(t, IsUnauthorized(Unauthorized("invalid credentials")))
	assert.True(t, IsUpstream(Upstream("ml service returned 500")))
	assert.True(t, IsInternal(Internal("invariant violated")))
	assert.True(t, IsTimeout(Timeout("deadline exceeded")))

	assert.False(t, IsNotFound(Validation("bad input")))
	assert.False(t, IsValidation(errors.New("plain error")))
	assert.False(t, IsUpstream(nil))
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := NotFoundf("job %s not found", "abc")
	outer := Wrap(inner, ErrCodeInternal, "lookup failed")

	// errors.As walks the chain, so the outermost code wins.
	assert.True(t, IsInternal(outer))
	assert.Equal(t, ErrCodeInternal, GetCode(outer))

	// Wrapping a plain error inside an AppError still matches by code.
	plain := errors.New("dial tcp: i/o timeout")
	assert.True(t, IsUpstream(Wrap(plain, ErrCodeUpstream, "analyze call failed")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, GetCode(Validation("x")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestGetField(t *testing.T) {
	err := ValidationField("email", "email is required")
	assert.Equal(t, "email", GetField(err))
	assert.Equal(t, "", GetField(Validation("no field")))
}
