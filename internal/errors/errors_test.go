package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := NotFound("sample")
	wrapped := Wrapf(base, "loading sample %d", 7)

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "loading sample 7: sample not found", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Wrap(cause, "fit failed")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWithCode(t *testing.T) {
	cause := stderrors.New("bad token")
	err := WithCode(CodeInvalidInput, cause)

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestGetCode_FindsWrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", DatabaseError("connection refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.True(t, IsAppError(err))

	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestConstructorsWithCause(t *testing.T) {
	cause := stderrors.New("connection reset")

	err := DatabaseError("failed to load sample").WithCause(cause)
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Equal(t, "failed to load sample: connection reset", err.Error())
	assert.True(t, stderrors.Is(err, cause))

	err = InternalError("unexpected error").WithCause(cause)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, cause))
}
