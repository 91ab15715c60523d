package delivery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSendError_NilPassthrough(t *testing.T) {
	assert.Nil(t, NewSendError("telegram", nil))
}

func TestSendError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewSendError("telegram", cause)

	var se SendError
	require := assert.New(t)
	require.ErrorAs(err, &se)
	require.Equal(cause, errors.Unwrap(err))
	require.True(se.Temporary())
	require.Equal(ErrCodeSendFailed, se.Code())
}

func TestIsTemporary(t *testing.T) {
	assert.True(t, IsTemporary(NewSendError("telegram", errors.New("boom"))))
	assert.False(t, IsTemporary(errors.New("plain error")))
}
