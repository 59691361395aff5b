package storelens_test

import (
	"errors"
	"testing"

	"github.com/storelens/storelens"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := storelens.Errorf(storelens.ENOTFOUND, "snapshot %q not found", "test")

	assert.Equal(t, storelens.ENOTFOUND, storelens.ErrorCode(err))
	assert.Equal(t, "snapshot \"test\" not found", storelens.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, storelens.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, storelens.EINTERNAL, storelens.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, storelens.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", storelens.ErrorMessage(errors.New("boom")))
}
