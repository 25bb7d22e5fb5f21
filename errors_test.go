package worldpack_test

import (
	"errors"
	"testing"

	"github.com/dargueta/worldpack"
	"github.com/stretchr/testify/assert"
)

func TestCodecErrorWithMessage(t *testing.T) {
	newErr := worldpack.ErrConfig.WithMessage("world file is 7 bytes")
	assert.Equal(
		t, "Invalid configuration: world file is 7 bytes", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, worldpack.ErrConfig)
	assert.NotErrorIs(t, newErr, worldpack.ErrTruncatedStream)
}

func TestCodecErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := worldpack.ErrIOFailed.Wrap(originalErr)
	expectedMessage := "Input/output error: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, worldpack.ErrIOFailed, "codec error not set as parent")
}

func TestCodecErrorChained(t *testing.T) {
	newErr := worldpack.ErrTruncatedStream.WithMessage("reading run type").
		WithMessage("chunk 12 of 40")
	assert.Equal(
		t,
		"Bitstream truncated: reading run type: chunk 12 of 40",
		newErr.Error(),
	)
	assert.ErrorIs(t, newErr, worldpack.ErrTruncatedStream)
}
