package errx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestWrap_MatchesBothErrors(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(errSentinel, cause)

	assert.True(t, errors.Is(err, errSentinel))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "sentinel: cause", err.Error())
}

func TestWith_AppendsDetail(t *testing.T) {
	err := With(errSentinel, ": slot %q not found", "default")

	assert.True(t, errors.Is(err, errSentinel))
	assert.Equal(t, `sentinel: slot "default" not found`, err.Error())
}
