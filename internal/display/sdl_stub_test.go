//go:build !sdl2

package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSDLStub(t *testing.T) {
	_, err := NewWindow("test", 10, 10)
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = NewGPUWindow("test", 10, 10)
	assert.ErrorIs(t, err, ErrNotAvailable)
}
