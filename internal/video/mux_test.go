package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	v := filepath.Join(dir, "v.mp4")
	a := filepath.Join(dir, "a.wav")
	out := filepath.Join(dir, "final.mp4")

	t.Run("missing audio", func(t *testing.T) {
		require.NoError(t, os.WriteFile(v, []byte("v"), 0644))
		runner := &fakeRunner{}

		err := Combine(context.Background(), runner, v, a, out)
		assert.ErrorIs(t, err, ErrMissingInput)
		assert.ErrorContains(t, err, "a.wav")
		assert.NotContains(t, err.Error(), "v.mp4")
		assert.Empty(t, runner.runs)
	})

	t.Run("both present", func(t *testing.T) {
		require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
		runner := &fakeRunner{}

		require.NoError(t, Combine(context.Background(), runner, v, a, out))
		require.Len(t, runner.runs, 1)
		assert.Equal(t, MuxArgs(v, a, out), runner.runs[0])
		assert.Contains(t, runner.runs[0], "-shortest")
	})

	t.Run("ffmpeg failure", func(t *testing.T) {
		runner := &fakeRunner{runErr: errors.New("exit status 1")}
		assert.ErrorContains(t, Combine(context.Background(), runner, v, a, out), "boom")
	})
}
