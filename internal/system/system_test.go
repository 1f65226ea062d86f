package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestFile(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.wav")
	fresh := filepath.Join(dir, "fresh.WAV")
	other := filepath.Join(dir, "notes.txt")

	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	got, err := FindLatestAudio(dir)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	_, err = FindLatestImage(dir)
	assert.Error(t, err)
}

func TestPickEncoder(t *testing.T) {
	assert.Equal(t, "h264_nvenc", pickEncoder(" V....D h264_nvenc  NVIDIA NVENC"))
	assert.Equal(t, "h264_videotoolbox", pickEncoder("h264_nvenc h264_videotoolbox"))
	assert.Equal(t, "libx264", pickEncoder("V....D libx264"))
}

func TestFramePoolReuse(t *testing.T) {
	p := NewFramePool()
	buf := p.Get(16)
	assert.Len(t, buf, 16)
	buf[0] = 7
	p.Put(buf)

	again := p.Get(16)
	assert.Len(t, again, 16)

	// буферы чужого размера пул не принимает
	p.Put(make([]byte, 3))
	assert.Len(t, p.Get(32), 32)
}
