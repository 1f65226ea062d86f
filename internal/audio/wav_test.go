package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]float64, 4410)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}

	require.NoError(t, WriteWAV(path, samples, 44100))

	loaded, rate, err := LoadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)
	require.Len(t, loaded, len(samples))

	want := append([]float64(nil), samples...)
	Normalize(want)
	Normalize(loaded)
	for i := range want {
		require.InDelta(t, want[i], loaded[i], 1e-3, "sample %d", i)
	}
}

func TestLoadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff header"), 0644))

	_, _, err := LoadWAV(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadSamplesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	require.NoError(t, WriteWAV(a, make([]float64, 100), 8000))
	require.NoError(t, WriteWAV(b, make([]float64, 300), 8000))

	out, err := LoadSamples(context.Background(), a, b)
	require.NoError(t, err)
	assert.Len(t, out[0], 100)
	assert.Len(t, out[1], 300)

	_, err = LoadSamples(context.Background(), a, filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}
