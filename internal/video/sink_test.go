package video

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/framekit/internal/config"
)

// fakeRunner вместо ffmpeg создает файл части и считает кадры.
type fakeRunner struct {
	started  [][]string
	runs     [][]string
	procs    []*fakeProcess
	runErr   error
	startErr error
}

type fakeProcess struct {
	path   string
	frames int
	closed int
	stderr io.Writer
}

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.frames++
	return len(b), nil
}

func (p *fakeProcess) Close() error {
	p.closed++
	if p.stderr != nil {
		io.WriteString(p.stderr, "encoded "+p.path+"\n")
	}
	return os.WriteFile(p.path, []byte("part"), 0644)
}

func (r *fakeRunner) Start(_ context.Context, args []string, stderr io.Writer) (Process, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.started = append(r.started, args)
	p := &fakeProcess{path: args[len(args)-1], stderr: stderr}
	r.procs = append(r.procs, p)
	return p, nil
}

func (r *fakeRunner) Run(_ context.Context, args []string) ([]byte, error) {
	r.runs = append(r.runs, args)
	if r.runErr != nil {
		return []byte("boom"), r.runErr
	}
	return nil, os.WriteFile(args[len(args)-1], []byte("final"), 0644)
}

func testParams(dir string, maxFrames int) config.EncodeParams {
	return config.EncodeParams{
		Width: 4, Height: 2, FPS: 30,
		Encoder: "libx264", Quality: 17, Preset: "fast",
		MaxFrames: maxFrames,
		LogPath:   filepath.Join(dir, "ffmpeg.log"),
	}
}

func TestSegmentedSinkRotation(t *testing.T) {
	tests := []struct {
		name      string
		cap       int
		frames    int
		wantParts int
	}{
		{"single part", 180, 180, 1},
		{"exact multiple", 10, 30, 3},
		{"remainder", 10, 31, 4},
		{"one over", 5, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			runner := &fakeRunner{}
			sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "out.mp4"), testParams(dir, tt.cap), runner)

			frame := make([]byte, sink.FrameSize())
			for i := 0; i < tt.frames; i++ {
				require.NoError(t, sink.Write(frame))
			}
			require.NoError(t, sink.Stop())

			require.Len(t, runner.procs, tt.wantParts)
			total := 0
			for _, p := range runner.procs {
				assert.LessOrEqual(t, p.frames, tt.cap)
				assert.Equal(t, 1, p.closed)
				total += p.frames
			}
			assert.Equal(t, tt.frames, total)
			assert.Equal(t, tt.frames, sink.Frames())
		})
	}
}

func TestSegmentedSinkPartNames(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "clip.mp4"), testParams(dir, 2), runner)

	frame := make([]byte, sink.FrameSize())
	for i := 0; i < 5; i++ {
		require.NoError(t, sink.Write(frame))
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "clip.0000.mp4"),
		filepath.Join(dir, "clip.0001.mp4"),
		filepath.Join(dir, "clip.0002.mp4"),
	}, sink.Parts())

	args := runner.started[0]
	assert.Contains(t, args, "bgra")
	assert.Contains(t, args, "4x2")
	assert.Equal(t, "-", args[indexOf(args, "-i")+1])
}

func TestFinalizeSinglePartRenames(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "video.mp4")
	runner := &fakeRunner{}
	sink := NewSegmentedSink(context.Background(), out, testParams(dir, 3600), runner)

	frame := make([]byte, sink.FrameSize())
	for i := 0; i < 180; i++ {
		require.NoError(t, sink.Write(frame))
	}
	require.NoError(t, sink.Finalize())

	assert.Empty(t, runner.runs, "rename path must not invoke concat")
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "video.0000.mp4"))

	log, err := os.ReadFile(filepath.Join(dir, "ffmpeg.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "video.0000.mp4")
}

func TestFinalizeMultiplePartsConcats(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "video.mp4")
	runner := &fakeRunner{}
	sink := NewSegmentedSink(context.Background(), out, testParams(dir, 4), runner)

	frame := make([]byte, sink.FrameSize())
	for i := 0; i < 10; i++ {
		require.NoError(t, sink.Write(frame))
	}
	require.NoError(t, sink.Finalize())

	require.Len(t, runner.runs, 1)
	assert.Equal(t, ConcatArgs(filepath.Join(dir, "files.txt"), out), runner.runs[0])

	manifest, err := os.ReadFile(filepath.Join(dir, "files.txt"))
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(manifest, []byte("file '")))

	// лог дописывается через все части
	log, err := os.ReadFile(filepath.Join(dir, "ffmpeg.log"))
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(log, []byte("encoded")))
}

func TestFinalizeWithoutFrames(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "v.mp4"), testParams(dir, 10), runner)

	err := sink.Finalize()
	assert.ErrorIs(t, err, ErrNoParts)
	assert.Empty(t, runner.runs)
	assert.Error(t, sink.Write(make([]byte, sink.FrameSize())))
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "v.mp4"), testParams(dir, 10), runner)

	require.NoError(t, sink.Write(make([]byte, sink.FrameSize())))
	require.NoError(t, sink.Stop())
	require.NoError(t, sink.Stop())
	assert.Equal(t, 1, runner.procs[0].closed)
}

func TestWriteRejectsWrongSize(t *testing.T) {
	dir := t.TempDir()
	sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "v.mp4"), testParams(dir, 10), &fakeRunner{})
	assert.Error(t, sink.Write(make([]byte, 3)))
}

func TestWriteReportsStartFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{startErr: errors.New("no ffmpeg")}
	sink := NewSegmentedSink(context.Background(), filepath.Join(dir, "v.mp4"), testParams(dir, 10), runner)
	assert.ErrorContains(t, sink.Write(make([]byte, sink.FrameSize())), "no ffmpeg")
}

func TestEncodeArgsQuality(t *testing.T) {
	p := config.EncodeParams{Width: 10, Height: 10, FPS: 24, Quality: 30}

	p.Encoder = "h264_videotoolbox"
	assert.Contains(t, EncodeArgs(p, "o.mp4"), "3000k")

	p.Encoder = "h264_nvenc"
	args := EncodeArgs(p, "o.mp4")
	assert.Equal(t, "30", args[indexOf(args, "-cq")+1])

	p.Encoder = ""
	args = EncodeArgs(p, "o.mp4")
	assert.Contains(t, args, "libx264")
	assert.Equal(t, "30", args[indexOf(args, "-crf")+1])
	assert.Equal(t, "o.mp4", args[len(args)-1])
}

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}
