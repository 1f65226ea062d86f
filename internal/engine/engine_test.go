package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/framekit/internal/config"
	"github.com/ivlev/framekit/internal/display"
	"github.com/ivlev/framekit/internal/geom"
	"github.com/ivlev/framekit/internal/render"
	"github.com/ivlev/framekit/internal/scene"
	"github.com/ivlev/framekit/internal/video"
)

// fakeRunner вместо ffmpeg пишет файлы частей и запоминает кадры.
type fakeRunner struct {
	procs []*fakeProcess
	runs  [][]string
}

type fakeProcess struct {
	path   string
	frames [][]byte
}

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.frames = append(p.frames, slices.Clone(b))
	return len(b), nil
}

func (p *fakeProcess) Close() error {
	return os.WriteFile(p.path, []byte("part"), 0644)
}

func (r *fakeRunner) Start(_ context.Context, args []string, _ io.Writer) (video.Process, error) {
	p := &fakeProcess{path: args[len(args)-1]}
	r.procs = append(r.procs, p)
	return p, nil
}

func (r *fakeRunner) Run(_ context.Context, args []string) ([]byte, error) {
	r.runs = append(r.runs, args)
	return nil, os.WriteFile(args[len(args)-1], []byte("final"), 0644)
}

func (r *fakeRunner) frames() [][]byte {
	var all [][]byte
	for _, p := range r.procs {
		all = append(all, p.frames...)
	}
	return all
}

func testConfig(t *testing.T, fps int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Width, cfg.Height = 8, 4
	cfg.FPS = fps
	cfg.Length = 1
	cfg.SampleRate = 8000
	cfg.VideoOutput = filepath.Join(dir, "video.mp4")
	cfg.AudioOutput = filepath.Join(dir, "audio.wav")
	cfg.ImageOutput = filepath.Join(dir, "still.png")
	cfg.EncoderLog = filepath.Join(dir, "ffmpeg.log")
	cfg.ReportLog = filepath.Join(dir, "framekit.log")
	return cfg
}

// counter завершается на k-м шаге.
type counter struct {
	k, calls int
}

func (c *counter) Step() (Status, error) {
	c.calls++
	if c.calls >= c.k {
		return Done, nil
	}
	return Continue, nil
}

func forever() Stepper {
	return StepFunc(func() (Status, error) { return Continue, nil })
}

func TestVideoSessionWritesFloorFrames(t *testing.T) {
	cfg := testConfig(t, 60)
	runner := &fakeRunner{}
	s, err := NewVideo(context.Background(), cfg, runner)
	require.NoError(t, err)
	assert.True(t, s.HasVideoSink())
	assert.False(t, s.HasAudioBuffer())
	assert.False(t, s.HasDisplay())
	assert.False(t, s.HasGPU())

	drawn := 0
	err = s.Run(func(s *Session) error {
		return s.Frames(3, render.BLACK, func(frame int) error {
			assert.Equal(t, drawn, frame)
			drawn++
			s.DrawRect(geom.Pt(1, 1), 2, 2, render.WHITE)
			return nil
		})
	})
	require.NoError(t, err)

	assert.Equal(t, 180, drawn)
	assert.Equal(t, 180, s.Sink().Frames())
	assert.Len(t, s.Sink().Parts(), 1)
	assert.Empty(t, runner.runs, "single part is renamed, not concatenated")
	assert.FileExists(t, cfg.VideoOutput)

	log, err := os.ReadFile(cfg.ReportLog)
	require.NoError(t, err)
	assert.Contains(t, string(log), "Mode: video")
	assert.Contains(t, string(log), "Frames: 180")
}

func TestVideoSessionRotatesParts(t *testing.T) {
	cfg := testConfig(t, 60)
	cfg.MaxFramesPerPart = 50
	runner := &fakeRunner{}
	s, err := NewVideo(context.Background(), cfg, runner)
	require.NoError(t, err)

	require.NoError(t, s.Run(func(s *Session) error {
		return s.Frames(2, render.BLACK, func(int) error { return nil })
	}))

	require.Len(t, runner.procs, 3)
	for _, p := range runner.procs {
		assert.LessOrEqual(t, len(p.frames), 50)
	}
	require.Len(t, runner.runs, 1)
	assert.Equal(t, "concat", runner.runs[0][2])
	assert.FileExists(t, cfg.VideoOutput)
}

func TestFrameCount(t *testing.T) {
	s, err := NewVideo(context.Background(), testConfig(t, 30), &fakeRunner{})
	require.NoError(t, err)
	defer s.Close()

	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{0.5, 15},
		{1, 30},
		{1.01, 30},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.FrameCount(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestWaitRepeatsCurrentFrame(t *testing.T) {
	cfg := testConfig(t, 30)
	runner := &fakeRunner{}
	s, err := NewVideo(context.Background(), cfg, runner)
	require.NoError(t, err)

	var n int
	require.NoError(t, s.Run(func(s *Session) error {
		if err := s.OneFrame(render.RED, func() error { return nil }); err != nil {
			return err
		}
		n, err = s.Wait(0.5)
		return err
	}))

	assert.Equal(t, 15, n)
	frames := runner.frames()
	require.Len(t, frames, 16)
	for _, f := range frames[1:] {
		assert.Equal(t, frames[0], f)
	}
	// BGRA: красный лежит в третьем байте
	assert.Equal(t, []byte{0, 0, 255, 255}, frames[0][:4])
}

func TestElementLifecycle(t *testing.T) {
	cfg := testConfig(t, 10)
	s, err := NewVideo(context.Background(), cfg, &fakeRunner{})
	require.NoError(t, err)

	target := &counter{k: 3}
	el := NewElement("target", target)
	var present []bool
	elements := Elements{}
	probe := NewElement("probe", StepFunc(func() (Status, error) {
		present = append(present, slices.Contains(elements, el))
		return Continue, nil
	}))
	elements = append(elements, probe, el, NewElement("idle", forever()))

	require.NoError(t, s.Run(func(s *Session) error {
		_, err := s.RenderFrames(0.5, &elements, render.BLACK)
		return err
	}))

	assert.Equal(t, []bool{true, true, true, false, false}, present)
	assert.Equal(t, 3, target.calls, "completed element must not be stepped again")
	assert.True(t, el.Finished())
	assert.Len(t, elements, 2)
}

func TestElementsStepDefersRemoval(t *testing.T) {
	a := NewElement("a", &counter{k: 1})
	b := NewElement("b", &counter{k: 1})
	c := NewElement("c", forever())
	elements := Elements{a, b, c}

	removed, err := elements.Step()
	require.NoError(t, err)
	assert.Equal(t, []*Element{a, b}, removed)
	assert.Equal(t, Elements{c}, elements)

	st, err := a.Step()
	require.NoError(t, err)
	assert.Equal(t, Done, st)
	assert.Equal(t, 1, a.Stepper.(*counter).calls)
}

func TestElementErrorAbortsRun(t *testing.T) {
	cfg := testConfig(t, 10)
	s, err := NewVideo(context.Background(), cfg, &fakeRunner{})
	require.NoError(t, err)

	boom := errors.New("boom")
	steps := 0
	elements := Elements{NewElement("broken", StepFunc(func() (Status, error) {
		steps++
		if steps == 2 {
			return Continue, boom
		}
		return Continue, nil
	}))}

	err = s.Run(func(s *Session) error {
		_, err := s.RenderFrames(1, &elements, render.BLACK)
		return err
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 2, steps)

	// закрытие прошло: первый кадр склеен, отчет записан
	assert.Equal(t, 1, s.Sink().Frames())
	assert.FileExists(t, cfg.VideoOutput)
	assert.FileExists(t, cfg.ReportLog)
}

func TestStopAnimationIsNotAnError(t *testing.T) {
	cfg := testConfig(t, 10)
	s, err := NewVideo(context.Background(), cfg, &fakeRunner{})
	require.NoError(t, err)

	err = s.Run(func(s *Session) error {
		return s.Frames(10, render.BLACK, func(frame int) error {
			if frame == 4 {
				return ErrStopAnimation
			}
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Sink().Frames())
}

func TestEmptySessionWarnsWithoutFailing(t *testing.T) {
	cfg := testConfig(t, 10)
	s, err := NewVideo(context.Background(), cfg, &fakeRunner{})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoFileExists(t, cfg.VideoOutput)
	require.NoError(t, s.Close(), "second close is a no-op")
}

func TestAudioVideoSession(t *testing.T) {
	cfg := testConfig(t, 10)
	cfg.FinalOutput = filepath.Join(t.TempDir(), "final.mp4")
	runner := &fakeRunner{}
	s, err := NewAudioVideo(context.Background(), cfg, runner)
	require.NoError(t, err)
	assert.True(t, s.HasAudioBuffer())

	elements := Elements{NewElement("idle", forever())}
	var cursors []int
	require.NoError(t, s.Run(func(s *Session) error {
		for range 2 {
			c, err := s.RenderFrames(1, &elements, render.BLACK)
			if err != nil {
				return err
			}
			cursors = append(cursors, c)
		}
		return nil
	}))

	assert.Equal(t, []int{10, 20}, cursors)
	assert.FileExists(t, cfg.AudioOutput)
	assert.FileExists(t, cfg.FinalOutput)
	require.Len(t, runner.runs, 1)
	assert.Equal(t, video.MuxArgs(cfg.VideoOutput, cfg.AudioOutput, cfg.FinalOutput), runner.runs[0])
}

func TestImageSession(t *testing.T) {
	cfg := testConfig(t, 30)
	s, err := NewImage(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, s.FPS)

	elements := Elements{NewElement("dot", StepFunc(func() (Status, error) {
		s.DrawDisk(geom.Pt(1, 1), 2, render.WHITE)
		return Done, nil
	}))}
	require.NoError(t, s.Run(func(s *Session) error {
		return s.RenderImage(&elements, render.BLUE)
	}))

	assert.Empty(t, elements)
	assert.Equal(t, 1, s.FramesSaved())
	assert.FileExists(t, cfg.ImageOutput)
}

func TestInteractiveQuitStopsRun(t *testing.T) {
	cfg := testConfig(t, 1000)
	cfg.FinalOutput = filepath.Join(t.TempDir(), "final.mp4")
	h := display.NewHeadless()
	h.QuitAfter = 3
	runner := &fakeRunner{}

	s, err := NewInteractive(context.Background(), cfg, h, runner)
	require.NoError(t, err)
	assert.True(t, s.HasDisplay())
	assert.True(t, s.HasVideoSink())

	drawn := 0
	err = s.Run(func(s *Session) error {
		return s.Frames(10, render.BLACK, func(int) error {
			drawn++
			return nil
		})
	})
	require.NoError(t, err)

	assert.Equal(t, 3, drawn)
	assert.Equal(t, 3, h.Frames)
	assert.True(t, h.Closed())
	// кадр, на котором пришел Quit, в видео не попадает
	assert.Equal(t, 2, s.Sink().Frames())
	assert.FileExists(t, cfg.FinalOutput)
}

func TestInteractiveEventsAccumulate(t *testing.T) {
	cfg := testConfig(t, 1000)
	h := display.NewHeadless()
	s, err := NewInteractive(context.Background(), cfg, h, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.HasVideoSink())

	h.Push(display.Event{Type: display.KeyDown, Key: display.KeySpace})
	require.NoError(t, s.OneFrame(render.BLACK, func() error { return nil }))
	h.Push(display.Event{Type: display.MouseMotion, X: 3, Y: 1})
	require.NoError(t, s.PauseFrame())

	require.Len(t, s.Events, 2)
	assert.Equal(t, display.KeyDown, s.Events[0].Type)
	assert.Equal(t, display.MouseMotion, s.Events[1].Type)

	events := s.DrainEvents()
	assert.Len(t, events, 2)
	assert.Empty(t, s.Events)

	h.Push(display.Event{Type: display.Quit})
	assert.ErrorIs(t, s.PauseFrame(), ErrStopInteractive)
}

func TestInteractiveWaitSleeps(t *testing.T) {
	cfg := testConfig(t, 30)
	s, err := NewInteractive(context.Background(), cfg, display.NewHeadless(), nil)
	require.NoError(t, err)
	defer s.Close()

	var slept time.Duration
	s.sleep = func(d time.Duration) { slept += d }

	n, err := s.Wait(0.5)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 500*time.Millisecond, slept)
}

func TestPauseFrameDoesNotRecord(t *testing.T) {
	cfg := testConfig(t, 1000)
	cfg.FinalOutput = filepath.Join(t.TempDir(), "final.mp4")
	h := display.NewHeadless()
	s, err := NewInteractive(context.Background(), cfg, h, &fakeRunner{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PauseFrame())
	assert.Equal(t, 1, h.Frames)
	assert.Zero(t, s.Sink().Frames())
}

func TestGPUSessionUploadsRGBA(t *testing.T) {
	cfg := testConfig(t, 1000)
	h := display.NewHeadless()
	s, err := NewGPUInteractive(context.Background(), cfg, h, nil)
	require.NoError(t, err)
	assert.True(t, s.HasGPU())
	assert.False(t, s.HasDisplay())

	require.NoError(t, s.OneFrame(render.RED, func() error { return nil }))
	assert.Equal(t, 1, h.Presents)
	assert.Equal(t, []byte{255, 0, 0, 255}, h.Last[:4])

	h.Push(display.Event{Type: display.Quit})
	err = s.OneFrame(render.RED, func() error { return nil })
	assert.ErrorIs(t, err, ErrStopInteractive)
	require.NoError(t, s.Close())
	assert.True(t, h.Closed())
}

func TestNewInteractiveNeedsDisplay(t *testing.T) {
	_, err := NewInteractive(context.Background(), testConfig(t, 30), nil, nil)
	assert.Error(t, err)
	_, err = NewGPUInteractive(context.Background(), testConfig(t, 30), nil, nil)
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 0)
	_, err := NewVideo(context.Background(), cfg, &fakeRunner{})
	assert.Error(t, err)
}

func TestElementField(t *testing.T) {
	step := forever()
	e := NewElement("circle", step)

	v, err := e.Field(0)
	require.NoError(t, err)
	assert.Equal(t, "circle", v)

	v, err = e.Field(2)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = e.Field(1)
	require.NoError(t, err)

	_, err = e.Field(3)
	assert.ErrorIs(t, err, scene.ErrIndexOutOfRange)
	_, err = e.Field(-1)
	assert.ErrorIs(t, err, scene.ErrIndexOutOfRange)
}

func TestElementWithoutStepper(t *testing.T) {
	_, err := (&Element{Name: "empty"}).Step()
	assert.Error(t, err)
}

func TestElementsFind(t *testing.T) {
	elements := Elements{NewElement("a", forever()), NewElement("b", forever())}
	e, err := elements.Find("b")
	require.NoError(t, err)
	assert.Equal(t, "b", e.Name)

	_, err = elements.Find("c")
	assert.ErrorIs(t, err, scene.ErrNotFound)
}

func TestRenderElementsRunsAtLeastOnce(t *testing.T) {
	s, err := NewImage(testConfig(t, 30))
	require.NoError(t, err)
	defer s.Close()

	c := &counter{k: 5}
	elements := Elements{NewElement("c", c)}
	var frames []int
	require.NoError(t, s.RenderElements(0, &elements, func(frame int, removed []*Element) error {
		frames = append(frames, frame)
		assert.Empty(t, removed)
		return nil
	}))
	assert.Equal(t, []int{0}, frames)
	assert.Equal(t, 1, c.calls)
	assert.Zero(t, s.FramesSaved())
}

func TestRenderElementLists(t *testing.T) {
	cfg := testConfig(t, 10)
	s, err := NewImage(cfg)
	require.NoError(t, err)
	defer s.Close()
	// у картинки fps 1, так что 3 секунды - 3 шага
	short := NewElement("short", &counter{k: 2})
	long := NewElement("long", &counter{k: 10})
	first := []*Element{short, nil}
	second := []*Element{long}

	steps := 0
	require.NoError(t, s.RenderElementLists(3, func(int) error {
		steps++
		return nil
	}, first, second))

	assert.Equal(t, 3, steps)
	assert.Equal(t, []*Element{nil, nil}, first)
	assert.Equal(t, []*Element{long}, second)
	assert.Equal(t, 3, long.Stepper.(*counter).calls)

	require.NoError(t, s.RenderElementListsOnce(first, second))
	assert.Equal(t, 4, long.Stepper.(*counter).calls)
}

func TestElementsViewOrder(t *testing.T) {
	near := NewElement("near", forever())
	near.Solid = []geom.Vec3{{0, 0, 10}, {2, 0, 10}}
	far := NewElement("far", forever())
	far.Solid = []geom.Vec3{{0, 0, -10}}
	flat := NewElement("flat", forever())

	// взгляд по умолчанию направлен вдоль -z
	seq, err := scene.ViewOrder([]*Element{flat, far, near}, scene.Default())
	require.NoError(t, err)
	var names []string
	for e := range seq {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"near", "far", "flat"}, names)
}
