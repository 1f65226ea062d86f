// Package engine связывает контекст рендера с выходами сессии: видеосинком,
// звуковым буфером и окном. Здесь же живут цикл кадров и жизненный цикл элементов.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ivlev/framekit/internal/audio"
	"github.com/ivlev/framekit/internal/config"
	"github.com/ivlev/framekit/internal/display"
	"github.com/ivlev/framekit/internal/render"
	"github.com/ivlev/framekit/internal/system"
	"github.com/ivlev/framekit/internal/video"
)

var logger = slog.New(slog.DiscardHandler)

// SetLogger задает логгер пакета. nil возвращает логгер по умолчанию.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}

var (
	// ErrStopAnimation - штатная остановка записи. Run ее не возвращает.
	ErrStopAnimation = errors.New("stop animation")
	// ErrStopInteractive - окно просят закрыть. Run ее не возвращает.
	ErrStopInteractive = errors.New("stop interactive")
)

// Имена выходных файлов, если в конфиге пусто.
const (
	DefaultVideoOutput    = "output.mp4"
	DefaultPartialVideo   = "output_video.mp4"
	DefaultAudioOutput    = "output_audio.wav"
	DefaultImageOutput    = "output.png"
	DefaultCombinedOutput = "output.mp4"
)

// Session - одна сессия рендера. Набор выходов определяется тем, какие из
// полей sink, audio, display и gpu заданы; цикл кадров смотрит только на них.
type Session struct {
	*render.Canvas

	Config *config.Config
	// Events копит события ввода между опросами, пока их не заберут.
	Events []display.Event

	ctx    context.Context
	runner video.Runner
	mode   string

	sink    *video.SegmentedSink
	audio   *audio.Buffer
	display display.Display
	gpu     display.GPU
	clock   *display.Clock

	imageOutput string
	videoOutput string
	audioOutput string
	finalOutput string

	frame  []byte
	dt     float64
	frames int
	start  time.Time
	sleep  func(time.Duration)
	closed bool
}

func newSession(ctx context.Context, cfg *config.Config, fps int, mode string) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := render.NewCanvas(cfg.Width, cfg.Height, fps)
	c.Debug = cfg.Debug
	c.Construct = cfg.Construct
	c.Selected = cfg.Selected
	c.DebugColor = render.Color{R: cfg.DebugColor[0], G: cfg.DebugColor[1], B: cfg.DebugColor[2]}
	if cfg.UIScale > 0 {
		c.UIScale = cfg.UIScale
	}

	return &Session{
		Canvas: c,
		Config: cfg,
		ctx:    ctx,
		mode:   mode,
		start:  time.Now(),
		sleep:  time.Sleep,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *Session) withSink(output string) {
	s.videoOutput = output
	s.sink = video.NewSegmentedSink(s.ctx, output, s.Config.EncodeParams(), s.runner)
}

func (s *Session) withAudio() {
	s.audio = audio.NewBuffer(s.Config.SampleRate, s.Config.Length, s.Config.Tempo, s.Config.FPS)
}

// removeStale удаляет результаты прошлого запуска, чтобы склейка
// не подхватила старый файл.
func removeStale(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("remove stale output", "path", p, "err", err)
		}
	}
}

// NewVideo - запись видео без звука в cfg.VideoOutput.
func NewVideo(ctx context.Context, cfg *config.Config, runner video.Runner) (*Session, error) {
	s, err := newSession(ctx, cfg, cfgFPS(cfg), "video")
	if err != nil {
		return nil, err
	}
	s.runner = runner
	s.withSink(orDefault(s.Config.VideoOutput, DefaultVideoOutput))
	return s, nil
}

// NewAudioVideo пишет видео и звук отдельно, а при закрытии сводит их в
// cfg.FinalOutput.
func NewAudioVideo(ctx context.Context, cfg *config.Config, runner video.Runner) (*Session, error) {
	s, err := newSession(ctx, cfg, cfgFPS(cfg), "audio+video")
	if err != nil {
		return nil, err
	}
	s.runner = runner
	s.audioOutput = orDefault(s.Config.AudioOutput, DefaultAudioOutput)
	s.finalOutput = orDefault(s.Config.FinalOutput, DefaultCombinedOutput)
	s.withSink(orDefault(s.Config.VideoOutput, DefaultPartialVideo))
	removeStale(s.videoOutput, s.audioOutput)
	s.withAudio()
	return s, nil
}

// NewImage - один кадр, который сохраняется в cfg.ImageOutput при закрытии.
func NewImage(cfg *config.Config) (*Session, error) {
	s, err := newSession(context.Background(), cfg, 1, "image")
	if err != nil {
		return nil, err
	}
	s.imageOutput = orDefault(s.Config.ImageOutput, DefaultImageOutput)
	return s, nil
}

// NewInteractive показывает кадры в окне. Если задан cfg.FinalOutput,
// сессия дополнительно пишет видео и звук и сводит их при закрытии.
func NewInteractive(ctx context.Context, cfg *config.Config, disp display.Display, runner video.Runner) (*Session, error) {
	if disp == nil {
		return nil, errors.New("interactive session needs a display")
	}
	s, err := newSession(ctx, cfg, cfgFPS(cfg), "interactive")
	if err != nil {
		return nil, err
	}
	s.display = disp
	s.clock = display.NewClock()
	s.record(runner)
	return s, nil
}

// NewGPUInteractive - то же, что NewInteractive, но кадр уходит текстурой.
func NewGPUInteractive(ctx context.Context, cfg *config.Config, gpu display.GPU, runner video.Runner) (*Session, error) {
	if gpu == nil {
		return nil, errors.New("gpu session needs a gpu display")
	}
	s, err := newSession(ctx, cfg, cfgFPS(cfg), "gpu")
	if err != nil {
		return nil, err
	}
	s.gpu = gpu
	s.clock = display.NewClock()
	s.record(runner)
	return s, nil
}

func (s *Session) record(runner video.Runner) {
	if s.Config.FinalOutput == "" {
		return
	}
	s.mode += "+record"
	s.runner = runner
	s.finalOutput = s.Config.FinalOutput
	s.audioOutput = orDefault(s.Config.AudioOutput, DefaultAudioOutput)
	s.withSink(orDefault(s.Config.VideoOutput, DefaultPartialVideo))
	removeStale(s.videoOutput, s.audioOutput)
	s.withAudio()
}

func cfgFPS(cfg *config.Config) int {
	if cfg == nil {
		return config.Default().FPS
	}
	return cfg.FPS
}

func (s *Session) HasVideoSink() bool   { return s.sink != nil }
func (s *Session) HasAudioBuffer() bool { return s.audio != nil }
func (s *Session) HasDisplay() bool     { return s.display != nil }
func (s *Session) HasGPU() bool         { return s.gpu != nil }

// Audio возвращает звуковой буфер сессии или nil.
func (s *Session) Audio() *audio.Buffer { return s.audio }

// Sink возвращает видеосинк сессии или nil.
func (s *Session) Sink() *video.SegmentedSink { return s.sink }

func (s *Session) Mode() string { return s.mode }

// FramesSaved - сколько кадров прошло через SaveFrame.
func (s *Session) FramesSaved() int { return s.frames }

// DT - секунды между двумя последними показами кадра в окне.
func (s *Session) DT() float64 { return s.dt }

// DrainEvents отдает накопленные события и очищает очередь.
func (s *Session) DrainEvents() []display.Event {
	events := s.Events
	s.Events = nil
	return events
}

// Run выполняет fn и всегда закрывает сессию. Штатные сигналы остановки
// не считаются ошибкой; ошибки закрытия только логируются.
func (s *Session) Run(fn func(*Session) error) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("session finalized with errors", "mode", s.mode, "err", cerr)
			fmt.Printf("[!] Ошибки при завершении сессии: %v\n", cerr)
		}
	}()

	err = fn(s)
	switch {
	case errors.Is(err, ErrStopAnimation):
		fmt.Println("[*] Анимация остановлена")
		return nil
	case errors.Is(err, ErrStopInteractive):
		fmt.Println("[*] Интерактивный режим остановлен")
		return nil
	}
	return err
}

// Close останавливает энкодер, склеивает части, пишет звук, сводит дорожки
// и дописывает отчет. Повторный вызов ничего не делает.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.display != nil {
		if err := s.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close display: %w", err))
		}
	}
	if s.gpu != nil {
		if err := s.gpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close gpu display: %w", err))
		}
	}

	if s.sink != nil {
		err := s.sink.Finalize()
		if errors.Is(err, video.ErrNoParts) {
			fmt.Println("[!] Нет частей видео для склейки")
		} else if err != nil {
			errs = append(errs, fmt.Errorf("finalize video: %w", err))
		}
	}

	if s.audio != nil {
		if err := s.audio.Finalize(s.audioOutput); err != nil {
			errs = append(errs, fmt.Errorf("finalize audio: %w", err))
		}
	}

	if s.finalOutput != "" && s.sink != nil && s.audio != nil {
		err := video.Combine(s.ctx, s.runner, s.videoOutput, s.audioOutput, s.finalOutput)
		if errors.Is(err, video.ErrMissingInput) {
			fmt.Printf("[!] Сведение пропущено: %v\n", err)
		} else if err != nil {
			errs = append(errs, err)
		}
	}

	if s.imageOutput != "" {
		if err := s.SaveImage(s.imageOutput); err != nil {
			errs = append(errs, fmt.Errorf("save image: %w", err))
		}
	}

	if err := s.report(); err != nil {
		logger.Warn("write report", "err", err)
	}

	if s.frame != nil {
		system.PutFrame(s.frame)
		s.frame = nil
	}
	if err := s.Canvas.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
