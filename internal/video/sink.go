package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/framekit/internal/config"
)

var ErrNoParts = errors.New("no parts to combine")

// SegmentedSink пишет сырые BGRA кадры в ffmpeg и режет поток на части
// не длиннее MaxFrames кадров. Finalize склеивает части в один файл.
type SegmentedSink struct {
	ctx    context.Context
	runner Runner
	params config.EncodeParams

	output string
	base   string
	ext    string

	proc   Process
	log    *os.File
	part   int
	count  int
	total  int
	parts  []string
	closed bool
}

func NewSegmentedSink(ctx context.Context, output string, params config.EncodeParams, runner Runner) *SegmentedSink {
	if runner == nil {
		runner = &FFmpegRunner{}
	}
	if params.MaxFrames <= 0 {
		params.MaxFrames = 3600
	}
	ext := filepath.Ext(output)
	return &SegmentedSink{
		ctx:    ctx,
		runner: runner,
		params: params,
		output: output,
		base:   strings.TrimSuffix(output, ext),
		ext:    ext,
	}
}

func (s *SegmentedSink) FrameSize() int {
	return s.params.Width * s.params.Height * 4
}

// Parts возвращает имена записанных частей в порядке записи.
func (s *SegmentedSink) Parts() []string {
	return append([]string(nil), s.parts...)
}

func (s *SegmentedSink) Frames() int {
	return s.total
}

func (s *SegmentedSink) Output() string {
	return s.output
}

// Write отправляет один кадр энкодеру. Энкодер стартует лениво на первом кадре
// и перезапускается в новую часть, когда текущая набрала MaxFrames кадров.
func (s *SegmentedSink) Write(frame []byte) error {
	if s.closed {
		return errors.New("write to finalized sink")
	}
	if len(frame) != s.FrameSize() {
		return fmt.Errorf("frame size %d, want %d", len(frame), s.FrameSize())
	}

	if s.proc != nil && s.count >= s.params.MaxFrames {
		if err := s.Stop(); err != nil {
			logger.Warn("encoder part finished with error", "part", s.parts[len(s.parts)-1], "err", err)
		}
	}
	if s.proc == nil {
		if err := s.start(); err != nil {
			return err
		}
	}

	if _, err := s.proc.Write(frame); err != nil {
		return fmt.Errorf("write frame %d to %s: %w", s.total, s.parts[len(s.parts)-1], err)
	}
	s.count++
	s.total++
	return nil
}

func (s *SegmentedSink) start() error {
	if s.log == nil && s.params.LogPath != "" {
		f, err := os.OpenFile(s.params.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open encoder log: %w", err)
		}
		s.log = f
	}

	name := fmt.Sprintf("%s.%04d%s", s.base, s.part, s.ext)
	var stderr io.Writer
	if s.log != nil {
		stderr = s.log
	}

	proc, err := s.runner.Start(s.ctx, EncodeArgs(s.params, name), stderr)
	if err != nil {
		return fmt.Errorf("start part %s: %w", name, err)
	}

	logger.Debug("encoder part started", "part", name)
	s.proc = proc
	s.parts = append(s.parts, name)
	s.part++
	s.count = 0
	return nil
}

// Stop закрывает текущий энкодер. Повторный вызов ничего не делает.
func (s *SegmentedSink) Stop() error {
	if s.proc == nil {
		return nil
	}
	proc := s.proc
	s.proc = nil
	if err := proc.Close(); err != nil {
		return fmt.Errorf("close part %s: %w", s.parts[len(s.parts)-1], err)
	}
	return nil
}

// Finalize останавливает энкодер и собирает итоговый файл:
// одна часть переименовывается, несколько склеиваются через concat.
func (s *SegmentedSink) Finalize() error {
	var errs []error
	if err := s.Stop(); err != nil {
		errs = append(errs, err)
	}
	s.closed = true
	if s.log != nil {
		s.log.Close()
		s.log = nil
	}

	switch len(s.parts) {
	case 0:
		logger.Warn("no parts to combine", "output", s.output)
		return errors.Join(append(errs, ErrNoParts)...)
	case 1:
		if err := os.Rename(s.parts[0], s.output); err != nil {
			errs = append(errs, fmt.Errorf("rename part: %w", err))
		}
		return errors.Join(errs...)
	}

	if err := Concat(s.ctx, s.runner, s.parts, s.output); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Concat склеивает готовые части через concat demuxer без перекодирования.
func Concat(ctx context.Context, runner Runner, parts []string, output string) error {
	manifest := filepath.Join(filepath.Dir(output), "files.txt")
	f, err := os.Create(manifest)
	if err != nil {
		return fmt.Errorf("create concat manifest: %w", err)
	}
	for _, p := range parts {
		absPath, err := filepath.Abs(p)
		if err != nil {
			absPath = p
		}
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}

	if out, err := runner.Run(ctx, ConcatArgs(manifest, output)); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}
