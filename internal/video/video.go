package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/ivlev/framekit/internal/config"
)

var logger = slog.New(slog.DiscardHandler)

// SetLogger задает логгер пакета. nil возвращает логгер без вывода.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}

// Process - запущенный энкодер, принимающий сырые кадры на stdin.
type Process interface {
	io.Writer
	// Close закрывает stdin и дожидается завершения процесса.
	Close() error
}

// Runner запускает внешний ffmpeg. Тесты подменяют его фейком.
type Runner interface {
	Start(ctx context.Context, args []string, stderr io.Writer) (Process, error)
	Run(ctx context.Context, args []string) ([]byte, error)
}

type FFmpegRunner struct {
	Binary string
}

func (r *FFmpegRunner) binary() string {
	if r.Binary == "" {
		return "ffmpeg"
	}
	return r.Binary
}

func (r *FFmpegRunner) Start(ctx context.Context, args []string, stderr io.Writer) (Process, error) {
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegProcess{cmd: cmd, stdin: stdin}, nil
}

func (r *FFmpegRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, r.binary(), args...).CombinedOutput()
}

type ffmpegProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func (p *ffmpegProcess) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

func (p *ffmpegProcess) Close() error {
	closeErr := p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}
	return closeErr
}

// EncodeArgs собирает аргументы для кодирования BGRA кадров из stdin в mp4 без звука.
func EncodeArgs(p config.EncodeParams, output string) []string {
	encoder := p.Encoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-s", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-pix_fmt", "bgra",
		"-r", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
		"-threads", "0",
		"-an",
		"-vcodec", encoder,
	}

	// Качество в зависимости от энкодера
	switch encoder {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", p.Quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", p.Quality))
	default: // libx264
		preset := p.Preset
		if preset == "" {
			preset = "fast"
		}
		args = append(args, "-preset", preset, "-crf", fmt.Sprintf("%d", p.Quality))
	}

	return append(args, "-pix_fmt", "yuv420p", "-f", "mp4", output)
}

func ConcatArgs(manifest, output string) []string {
	return []string{"-y", "-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", output}
}

func MuxArgs(videoPath, audioPath, output string) []string {
	return []string{"-y", "-i", videoPath, "-i", audioPath, "-c:v", "copy", "-c:a", "aac", "-shortest", output}
}
