package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrMissingInput = errors.New("missing input")

// Combine кладет готовый звук к готовому видео: видео копируется,
// звук перекодируется в AAC, длина обрезается по короткому потоку.
// Если какого-то файла нет, склейка пропускается.
func Combine(ctx context.Context, runner Runner, videoPath, audioPath, output string) error {
	if runner == nil {
		runner = &FFmpegRunner{}
	}

	var missing []string
	for _, p := range []string{videoPath, audioPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if videoPath == "" || audioPath == "" {
		missing = append(missing, "(not configured)")
	}
	if len(missing) > 0 {
		logger.Warn("combine skipped", "missing", missing)
		return fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}

	if out, err := runner.Run(ctx, MuxArgs(videoPath, audioPath, output)); err != nil {
		return fmt.Errorf("ffmpeg mux error: %v, output: %s", err, string(out))
	}
	logger.Info("combined", "video", videoPath, "audio", audioPath, "output", output)
	return nil
}
