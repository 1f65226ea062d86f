package audio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// WriteWAV пишет моно 16-битный PCM. Значения вне [-1, 1] обрезаются.
func WriteWAV(path string, samples []float64, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pos := 0
	stream := beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(out) && pos < len(samples) {
			v := max(-1, min(1, samples[pos]))
			out[n] = [2]float64{v, v}
			n++
			pos++
		}
		return n, true
	})

	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, stream, format); err != nil {
		f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	return f.Close()
}

// LoadWAV читает WAV в моно float64 (среднее каналов) и возвращает частоту.
func LoadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	defer stream.Close()

	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, 0, fmt.Errorf("%w: %s: %d channels", ErrUnsupportedFormat, path, format.NumChannels)
	}

	samples := make([]float64, 0, stream.Len())
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for _, s := range buf[:n] {
			samples = append(samples, (s[0]+s[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, fmt.Errorf("read wav %s: %w", path, err)
	}

	return samples, int(format.SampleRate), nil
}

// LoadSamples загружает несколько файлов параллельно, сохраняя порядок.
func LoadSamples(ctx context.Context, paths ...string) ([][]float64, error) {
	out := make([][]float64, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples, _, err := LoadWAV(p)
			if err != nil {
				return err
			}
			out[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
