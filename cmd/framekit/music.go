package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/ivlev/framekit/internal/audio"
	"github.com/ivlev/framekit/internal/engine"
	"github.com/ivlev/framekit/internal/geom"
	"github.com/ivlev/framekit/internal/scene"
)

var (
	melody = []string{"A4", "C5", "E5", "D5", "C5", "E5", "G5", "E5"}
	bass   = []string{"A2", "F2", "C3", "G2"}
)

// music раскладывает мелодию по шестнадцатым: бас на сильные доли, мелодия
// на слабые. Ноты меняются каждую целую.
type music struct {
	buf   *audio.Buffer
	lead  map[string][]float64
	low   map[string][]float64
	click []float64
}

func newMusic(buf *audio.Buffer) (*music, error) {
	lead, err := audio.BuildSamples(audio.Triangle, buf.Rate, buf.Eighth(), melody...)
	if err != nil {
		return nil, err
	}
	low, err := audio.BuildSamples(audio.Sawtooth, buf.Rate, buf.Half(), bass...)
	if err != nil {
		return nil, err
	}
	click := audio.NewTable(audio.Square, 256).Render(buf.Rate, audio.Notes["C6"], 0.03)
	return &music{buf: buf, lead: lead, low: low, click: click}, nil
}

func (m *music) Step() (engine.Status, error) {
	frame := m.buf.CurrentFrame
	whole := int(float64(frame) / (m.buf.Whole() * float64(m.buf.FPS)))

	m.buf.OnSixteenths(frame, m.low[bass[whole%len(bass)]], []int{0, 8}, 0.6, m.buf.Half())
	m.buf.OnSixteenths(frame, m.lead[melody[whole%len(melody)]], []int{4, 12}, 0.4, m.buf.Eighth())
	m.buf.OnSixteenths(frame, m.lead[melody[(whole+2)%len(melody)]], []int{6, 14}, 0.25, m.buf.Eighth())
	m.buf.OnSixteenths(frame, m.click, []int{0, 4, 8, 12}, 0.2, 0.03)
	return engine.Continue, nil
}

func waveFunc(name string) (audio.WaveFunc, error) {
	switch name {
	case "sine":
		return audio.Sine, nil
	case "square":
		return audio.Square, nil
	case "saw", "sawtooth":
		return audio.Sawtooth, nil
	case "triangle":
		return audio.Triangle, nil
	}
	return nil, fmt.Errorf("unknown wave %q", name)
}

var toneCommand = cli.Command{
	Name:  "tone",
	Usage: "Синтезировать мелодию из волновой таблицы в WAV",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "WAV файл", Value: "output/tone.wav"},
		cli.StringFlag{Name: "wave", Usage: "sine, square, saw, triangle", Value: "sine"},
		cli.StringFlag{Name: "notes", Usage: "Ноты через запятую", Value: strings.Join(melody, ",")},
		cli.Float64Flag{Name: "tempo", Usage: "Темп, ударов в минуту", Value: 120},
		cli.IntFlag{Name: "rate", Usage: "Частота дискретизации", Value: 44100},
		cli.Float64Flag{Name: "reverb", Usage: "Затухание эха (0 - без эха)", Value: 0.3},
		cli.StringSliceFlag{Name: "mix", Usage: "Подмешать WAV файлы в начало каждой ноты"},
	},
	Action: func(c *cli.Context) error {
		fn, err := waveFunc(c.String("wave"))
		if err != nil {
			return err
		}
		notes := strings.Split(c.String("notes"), ",")
		for i := range notes {
			notes[i] = strings.TrimSpace(notes[i])
			if _, ok := audio.Notes[notes[i]]; !ok {
				return fmt.Errorf("unknown note %q", notes[i])
			}
		}

		rate := c.Int("rate")
		tempo := c.Float64("tempo")
		if tempo <= 0 {
			return fmt.Errorf("invalid tempo %.2f", tempo)
		}
		buf := audio.NewBuffer(rate, 60/tempo*float64(len(notes)), tempo, 1)

		var extra [][]float64
		if paths := c.StringSlice("mix"); len(paths) > 0 {
			ctx, cancel := signalContext()
			defer cancel()
			extra, err = audio.LoadSamples(ctx, paths...)
			if err != nil {
				return err
			}
		}

		table := audio.NewTable(fn, 2048)
		// огибающая поверх каждой ноты, чтобы стык не щелкал
		env := geom.SinInterpolate(1, 0, int(float64(rate)*buf.Quarter()))
		for i, note := range notes {
			tone := table.Render(rate, audio.Notes[note], buf.Quarter())
			for k := range tone {
				if k < len(env) {
					tone[k] *= math.Max(env[k], 0.2)
				}
			}
			at := float64(i) * buf.Quarter()
			buf.MixSample(tone, at, 1, buf.Quarter())
			for _, s := range extra {
				buf.MixSample(s, at, 0.5, buf.Quarter())
			}
		}
		if decay := c.Float64("reverb"); decay > 0 {
			buf.Reverb(decay, buf.Eighth())
		}

		output := c.String("output")
		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return err
		}
		if err := buf.Finalize(output); err != nil {
			return err
		}
		fmt.Printf("[+] Мелодия сохранена: %s (%.1fs)\n", output, buf.Duration())
		return nil
	},
}

var trackCommand = cli.Command{
	Name:      "track",
	Usage:     "Записать пример трека камеры в YAML или показать сцену трека в момент --at",
	ArgsUsage: "<track.yaml>",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "write", Usage: "Записать трек по умолчанию"},
		cli.Float64Flag{Name: "at", Usage: "Момент в секундах", Value: -1},
	},
	Action: func(c *cli.Context) error {
		path := c.Args().Get(0)
		if c.Bool("write") {
			if path == "" {
				path = scene.GenerateTrackPath(scene.TrackDir)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := scene.WriteTrack(defaultTrack(cfg), path); err != nil {
				return err
			}
			fmt.Printf("[+] Трек сохранен: %s\n", path)
			return nil
		}

		if path == "" {
			latest, err := scene.FindLatestTrack(scene.TrackDir)
			if err != nil {
				cli.ShowCommandHelp(c, "track")
				return err
			}
			path = latest
		}
		track, err := scene.ReadTrack(path)
		if err != nil {
			return err
		}
		fmt.Printf("[*] Трек %s: %d ключевых кадров\n", path, len(track.Keyframes))
		if at := c.Float64("at"); at >= 0 {
			sc := track.At(at)
			view, err := sc.ViewVector()
			if err != nil {
				return err
			}
			fmt.Printf("[*] t=%.2fs углы (%.3f, %.3f, %.3f) масштаб %.2f взгляд (%.3f, %.3f, %.3f)\n",
				at, sc.XAngle, sc.YAngle, sc.ZAngle, sc.Scale, view[0], view[1], view[2])
		}
		return nil
	},
}
