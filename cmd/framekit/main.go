package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/ivlev/framekit/internal/config"
	"github.com/ivlev/framekit/internal/display"
	"github.com/ivlev/framekit/internal/engine"
	"github.com/ivlev/framekit/internal/system"
	"github.com/ivlev/framekit/internal/video"
)

var version = "dev"

func main() {
	system.InitResourceLimits()

	app := cli.NewApp()
	app.Name = "framekit"
	app.Usage = "рисование анимаций кадр за кадром с выводом в видео, звук и окно"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML конфиг сессии"},
		cli.BoolFlag{Name: "verbose", Usage: "Подробный лог"},
		cli.IntFlag{Name: "width", Usage: "Ширина кадра"},
		cli.IntFlag{Name: "height", Usage: "Высота кадра"},
		cli.IntFlag{Name: "fps", Usage: "Частота кадров"},
		cli.StringFlag{Name: "preset", Usage: "Пресет формата: 16:9, 9:16, 4:5, 1:1"},
		cli.BoolFlag{Name: "debug", Usage: "Отладочные наложения и счетчик FPS"},
		cli.BoolFlag{Name: "construct", Usage: "Показывать вспомогательные построения"},
		cli.StringFlag{Name: "encoder", Usage: "Энкодер H.264 (auto - выбрать лучший доступный)", Value: "auto"},
		cli.IntFlag{Name: "quality", Usage: "Качество (0 - по умолчанию для энкодера)"},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(l)
		engine.SetLogger(l)
		video.SetLogger(l)
		display.SetLogger(l)
		return nil
	}
	app.Commands = []cli.Command{
		renderCommand,
		imageCommand,
		interactiveCommand,
		muxCommand,
		toneCommand,
		trackCommand,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("[-] Ошибка", "error", err)
		os.Exit(1)
	}
}

// loadConfig собирает конфиг: значения по умолчанию, файл, затем флаги.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.GlobalString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if w := c.GlobalInt("width"); w > 0 {
		cfg.Width = w
	}
	if h := c.GlobalInt("height"); h > 0 {
		cfg.Height = h
	}
	if fps := c.GlobalInt("fps"); fps > 0 {
		cfg.FPS = fps
	}
	if err := cfg.ApplyPreset(c.GlobalString("preset")); err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || c.GlobalBool("debug")
	cfg.Construct = cfg.Construct || c.GlobalBool("construct")
	if q := c.GlobalInt("quality"); q > 0 {
		cfg.Quality = q
	}
	return cfg, cfg.Validate()
}

func pickEncoder(ctx context.Context, c *cli.Context, cfg *config.Config) {
	enc := c.GlobalString("encoder")
	if enc != "auto" && enc != "" {
		cfg.VideoEncoder = enc
		return
	}
	cfg.VideoEncoder = system.GetBestH264Encoder(ctx)
	if cfg.VideoEncoder != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
	}
}

// outputName строит имя вида output/<title>_<время><ext>.
func outputName(title, ext string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if clean == "" {
		clean = "framekit"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s%s", clean, timestamp, ext))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var renderCommand = cli.Command{
	Name:  "render",
	Usage: "Записать демо-анимацию в видео (с музыкой при --music)",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "Итоговый файл (по умолчанию output/<title>_<время>.mp4)"},
		cli.Float64Flag{Name: "length", Usage: "Длительность в секундах", Value: 0},
		cli.BoolFlag{Name: "music", Usage: "Синтезировать музыку и свести со звуком"},
		cli.StringFlag{Name: "backdrop", Usage: "PDF или папка с картинками для фона"},
		cli.IntFlag{Name: "dpi", Usage: "DPI для страниц PDF", Value: 150},
		cli.StringFlag{Name: "track", Usage: "YAML трек камеры (latest - последний из tracks/)"},
		cli.StringFlag{Name: "qr", Usage: "Текст QR-кода на финальном кадре"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		pickEncoder(ctx, c, cfg)

		if l := c.Float64("length"); l > 0 {
			cfg.Length = l
		}
		output := c.String("output")
		if output == "" {
			output = outputName(cfg.Title, ".mp4")
		}
		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return err
		}

		d, err := newDemo(ctx, cfg, demoOptions{
			Backdrop: c.String("backdrop"),
			DPI:      c.Int("dpi"),
			Track:    c.String("track"),
			QR:       c.String("qr"),
		})
		if err != nil {
			return err
		}

		var s *engine.Session
		if c.Bool("music") {
			base := strings.TrimSuffix(output, filepath.Ext(output))
			cfg.VideoOutput = base + "_video.mp4"
			cfg.AudioOutput = base + "_audio.wav"
			cfg.FinalOutput = output
			s, err = engine.NewAudioVideo(ctx, cfg, nil)
		} else {
			cfg.VideoOutput = output
			s, err = engine.NewVideo(ctx, cfg, nil)
		}
		if err != nil {
			return err
		}

		fmt.Println("--- [FRAMEKIT: RENDER] ---")
		fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Длительность: %.1fs\n", cfg.Width, cfg.Height, cfg.FPS, cfg.Length)
		fmt.Printf("[*] Энкодер: %s | Режим: %s\n", cfg.VideoEncoder, s.Mode())
		fmt.Println("--------------------------")

		if err := s.Run(d.Run); err != nil {
			return err
		}
		fmt.Printf("[+] Готово: %s (%d кадров)\n", output, s.FramesSaved())
		return nil
	},
}

var imageCommand = cli.Command{
	Name:  "image",
	Usage: "Сохранить один кадр демо (png, jpg, webp, bmp, tiff)",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "Файл изображения", Value: "output/frame.png"},
		cli.Float64Flag{Name: "at", Usage: "Момент анимации в секундах"},
		cli.StringFlag{Name: "backdrop", Usage: "PDF или папка с картинками для фона"},
		cli.IntFlag{Name: "dpi", Usage: "DPI для страниц PDF", Value: 150},
		cli.StringFlag{Name: "track", Usage: "YAML трек камеры"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		cfg.ImageOutput = c.String("output")
		if err := os.MkdirAll(filepath.Dir(cfg.ImageOutput), 0755); err != nil {
			return err
		}

		d, err := newDemo(context.Background(), cfg, demoOptions{
			Backdrop: c.String("backdrop"),
			DPI:      c.Int("dpi"),
			Track:    c.String("track"),
		})
		if err != nil {
			return err
		}
		s, err := engine.NewImage(cfg)
		if err != nil {
			return err
		}
		at := c.Float64("at")
		if err := s.Run(func(s *engine.Session) error { return d.Still(s, at) }); err != nil {
			return err
		}
		fmt.Printf("[+] Кадр сохранен: %s\n", cfg.ImageOutput)
		return nil
	},
}

var interactiveCommand = cli.Command{
	Name:  "interactive",
	Usage: "Показать демо в окне или терминале (Esc - выход)",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "backend, b", Usage: "terminal, sdl или gpu", Value: "terminal"},
		cli.StringFlag{Name: "record", Usage: "Параллельно записать видео со звуком в этот файл"},
		cli.Float64Flag{Name: "length", Usage: "Сколько секунд показывать", Value: 60},
		cli.StringFlag{Name: "track", Usage: "YAML трек камеры"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		cfg.Length = c.Float64("length")
		if rec := c.String("record"); rec != "" {
			pickEncoder(ctx, c, cfg)
			base := strings.TrimSuffix(rec, filepath.Ext(rec))
			cfg.VideoOutput = base + "_video.mp4"
			cfg.AudioOutput = base + "_audio.wav"
			cfg.FinalOutput = rec
		}

		d, err := newDemo(ctx, cfg, demoOptions{Track: c.String("track")})
		if err != nil {
			return err
		}

		s, err := openInteractive(ctx, cfg, c.String("backend"))
		if err != nil {
			return err
		}
		return s.Run(d.Interactive)
	},
}

func openInteractive(ctx context.Context, cfg *config.Config, backend string) (*engine.Session, error) {
	var (
		disp display.Display
		gpu  display.GPU
		err  error
	)
	switch backend {
	case "terminal":
		disp, err = display.NewTerminal(nil)
	case "sdl":
		disp, err = display.NewWindow(cfg.Title, cfg.Width, cfg.Height)
	case "gpu":
		gpu, err = display.NewGPUWindow(cfg.Title, cfg.Width, cfg.Height)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if gpu != nil {
		s, err := engine.NewGPUInteractive(ctx, cfg, gpu, nil)
		if err != nil {
			gpu.Close()
		}
		return s, err
	}
	s, err := engine.NewInteractive(ctx, cfg, disp, nil)
	if err != nil {
		disp.Close()
	}
	return s, err
}

var muxCommand = cli.Command{
	Name:      "mux",
	Usage:     "Свести готовые видео и звук в один файл",
	ArgsUsage: "<video> <audio> <output>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			cli.ShowCommandHelp(c, "mux")
			return errors.New("mux needs video, audio and output paths")
		}
		ctx, cancel := signalContext()
		defer cancel()
		args := c.Args()
		if err := video.Combine(ctx, nil, args.Get(0), args.Get(1), args.Get(2)); err != nil {
			return err
		}
		fmt.Printf("[+] Сведено: %s\n", args.Get(2))
		return nil
	},
}
