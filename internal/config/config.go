package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config описывает одну сессию рендера: размеры кадра, частоту, флаги режимов
// и параметры выходных файлов.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Preset string `yaml:"preset,omitempty"`

	Debug      bool       `yaml:"debug"`
	DebugColor [3]float64 `yaml:"debug_color"`
	Construct  bool       `yaml:"construct"`
	Selected   bool       `yaml:"selected"`
	UIScale    float64    `yaml:"ui_scale"`

	VideoOutput string `yaml:"video_output,omitempty"`
	AudioOutput string `yaml:"audio_output,omitempty"`
	FinalOutput string `yaml:"final_output,omitempty"`
	ImageOutput string `yaml:"image_output,omitempty"`

	Length     float64 `yaml:"length"`
	Tempo      float64 `yaml:"tempo"`
	SampleRate int     `yaml:"sample_rate"`

	VideoEncoder     string `yaml:"video_encoder"`
	Quality          int    `yaml:"quality"`
	EncoderPreset    string `yaml:"encoder_preset"`
	MaxFramesPerPart int    `yaml:"max_frames_per_part"`
	EncoderLog       string `yaml:"encoder_log"`
	ReportLog        string `yaml:"report_log,omitempty"`
}

// EncodeParams - параметры, которые видеосинк передает энкодеру.
type EncodeParams struct {
	Width, Height int
	FPS           int
	Encoder       string
	Quality       int
	Preset        string
	MaxFrames     int
	LogPath       string
}

func Default() *Config {
	return &Config{
		Title:            "framekit",
		Width:            1280,
		Height:           720,
		FPS:              30,
		DebugColor:       [3]float64{1, 0, 0},
		UIScale:          1,
		Length:           10,
		Tempo:            120,
		SampleRate:       44100,
		VideoEncoder:     "libx264",
		Quality:          17,
		EncoderPreset:    "fast",
		MaxFramesPerPart: 3600,
		EncoderLog:       "ffmpeg.log",
		ReportLog:        "framekit.log",
	}
}

// ApplyPreset подменяет размеры кадра под формат площадки.
func (c *Config) ApplyPreset(preset string) error {
	switch preset {
	case "":
		return nil
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}
	c.Preset = preset
	return nil
}

// DefaultQuality возвращает разумное значение качества для энкодера.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт Q*100 кбит/с
	case "h264_nvenc":
		return 28
	default:
		return 17
	}
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.Tempo <= 0 {
		return fmt.Errorf("invalid tempo %.2f", c.Tempo)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	return nil
}

func (c *Config) EncodeParams() EncodeParams {
	quality := c.Quality
	if quality == 0 {
		quality = DefaultQuality(c.VideoEncoder)
	}
	return EncodeParams{
		Width:     c.Width,
		Height:    c.Height,
		FPS:       c.FPS,
		Encoder:   c.VideoEncoder,
		Quality:   quality,
		Preset:    c.EncoderPreset,
		MaxFrames: c.MaxFramesPerPart,
		LogPath:   c.EncoderLog,
	}
}

// Load читает конфиг из YAML поверх значений по умолчанию.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.ApplyPreset(cfg.Preset); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
