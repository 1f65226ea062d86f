package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/framekit/internal/geom"
	"github.com/ivlev/framekit/internal/system"
)

// TrackDir - папка для треков по умолчанию
const TrackDir = "tracks"

var trackExtensions = []string{".yaml", ".yml"}

// Track - траектория камеры по ключевым кадрам сцены
type Track struct {
	Version   string     `yaml:"version"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe - состояние сцены в момент Time
type Keyframe struct {
	Time  float64 `yaml:"time"` // секунды от начала
	Scene Scene   `yaml:"scene"`
	Ease  string  `yaml:"ease,omitempty"` // linear | cubic (по умолчанию)
}

// WriteTrack сохраняет трек в YAML
func WriteTrack(track *Track, path string) error {
	data, err := yaml.Marshal(track)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GenerateTrackPath возвращает имя файла трека с временной меткой
func GenerateTrackPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("track_%s.yaml", timestamp))
}

// FindLatestTrack ищет самый свежий трек в папке
func FindLatestTrack(dir string) (string, error) {
	path, err := system.FindLatestFile(dir, trackExtensions)
	if err != nil {
		return "", fmt.Errorf("find latest track: %w", err)
	}
	return path, nil
}

// ReadTrack читает трек из YAML
func ReadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var track Track
	if err := yaml.Unmarshal(data, &track); err != nil {
		return nil, err
	}

	return &track, nil
}

// At интерполирует сцену между соседними ключевыми кадрами. Числовые
// параметры смешиваются, остальные берутся из предыдущего кадра.
func (t *Track) At(currentTime float64) Scene {
	kfs := t.Keyframes
	if len(kfs) == 0 {
		return Default()
	}

	// за краями трека
	if currentTime <= kfs[0].Time {
		return kfs[0].Scene
	}
	if currentTime >= kfs[len(kfs)-1].Time {
		return kfs[len(kfs)-1].Scene
	}

	// соседние ключевые кадры
	var prev, next Keyframe
	for i := 0; i < len(kfs)-1; i++ {
		if currentTime >= kfs[i].Time && currentTime < kfs[i+1].Time {
			prev, next = kfs[i], kfs[i+1]
			break
		}
	}

	timeDelta := next.Time - prev.Time
	if timeDelta == 0 {
		timeDelta = 0.001 // деление на ноль
	}
	k := (currentTime - prev.Time) / timeDelta
	if next.Ease != "linear" {
		k = geom.EaseInOutCubic(k)
	}

	return blend(prev.Scene, next.Scene, k)
}

func blend(a, b Scene, k float64) Scene {
	s := a
	s.XAngle = geom.Lerp(a.XAngle, b.XAngle, k)
	s.YAngle = geom.Lerp(a.YAngle, b.YAngle, k)
	s.ZAngle = geom.Lerp(a.ZAngle, b.ZAngle, k)
	s.XT = geom.Lerp(a.XT, b.XT, k)
	s.YT = geom.Lerp(a.YT, b.YT, k)
	s.ZT = geom.Lerp(a.ZT, b.ZT, k)
	s.Scale = geom.Lerp(a.Scale, b.Scale, k)
	s.P = a.P.Lerp(b.P, k)
	s.FocalLength = geom.Lerp(a.FocalLength, b.FocalLength, k)
	s.ZOffset = geom.Lerp(a.ZOffset, b.ZOffset, k)
	return s
}
