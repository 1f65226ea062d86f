package source

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"github.com/ivlev/framekit/internal/system"
)

type codec struct {
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

// tga регистрирует формат с пустой сигнатурой, и image.Decode отдает ему
// любой файл. Поэтому декодер выбирается по расширению.
var codecs = map[string]codec{
	".png":  {png.Decode, png.DecodeConfig},
	".jpg":  {jpeg.Decode, jpeg.DecodeConfig},
	".jpeg": {jpeg.Decode, jpeg.DecodeConfig},
	".webp": {webp.Decode, webp.DecodeConfig},
	".tga":  {tga.Decode, tga.DecodeConfig},
}

func codecFor(path string) (codec, error) {
	c, ok := codecs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return codec{}, fmt.Errorf("unsupported image format: %s", path)
	}
	return c, nil
}

// Images - одна картинка или все картинки папки по имени.
type Images struct {
	paths []string
}

func NewImages(path string) (*Images, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && system.HasExtension(entry.Name(), system.ImageExtensions) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &Images{paths: paths}, nil
}

func (s *Images) Count() int {
	return len(s.paths)
}

func (s *Images) Size(index int) (float64, float64, error) {
	if err := checkIndex(s, index); err != nil {
		return 0, 0, err
	}
	c, err := codecFor(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	img, err := c.config(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return float64(img.Width), float64(img.Height), nil
}

func (s *Images) Image(index int) (image.Image, error) {
	if err := checkIndex(s, index); err != nil {
		return nil, err
	}
	c, err := codecFor(s.paths[index])
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := c.decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return img, nil
}

func (s *Images) Close() error {
	return nil
}
