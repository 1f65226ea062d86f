// Package source - подложки кадров: папки с картинками и страницы PDF.
package source

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

type Source interface {
	Count() int
	Size(index int) (width, height float64, err error)
	Image(index int) (image.Image, error)
	Close() error
}

func checkIndex(s Source, index int) error {
	if index < 0 || index >= s.Count() {
		return fmt.Errorf("source index %d out of range [0, %d)", index, s.Count())
	}
	return nil
}

// PDF рендерит страницы документа с заданным DPI.
type PDF struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDF(path string, dpi int) (*PDF, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDF{doc: doc, path: path, dpi: dpi}, nil
}

func (p *PDF) Count() int {
	return p.doc.NumPage()
}

func (p *PDF) Size(index int) (float64, float64, error) {
	if err := checkIndex(p, index); err != nil {
		return 0, 0, err
	}
	rect, err := p.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// Image открывает документ заново: fitz.Document нельзя делить между горутинами.
func (p *PDF) Image(index int) (image.Image, error) {
	if err := checkIndex(p, index); err != nil {
		return nil, err
	}
	workerDoc, err := fitz.New(p.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(p.dpi))
}

func (p *PDF) Close() error {
	return p.doc.Close()
}

// LoadAll декодирует все страницы параллельно, сохраняя порядок.
func LoadAll(ctx context.Context, s Source) ([]image.Image, error) {
	images := make([]image.Image, s.Count())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := s.Image(i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// Fit вписывает картинку в width x height с сохранением пропорций,
// по центру. Поля остаются прозрачными.
func Fit(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}
	scale := min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)
	x, y := (width-w)/2, (height-h)/2
	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), img, b, draw.Over, nil)
	return dst
}
