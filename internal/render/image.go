package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ivlev/framekit/internal/geom"
)

var ErrImageFormat = errors.New("unsupported image format")

// DrawImage кладет картинку левым верхним углом в p.
func (c *Canvas) DrawImage(img image.Image, p geom.Point) {
	c.dc.DrawImage(gg.ImageBufFromImage(img), p.X, p.Y)
}

// DrawImageScaled вписывает картинку в прямоугольник w x h.
func (c *Canvas) DrawImageScaled(img image.Image, p geom.Point, w, h, alpha float64) {
	c.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             p.X,
		Y:             p.Y,
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpBilinear,
		Opacity:       alpha,
		BlendMode:     gg.BlendNormal,
	})
}

// DrawQRCode рисует QR код с модулем size пикселей, без белой рамки.
func (c *Canvas) DrawQRCode(content string, p geom.Point, size float64, col Color) error {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	q.DisableBorder = true
	c.SetColor(col, 1)
	for y, row := range q.Bitmap() {
		for x, on := range row {
			if on {
				c.dc.DrawRectangle(p.X+float64(x)*size, p.Y+float64(y)*size, size, size)
			}
		}
	}
	c.fill(false)
	return nil
}

// SaveImage сохраняет текущий кадр. Формат - по расширению файла.
func (c *Canvas) SaveImage(path string) error {
	return WriteImage(path, c.Image())
}

func WriteImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	var encode func(*bufio.Writer) error
	switch ext {
	case ".png":
		encode = func(w *bufio.Writer) error { return png.Encode(w, img) }
	case ".jpg", ".jpeg":
		encode = func(w *bufio.Writer) error { return jpeg.Encode(w, img, &jpeg.Options{Quality: 90}) }
	case ".webp":
		encode = func(w *bufio.Writer) error { return nativewebp.Encode(w, img, nil) }
	case ".bmp":
		encode = func(w *bufio.Writer) error { return bmp.Encode(w, img) }
	case ".tif", ".tiff":
		encode = func(w *bufio.Writer) error { return tiff.Encode(w, img, nil) }
	default:
		return fmt.Errorf("%w: %q", ErrImageFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
