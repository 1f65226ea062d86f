package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ivlev/framekit/internal/geom"
)

// SetFontSource меняет шрифт надписей. По умолчанию - Go Regular.
func (c *Canvas) SetFontSource(src *text.FontSource) {
	c.font = src
	clear(c.faces)
}

func (c *Canvas) face(size float64) (text.Face, bool) {
	if c.font == nil {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			c.record(fmt.Errorf("font: %w", err))
			return nil, false
		}
		c.font = src
	}
	f, ok := c.faces[size]
	if !ok {
		f = c.font.Face(size)
		c.faces[size] = f
	}
	return f, true
}

// DrawText пишет строку; p - левая точка базовой линии.
func (c *Canvas) DrawText(p geom.Point, s string, col Color, size, alpha float64) {
	f, ok := c.face(size)
	if !ok {
		return
	}
	c.SetColor(col, alpha)
	c.dc.SetFont(f)
	d := c.devicePoint(p)
	c.dc.DrawString(s, d.X, d.Y)
}

// DrawTextOutline пишет строку с обводкой толщины width.
func (c *Canvas) DrawTextOutline(p geom.Point, s string, col, outline Color, size, alpha, width float64) {
	if width > 0 {
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			c.DrawText(p.Add(geom.PolarToCart(width, a)), s, outline, size, alpha)
		}
	}
	c.DrawText(p, s, col, size, alpha)
}

// MeasureText возвращает ширину и высоту строки.
func (c *Canvas) MeasureText(s string, size float64) (float64, float64) {
	f, ok := c.face(size)
	if !ok {
		return 0, 0
	}
	c.dc.SetFont(f)
	return c.dc.MeasureString(s)
}

// DrawPoint отмечает точку квадратиком с именем и координатами.
func (c *Canvas) DrawPoint(p geom.Point, name string, col Color, size, fontSize float64) {
	half := math.Floor(size / 2)
	tl := geom.Pt(p.X-half, p.Y-half)
	c.DrawRect(tl, size, size, col, Width(2))
	c.DrawText(geom.Pt(tl.X, tl.Y-fontSize/2), name, col, fontSize, 1)
	c.DrawText(geom.Pt(tl.X, tl.Y+fontSize), fmt.Sprintf("%.0f, %.0f", p.X, p.Y), col, math.Floor(fontSize/2), 1)
}

// DrawFPS выводит счетчик кадров в правом верхнем углу.
func (c *Canvas) DrawFPS(fps float64) {
	c.DrawText(geom.Pt(float64(c.Width)-400, 100), fmt.Sprintf("FPS: %.2f", fps), c.DebugColor, 50, 1)
}
