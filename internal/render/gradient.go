package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/ivlev/framekit/internal/geom"
)

// Stop - точка градиента: смещение, цвет и прозрачность.
type Stop struct {
	Offset float64
	Color  Color
	Alpha  float64
}

func (c *Canvas) ring(p geom.Point, r1, r2 float64) {
	c.SetFillRule(gg.FillRuleEvenOdd)
	c.dc.DrawCircle(p.X, p.Y, r1)
	c.dc.DrawCircle(p.X, p.Y, r2)
}

func (c *Canvas) devicePoint(p geom.Point) geom.Point {
	x, y := c.dc.TransformPoint(p.X, p.Y)
	return geom.Pt(x, y)
}

// DrawGlow - свечение вокруг p: кольцо от r1 до r2, гаснущее наружу.
func (c *Canvas) DrawGlow(p geom.Point, r1, r2 float64, col Color) {
	d := c.devicePoint(p)
	b := gg.NewRadialGradientBrush(d.X, d.Y, r1, r2).
		AddColorStop(0, col.RGBA(1)).
		AddColorStop(1, col.RGBA(0))
	c.SetBrush(b)
	c.ring(p, r1, r2)
	c.fill(false)
}

// DrawLinearGradient - линия, цвет которой меняется от from до to.
func (c *Canvas) DrawLinearGradient(p1, p2 geom.Point, from, to Stop, width float64) {
	c.SetBrush(c.linear(p1, p2, from, to))
	c.SetLineWidth(width)
	c.dc.MoveTo(p1.X, p1.Y)
	c.dc.LineTo(p2.X, p2.Y)
	c.stroke()
}

// DrawLinearGradientV заливает прямоугольник p1-p2 вертикальным градиентом.
func (c *Canvas) DrawLinearGradientV(p1, p2 geom.Point, from, to Stop) {
	c.SetBrush(c.linear(p1, geom.Pt(p1.X, p2.Y), from, to))
	c.dc.DrawRectangle(p1.X, p1.Y, p2.X-p1.X, p2.Y-p1.Y)
	c.fill(false)
}

// DrawLinearGradientH заливает прямоугольник p1-p2 горизонтальным градиентом.
func (c *Canvas) DrawLinearGradientH(p1, p2 geom.Point, from, to Stop) {
	c.SetBrush(c.linear(p1, geom.Pt(p2.X, p1.Y), from, to))
	c.dc.DrawRectangle(p1.X, p1.Y, p2.X-p1.X, p2.Y-p1.Y)
	c.fill(false)
}

// DrawRadialGradient заливает кольцо от r1 до r2 радиальным градиентом.
func (c *Canvas) DrawRadialGradient(p geom.Point, r1, r2 float64, from, to Stop) {
	d := c.devicePoint(p)
	b := gg.NewRadialGradientBrush(d.X, d.Y, r1, r2).
		AddColorStop(from.Offset, from.Color.RGBA(from.Alpha)).
		AddColorStop(to.Offset, to.Color.RGBA(to.Alpha))
	c.SetBrush(b)
	c.ring(p, r1, r2)
	c.fill(false)
}

// LinearGradient собирает кисть для FillWith в координатах кадра.
func (c *Canvas) LinearGradient(p1, p2 geom.Point, stops ...Stop) gg.Brush {
	d1, d2 := c.devicePoint(p1), c.devicePoint(p2)
	b := gg.NewLinearGradientBrush(d1.X, d1.Y, d2.X, d2.Y)
	for _, s := range stops {
		b.AddColorStop(s.Offset, s.Color.RGBA(s.Alpha))
	}
	return b
}

func (c *Canvas) linear(p1, p2 geom.Point, from, to Stop) gg.Brush {
	return c.LinearGradient(p1, p2, from, to)
}

// ShadeCoonsPatch заливает область из четырех кривых Безье, смешивая цвета
// углов. Углы - p0 и концы первых трех сегментов.
func (c *Canvas) ShadeCoonsPatch(p0 geom.Point, segs []Curve, colors [4]gg.RGBA) {
	if len(segs) > 4 {
		segs = segs[:4]
	}
	if len(segs) < 3 {
		return
	}
	corners := [4]geom.Point{
		c.devicePoint(p0),
		c.devicePoint(segs[0].P3),
		c.devicePoint(segs[1].P3),
		c.devicePoint(segs[2].P3),
	}
	c.SetBrush(gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		return blendCorners(corners, colors, geom.Pt(x, y))
	}))
	c.curves(p0, segs)
	c.fill(false)

	if c.Debug || c.Selected {
		c.curves(p0, segs)
		c.strokeStyled(RED, Style{Width: 1, Alpha: 1, Dash: []float64{4}})
		c.handles(p0, segs, 1)
	}
}

// blendCorners смешивает цвета углов с весами обратно квадрату расстояния.
func blendCorners(corners [4]geom.Point, colors [4]gg.RGBA, p geom.Point) gg.RGBA {
	var out gg.RGBA
	var total float64
	for i, q := range corners {
		d := geom.Distance2(p, q)
		if d < 1e-9 {
			return colors[i]
		}
		w := 1 / d
		out.R += colors[i].R * w
		out.G += colors[i].G * w
		out.B += colors[i].B * w
		out.A += colors[i].A * w
		total += w
	}
	out.R /= total
	out.G /= total
	out.B /= total
	out.A = math.Min(1, out.A/total)
	return out
}
