package render

import (
	"github.com/gogpu/gg"

	"github.com/ivlev/framekit/internal/geom"
)

// Curve - кубический сегмент: две управляющие точки и конец.
// Начало берется из конца предыдущего сегмента.
type Curve struct {
	P1, P2, P3 geom.Point
}

// Segment - сегмент, у точек которого может не быть координат.
type Segment struct {
	P1, P2, P3 geom.Reader
}

func (c *Canvas) curves(p0 geom.Point, segs []Curve) {
	c.dc.MoveTo(p0.X, p0.Y)
	for _, s := range segs {
		c.dc.CubicTo(s.P1.X, s.P1.Y, s.P2.X, s.P2.Y, s.P3.X, s.P3.Y)
	}
}

// handles рисует отрезки от концов сегментов к их управляющим точкам.
func (c *Canvas) handles(p0 geom.Point, segs []Curve, alpha float64) {
	last := p0
	for _, s := range segs {
		c.DrawLine(last, s.P1, RED, Width(2), Alpha(alpha))
		c.DrawLine(s.P2, s.P3, RED, Width(2), Alpha(alpha))
		last = s.P3
	}
}

// DrawBezier рисует один кубический сегмент, с ручками в режиме отладки.
func (c *Canvas) DrawBezier(p0, p1, p2, p3 geom.Point, col Color, opts ...Option) {
	s := newStyle(1, 1, opts)
	seg := []Curve{{p1, p2, p3}}
	c.curves(p0, seg)
	if s.filled() {
		c.fillStyled(s, true)
	}
	c.strokeStyled(col, s)
	if c.Debug || c.Selected {
		c.handles(p0, seg, 1)
	}
}

// ResolveSegments превращает сегменты с пропусками в обычные кривые.
// Без P1 берется конец предыдущей кривой, без P2 - конец текущей.
// Сегмент без конца пропускается, а его P1 переходит к следующему.
func ResolveSegments(p0 geom.Point, segs []Segment) []Curve {
	out := make([]Curve, 0, len(segs))
	last := p0
	var pending *geom.Point
	for _, s := range segs {
		p1, ok := geom.XY(s.P1)
		if !ok {
			p1 = last
		}
		p3, ok := geom.XY(s.P3)
		if !ok {
			if pending == nil {
				pending = &p1
			}
			continue
		}
		p2, ok := geom.XY(s.P2)
		if !ok {
			p2 = p3
		}
		if pending != nil {
			p1 = *pending
		}
		out = append(out, Curve{p1, p2, p3})
		last = p3
		pending = nil
	}
	return out
}

// DrawBezierPath рисует цепочку сегментов от p0. Если у p0 нет координат,
// ничего не рисуется. Заливка кистью (FillWith) отменяет обводку.
func (c *Canvas) DrawBezierPath(p0 geom.Reader, segs []Segment, col Color, opts ...Option) {
	start, ok := geom.XY(p0)
	if !ok {
		return
	}
	s := newStyle(10, 1, opts)
	curves := ResolveSegments(start, segs)
	if s.filled() {
		c.curves(start, curves)
		c.fillStyled(s, false)
		if s.FillBrush != nil {
			return
		}
	}
	c.curves(start, curves)
	c.strokeStyled(col, s)
	if c.Debug || c.Selected {
		c.handles(start, curves, 0.5)
	}
}

func (c *Canvas) constructOutline(p0 geom.Point, segs []Curve, closed bool, width, dash float64) {
	c.handles(p0, segs, 1)
	c.curves(p0, segs)
	if closed {
		c.dc.LineTo(p0.X, p0.Y)
	}
	c.strokeStyled(RED, Style{Width: width, Alpha: 1, Dash: []float64{dash}})
}

// ClipBezierPath ограничивает рисование областью цепочки сегментов.
func (c *Canvas) ClipBezierPath(p0 geom.Point, segs []Curve) {
	if c.Construct {
		c.constructOutline(p0, segs, false, c.state.width, 4)
	}
	c.curves(p0, segs)
	c.dc.Clip()
}

// CutBezierPath вырезает область цепочки сегментов из области рисования.
func (c *Canvas) CutBezierPath(p0 geom.Point, segs []Curve) {
	c.CutBezierPathWithin(p0, segs, geom.Pt(-1000, -1000), 2000, 2000)
}

func (c *Canvas) CutBezierPathWithin(p0 geom.Point, segs []Curve, tl geom.Point, w, h float64) {
	if c.Construct {
		c.constructOutline(p0, segs, true, 5, 10)
	}
	c.SetFillRule(gg.FillRuleEvenOdd)
	c.dc.DrawRectangle(tl.X, tl.Y, w, h)
	c.curves(p0, segs)
	c.dc.Clip()
}
