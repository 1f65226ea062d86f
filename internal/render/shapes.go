package render

import (
	"math"

	"github.com/ivlev/framekit/internal/geom"
)

func (c *Canvas) strokeStyled(col Color, s Style) {
	c.SetColor(col, s.Alpha)
	c.SetLineWidth(s.Width)
	if len(s.Dash) > 0 {
		c.SetDash(s.Dash...)
		defer c.SetDash()
	}
	c.stroke()
}

// fillStyled заливает текущий путь; preserve оставляет путь для обводки.
func (c *Canvas) fillStyled(s Style, preserve bool) {
	c.SetBrush(s.fillBrush())
	c.fill(preserve)
}

// DrawDisk рисует круг с полупрозрачной заливкой цветом обводки.
func (c *Canvas) DrawDisk(p geom.Point, r float64, col Color, opts ...Option) {
	s := newStyle(10, 0.5, opts)
	c.dc.DrawCircle(p.X, p.Y, r)
	if s.FillBrush != nil {
		c.fillStyled(s, false)
		return
	}
	if s.Fill == nil {
		s.Fill = &col
	}
	c.fillStyled(s, true)
	c.strokeStyled(col, s)
}

func (c *Canvas) DrawCircle(p geom.Point, r float64, col Color, opts ...Option) {
	s := newStyle(10, 1, opts)
	if s.filled() {
		c.dc.DrawCircle(p.X, p.Y, r)
		c.fillStyled(s, false)
	}
	c.dc.DrawCircle(p.X, p.Y, r)
	c.strokeStyled(col, s)
}

// DrawArc рисует дугу от start до end. clockwise = false идет в обратную
// сторону, что дает ту же дугу, что и прямой обход от end к start.
func (c *Canvas) DrawArc(p geom.Point, r, start, end float64, col Color, clockwise bool, opts ...Option) {
	s := newStyle(10, 1, opts)
	if clockwise {
		c.dc.DrawArc(p.X, p.Y, r, start, end)
	} else {
		c.dc.DrawArc(p.X, p.Y, r, end, start)
	}
	if s.FillBrush != nil {
		c.fillStyled(s, false)
		return
	}
	if s.Fill != nil {
		c.fillStyled(s, true)
	}
	c.strokeStyled(col, s)
}

// DrawRect - прямоугольник от левого верхнего угла p.
func (c *Canvas) DrawRect(p geom.Point, w, h float64, col Color, opts ...Option) {
	s := newStyle(10, 0.5, opts)
	c.dc.DrawRectangle(p.X, p.Y, w, h)
	if s.filled() {
		c.fillStyled(s, true)
	}
	c.strokeStyled(col, s)
}

// DrawRect2 - прямоугольник по двум противоположным углам.
func (c *Canvas) DrawRect2(p1, p2 geom.Point, col Color, opts ...Option) {
	c.DrawRect(p1, p2.X-p1.X, p2.Y-p1.Y, col, opts...)
}

func (c *Canvas) DrawLine(p1, p2 geom.Point, col Color, opts ...Option) {
	s := newStyle(10, 1, opts)
	c.dc.MoveTo(p1.X, p1.Y)
	c.dc.LineTo(p2.X, p2.Y)
	c.strokeStyled(col, s)
}

// DrawHash ставит засечку длины 2*length поперек отрезка p2p3 в его середине.
func (c *Canvas) DrawHash(p2, p3 geom.Point, length float64, col Color, opts ...Option) {
	c.Save()
	defer c.Restore()
	c.Translate(geom.Midpoint(p3, p2))
	c.Rotate(geom.Angle(p2, p3))
	c.DrawLine(geom.Pt(0, -length), geom.Pt(0, length), col, opts...)
}

// DrawRightAngle рисует значок прямого угла со стороной size в точке p0.
func (c *Canvas) DrawRightAngle(p0 geom.Point, angle, size float64, col Color, opts ...Option) {
	s := newStyle(10, 1, opts)
	c.Save()
	defer c.Restore()
	c.Translate(p0)
	c.Rotate(angle)
	c.dc.MoveTo(size, 0)
	c.dc.LineTo(size, size)
	c.dc.LineTo(0, size)
	c.strokeStyled(col, s)
}

// DrawVector рисует стрелку из p. Отрицательная длина разворачивает ее.
func (c *Canvas) DrawVector(p geom.Point, angle, length float64, col Color, opts ...Option) {
	s := newStyle(10, 1, opts)
	if length < 0 {
		length = -length
		angle += math.Pi
	}
	if length == 0 {
		return
	}

	c.Save()
	defer c.Restore()
	c.Translate(p)
	c.Rotate(angle)
	w := s.Width
	c.dc.MoveTo(0, 0)
	c.dc.LineTo(0, -length)
	c.dc.MoveTo(0.7*w, -length+w*0.9)
	c.dc.LineTo(0, -length)
	c.dc.LineTo(-0.7*w, -length+w*0.9)
	c.strokeStyled(col, s)
}
