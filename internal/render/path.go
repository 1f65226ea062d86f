package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/ivlev/framekit/internal/geom"
)

func (c *Canvas) polyline(points []geom.Point) {
	for i, p := range points {
		if i == 0 {
			c.dc.MoveTo(p.X, p.Y)
		} else {
			c.dc.LineTo(p.X, p.Y)
		}
	}
}

// DrawPath соединяет точки ломаной, с необязательной заливкой.
func (c *Canvas) DrawPath(points []geom.Point, col Color, opts ...Option) {
	if len(points) == 0 {
		return
	}
	s := newStyle(10, 1, opts)
	if s.filled() {
		c.polyline(points)
		c.fillStyled(s, false)
	}
	c.polyline(points)
	c.strokeStyled(col, s)
}

// DrawOptionalPath - DrawPath для точек, у которых координат может не быть:
// такие точки пропускаются.
func (c *Canvas) DrawOptionalPath(points []geom.Reader, col Color, opts ...Option) {
	present := make([]geom.Point, 0, len(points))
	for _, r := range points {
		if p, ok := geom.XY(r); ok {
			present = append(present, p)
		}
	}
	c.DrawPath(present, col, opts...)
}

// ClipPath ограничивает рисование многоугольником.
func (c *Canvas) ClipPath(points []geom.Point) {
	if len(points) == 0 {
		return
	}
	c.polyline(points)
	c.dc.Clip()
}

// CutPath вырезает многоугольник: рисовать можно везде, кроме него.
func (c *Canvas) CutPath(points []geom.Point) {
	c.CutPathWithin(points, geom.Pt(-1000, -1000), 2000, 2000)
}

// CutPathWithin - CutPath, где внешняя область задана прямоугольником.
func (c *Canvas) CutPathWithin(points []geom.Point, tl geom.Point, w, h float64) {
	if len(points) == 0 {
		return
	}
	c.SetFillRule(gg.FillRuleEvenOdd)
	c.dc.DrawRectangle(tl.X, tl.Y, w, h)
	c.polyline(points)
	c.dc.ClosePath()
	c.dc.Clip()
}

// DrawPoints рисует ломаную, сдвинутую на p.
func (c *Canvas) DrawPoints(p geom.Point, points []geom.Point, col Color, opts ...Option) {
	if len(points) == 0 {
		return
	}
	s := newStyle(10, 1, opts)
	c.Save()
	defer c.Restore()
	c.Translate(p)
	c.polyline(points)
	c.strokeStyled(col, s)
}

// DrawPointsWidths - DrawPoints, где у каждого отрезка своя толщина:
// отрезок к points[i] рисуется толщиной widths[i].
func (c *Canvas) DrawPointsWidths(p geom.Point, points []geom.Point, widths []float64, col Color, alpha float64) {
	c.Save()
	defer c.Restore()
	c.Translate(p)
	for i := 1; i < len(points) && i < len(widths); i++ {
		c.dc.MoveTo(points[i-1].X, points[i-1].Y)
		c.dc.LineTo(points[i].X, points[i].Y)
		c.strokeStyled(col, Style{Width: widths[i], Alpha: alpha})
	}
}

// DrawVariablePath рисует путь из точек (x, y, толщина), отрезок берет
// толщину своей начальной точки.
func (c *Canvas) DrawVariablePath(points []geom.Vec3, col Color, opts ...Option) {
	if len(points) == 0 {
		return
	}
	s := newStyle(0, 1, opts)
	if s.filled() {
		for i, p := range points {
			if i == 0 {
				c.dc.MoveTo(p[0], p[1])
			} else {
				c.dc.LineTo(p[0], p[1])
			}
		}
		c.fillStyled(s, false)
	}
	for i := 1; i < len(points); i++ {
		prev, p := points[i-1], points[i]
		c.dc.MoveTo(prev[0], prev[1])
		c.dc.LineTo(p[0], p[1])
		c.strokeStyled(col, Style{Width: prev[2], Alpha: s.Alpha})
	}
}

// DrawEllipse рисует эллипс, повернутый на angle вокруг центра.
func (c *Canvas) DrawEllipse(center geom.Point, rx, ry, angle float64, col Color, opts ...Option) {
	points := geom.EllipsePoints(geom.Point{}, rx, ry, 360)
	c.Save()
	defer c.Restore()
	c.Translate(center)
	c.Rotate(angle)
	c.DrawPath(points, col, opts...)
}

func (c *Canvas) DrawEllipticalArc(center geom.Point, rx, ry, angle, start, end float64, col Color, opts ...Option) {
	points := geom.EllipticalArcPoints(geom.Point{}, rx, ry, start, end, 100)
	c.Save()
	defer c.Restore()
	c.Translate(center)
	c.Rotate(angle)
	c.DrawPath(points, col, opts...)
}

// DrawCircleTangents заливает полосу между внешними касательными двух окружностей.
func (c *Canvas) DrawCircleTangents(c1 geom.Point, r1 float64, c2 geom.Point, r2 float64, col Color) {
	if r1 > r2 {
		c1, c2 = c2, c1
		r1, r2 = r2, r1
	}
	a := r2 - r1
	b := geom.Distance(c1, c2)
	if b <= a {
		return
	}

	// направления на точки касания, отсчитанные от c2
	dir := geom.Angle(c2, c1)
	th := math.Acos(a / b)
	d1, d2 := dir+th, dir-th
	tp1 := geom.PolarToCart(a+r1, d1).Add(c2)
	tp2 := geom.PolarToCart(a+r1, d2).Add(c2)
	tp3 := geom.PolarToCart(r1, d1).Add(c1)
	tp4 := geom.PolarToCart(r1, d2).Add(c1)
	c.DrawPath([]geom.Point{tp1, tp2, tp4, tp3}, col, Width(0), Fill(col))
}

// DrawVariableLine - отрезок, толщина которого меняется от width1 до width2.
func (c *Canvas) DrawVariableLine(p1, p2 geom.Point, width1, width2 float64, col Color) {
	c.DrawCircleTangents(p1, width1/2, p2, width2/2, col)
	c.DrawCircle(p1, width1/2, col, Width(0), Fill(col))
	c.DrawCircle(p2, width2/2, col, Width(0), Fill(col))
}

// DrawVariablePath2 строит путь переменной толщины из точек (x, y, толщина),
// пропуская точки без координат.
func (c *Canvas) DrawVariablePath2(path []geom.Reader, col Color) {
	type wp struct {
		p geom.Point
		w float64
	}
	var pts []wp
	for _, r := range path {
		p, ok := geom.XY(r)
		w := r.At(2)
		if !ok || !w.OK {
			continue
		}
		pts = append(pts, wp{p, w.V})
	}
	for i := 0; i+1 < len(pts); i++ {
		c.DrawVariableLine(pts[i].p, pts[i+1].p, pts[i].w, pts[i+1].w, col)
	}
}
