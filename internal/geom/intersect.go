package geom

import "math"

// CircleIntersect возвращает точки пересечения двух окружностей.
// Совпадающие центры и далекие окружности дают ok = false.
func CircleIntersect(c0 Point, r0 float64, c1 Point, r1 float64) (Point, Point, bool) {
	v := c1.Sub(c0)
	d := v.Norm()
	if d > r0+r1 || d == 0 {
		return Point{}, Point{}, false
	}

	u := v.Scale(1 / d)
	x := c0.Add(u.Scale((d*d - r1*r1 + r0*r0) / (2 * d)))
	perp := Point{u.Y, -u.X}
	a := math.Sqrt(math.Max(0, (-d+r1-r0)*(-d-r1+r0)*(-d+r1+r0)*(d+r1+r0))) / d
	return x.Add(perp.Scale(a / 2)), x.Sub(perp.Scale(a / 2)), true
}

// LineIntersect пересекает прямые p1p2 и p3p4; для параллельных ok = false.
func LineIntersect(p1, p2, p3, p4 Point) (Point, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if denom == 0 {
		return Point{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	return Point{p1.X + t*(p2.X-p1.X), p1.Y + t*(p2.Y-p1.Y)}, true
}

// LineCircleIntersect пересекает прямую p1p2 с окружностью.
func LineCircleIntersect(p1, p2, c Point, r float64) (Point, Point, bool) {
	a := p1.Sub(c)
	b := p2.Sub(c)
	dx, dy := b.X-a.X, b.Y-a.Y
	dr2 := dx*dx + dy*dy
	det := a.X*b.Y - b.X*a.Y
	disc := r*r*dr2 - det*det
	if disc < 0 || dr2 == 0 {
		return Point{}, Point{}, false
	}

	sq := math.Sqrt(disc)
	sgn := -1.0
	if dy > 0 {
		sgn = 1
	}
	q1 := Point{(det*dy - sgn*dx*sq) / dr2, (-det*dx - math.Abs(dy)*sq) / dr2}
	q2 := Point{(det*dy + sgn*dx*sq) / dr2, (-det*dx + math.Abs(dy)*sq) / dr2}
	return q1.Add(c), q2.Add(c), true
}

type clipSide int

const (
	sideLeft clipSide = iota
	sideRight
	sideBottom
	sideTop
)

// ClipPolygon обрезает многоугольник прямоугольником (Сазерленд-Ходжмен).
// Полностью внешний многоугольник дает nil.
func ClipPolygon(poly []Point, xmin, ymin, xmax, ymax float64) []Point {
	result := append([]Point(nil), poly...)
	edges := []struct {
		side clipSide
		val  float64
	}{{sideLeft, xmin}, {sideRight, xmax}, {sideBottom, ymin}, {sideTop, ymax}}

	for _, e := range edges {
		result = clipEdge(result, e.side, e.val)
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

func clipEdge(pts []Point, side clipSide, val float64) []Point {
	var out []Point
	for i, curr := range pts {
		prev := pts[(i+len(pts)-1)%len(pts)]
		cIn, pIn := inside(curr, side, val), inside(prev, side, val)
		switch {
		case cIn:
			if !pIn {
				out = append(out, edgeIntersect(prev, curr, side, val))
			}
			out = append(out, curr)
		case pIn:
			out = append(out, edgeIntersect(prev, curr, side, val))
		}
	}
	return out
}

func inside(p Point, side clipSide, val float64) bool {
	switch side {
	case sideLeft:
		return p.X >= val
	case sideRight:
		return p.X <= val
	case sideBottom:
		return p.Y >= val
	}
	return p.Y <= val
}

func edgeIntersect(p1, p2 Point, side clipSide, val float64) Point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	if side == sideLeft || side == sideRight {
		if math.Abs(dx) < 1e-12 {
			return Point{val, p1.Y}
		}
		return Point{val, p1.Y + (val-p1.X)/dx*dy}
	}
	if math.Abs(dy) < 1e-12 {
		return Point{p1.X, val}
	}
	return Point{p1.X + (val-p1.Y)/dy*dx, val}
}
