package geom

// BezierPoint вычисляет точку кривой Безье по алгоритму де Кастельжо.
func BezierPoint(control []Point, t float64) Point {
	if len(control) == 0 {
		return Point{}
	}
	pts := append([]Point(nil), control...)
	for n := len(pts) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = pts[i].Lerp(pts[i+1], t)
		}
	}
	return pts[0]
}

// BezierCurve дискретизирует кривую в n точек от t=0 до t=1.
func BezierCurve(control []Point, n int) []Point {
	if n <= 0 {
		n = 100
	}
	ts := linspace(0, 1, n)
	out := make([]Point, len(ts))
	for i, t := range ts {
		out[i] = BezierPoint(control, t)
	}
	return out
}
