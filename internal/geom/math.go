package geom

import "math"

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// CartToPolar возвращает (rho, phi).
func CartToPolar(x, y float64) (float64, float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

func PolarToCart(rho, phi float64) Point {
	return Point{rho * math.Cos(phi), rho * math.Sin(phi)}
}

// Angle - направление от p1 к p2 в (-π, π].
func Angle(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

// AngleP - то же, но в [0, 2π).
func AngleP(p1, p2 Point) float64 {
	a := Angle(p1, p2)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func Midpoint(p1, p2 Point) Point {
	return Point{p2.X + (p1.X-p2.X)/2, p2.Y + (p1.Y-p2.Y)/2}
}

func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

func Distance2(p1, p2 Point) float64 {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	return dx*dx + dy*dy
}

// Slope для вертикальной прямой возвращает ±Inf.
func Slope(p1, p2 Point) float64 {
	return (p2.Y - p1.Y) / (p2.X - p1.X)
}

func linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + step*float64(i)
	}
	out[n-1] = b
	return out
}

// LinearInterpolate дает n равномерных шагов от start до end включительно.
func LinearInterpolate(start, end float64, n int) []float64 {
	out := linspace(0, 1, n)
	for i, t := range out {
		out[i] = start + (end-start)*t
	}
	return out
}

// SinInterpolate дает n шагов от start до end с синусоидальным сглаживанием.
func SinInterpolate(start, end float64, n int) []float64 {
	out := linspace(-math.Pi/2, math.Pi/2, n)
	for i, x := range out {
		out[i] = start + (end-start)*(math.Sin(x)+1)/2
	}
	return out
}

// EaseInOutCubic отображает [0, 1] в [0, 1] с плавным разгоном и торможением.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EllipsePoints обходит эллипс по градусам с шагом 360/n, замыкая контур.
func EllipsePoints(center Point, rx, ry float64, n int) []Point {
	step := 1
	if n > 0 && n <= 360 {
		step = 360 / n
	}
	points := make([]Point, 0, 360/step+1)
	for a := 0; a <= 360; a += step {
		r := Radians(float64(a))
		points = append(points, Point{center.X + rx*math.Cos(r), center.Y + ry*math.Sin(r)})
	}
	return points
}

// EllipticalArcPoints - n точек дуги от a1 до a2 (радианы), a2 не включается.
func EllipticalArcPoints(center Point, rx, ry, a1, a2 float64, n int) []Point {
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		a := a1 + (a2-a1)*float64(i)/float64(n)
		points = append(points, Point{center.X + rx*math.Cos(a), center.Y + ry*math.Sin(a)})
	}
	return points
}

// ClosestPointToSegment проецирует p на отрезок [a, b].
func ClosestPointToSegment(p, a, b Point) Point {
	if a == b {
		return a
	}
	ab := b.Sub(a)
	if ab.Dot(p.Sub(b)) > 0 {
		return b
	}
	if ab.Dot(p.Sub(a)) < 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / ab.Dot(ab)
	return a.Add(ab.Scale(t))
}

// ClosestPointOnCircle для центра окружности возвращает false.
func ClosestPointOnCircle(p, center Point, radius float64) (Point, bool) {
	v := p.Sub(center)
	l := v.Norm()
	if l == 0 {
		return Point{}, false
	}
	return center.Add(v.Scale(radius / l)), true
}

// minimize1D ищет минимум f на [lo, hi]: грубая сетка, затем золотое сечение.
func minimize1D(f func(float64) float64, lo, hi float64, samples int) float64 {
	best, bestV := lo, f(lo)
	step := (hi - lo) / float64(samples)
	for i := 1; i <= samples; i++ {
		t := lo + step*float64(i)
		if v := f(t); v < bestV {
			best, bestV = t, v
		}
	}

	a, b := math.Max(lo, best-step), math.Min(hi, best+step)
	const phi = 0.6180339887498949
	c := b - phi*(b-a)
	d := a + phi*(b-a)
	for i := 0; i < 60; i++ {
		if f(c) < f(d) {
			b = d
		} else {
			a = c
		}
		c = b - phi*(b-a)
		d = a + phi*(b-a)
	}
	return (a + b) / 2
}

// ClosestPointOnEllipse ищет ближайшую точку эллипса с полуосями a, b численно.
func ClosestPointOnEllipse(p, center Point, a, b float64) Point {
	at := func(t float64) Point {
		return Point{center.X + a*math.Cos(t), center.Y + b*math.Sin(t)}
	}
	t := minimize1D(func(t float64) float64 { return Distance2(at(t), p) }, 0, 2*math.Pi, 360)
	return at(t)
}

// ClosestPointOnBezier ищет ближайшую к p точку кривой Безье любой степени.
func ClosestPointOnBezier(p Point, control []Point) Point {
	if len(control) == 0 {
		return p
	}
	t := minimize1D(func(t float64) float64 { return Distance2(BezierPoint(control, t), p) }, 0, 1, 200)
	return BezierPoint(control, t)
}

// TangentPoints - точки касания окружности (центр c, через точку pr)
// из внешней точки p. Для точки внутри окружности ok = false.
func TangentPoints(p, c, pr Point) (Point, Point, bool) {
	r := Distance(c, pr)
	d := Distance(p, c)
	switch {
	case d > r:
		th := math.Acos(r / d)
		dir := math.Atan2(p.Y-c.Y, p.X-c.X)
		return PolarToCart(r, dir+th).Add(c), PolarToCart(r, dir-th).Add(c), true
	case d == r:
		return p, p, true
	}
	return Point{}, Point{}, false
}
