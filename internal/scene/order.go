package scene

import (
	"cmp"
	"iter"
	"math"
	"slices"

	"github.com/ivlev/framekit/internal/geom"
)

// Все сортировки возвращают ленивую последовательность: ключи считаются при
// обходе, порядок от дальних к ближним, равные ключи сохраняют исходный порядок.

type options struct {
	start  int
	end    int
	hasEnd bool
	agg    func([]float64) float64
}

type Option func(*options)

// WithRange оставляет после сортировки только [start:end].
// Отрицательные индексы считаются от конца.
func WithRange(start, end int) Option {
	return func(o *options) {
		o.start, o.end, o.hasEnd = start, end, true
	}
}

func WithStart(start int) Option {
	return func(o *options) { o.start = start }
}

// WithAggregate заменяет среднее проекций точек другой сверткой.
func WithAggregate(fn func([]float64) float64) Option {
	return func(o *options) { o.agg = fn }
}

func newOptions(opts []Option) options {
	o := options{agg: mean}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// bounds повторяет правила срезов с отрицательными индексами.
func (o options) bounds(n int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return min(max(i, 0), n)
	}
	lo, hi := clamp(o.start), n
	if o.hasEnd {
		hi = clamp(o.end)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

type keyed[T any] struct {
	key float64
	v   T
}

func sorted[T any, E any](items []E, o options, key func(E) (float64, T)) iter.Seq[T] {
	return func(yield func(T) bool) {
		ks := make([]keyed[T], len(items))
		for i, e := range items {
			k, v := key(e)
			ks[i] = keyed[T]{k, v}
		}
		slices.SortStableFunc(ks, func(a, b keyed[T]) int { return cmp.Compare(a.key, b.key) })
		lo, hi := o.bounds(len(ks))
		for _, k := range ks[lo:hi] {
			if !yield(k.v) {
				return
			}
		}
	}
}

// Positioned - объект с готовой координатой z.
type Positioned[T any] struct {
	Pos     geom.Vec3
	Payload T
}

// ZOrder сортирует по z по возрастанию.
func ZOrder[T any](items []Positioned[T], opts ...Option) iter.Seq[T] {
	return sorted(items, newOptions(opts), func(p Positioned[T]) (float64, T) {
		return p.Pos[2], p.Payload
	})
}

// Shape - набор 3D точек с полезной нагрузкой.
type Shape[T any] struct {
	Points  []geom.Vec3
	Payload T
}

// ViewOrderX сортирует по среднему x точек. Фигуры без точек идут первыми.
func ViewOrderX[T any](items []Shape[T], opts ...Option) iter.Seq[T] {
	o := newOptions(opts)
	return sorted(items, o, func(s Shape[T]) (float64, T) {
		if len(s.Points) == 0 {
			return math.Inf(-1), s.Payload
		}
		xs := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p[0]
		}
		return mean(xs), s.Payload
	})
}

func project(points []geom.Vec3, y geom.Vec3, agg func([]float64) float64) float64 {
	ds := make([]float64, len(points))
	for i, p := range points {
		ds[i] = p.Dot(y)
	}
	return agg(ds)
}

// Solid - объект, который может иметь 3D точки. ok = false - точек нет
// вовсе, это не то же самое, что пустой набор.
type Solid interface {
	Points3D() (points []geom.Vec3, ok bool)
}

// ViewOrder сортирует объекты по проекции их точек на направление взгляда.
// Объект без набора точек считается ближним (+Inf), с пустым набором - дальним (-Inf).
func ViewOrder[T Solid](items []T, sc Scene, opts ...Option) (iter.Seq[T], error) {
	y, err := sc.ViewVector()
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return sorted(items, o, func(e T) (float64, T) {
		points, ok := e.Points3D()
		switch {
		case !ok:
			return math.Inf(1), e
		case len(points) == 0:
			return math.Inf(-1), e
		}
		return project(points, y, o.agg), e
	}), nil
}

// ViewOrderPoints - ViewOrder для простых наборов точек.
// Пустой набор считается дальним.
func ViewOrderPoints[T any](items []Shape[T], sc Scene, opts ...Option) (iter.Seq[T], error) {
	y, err := sc.ViewVector()
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return sorted(items, o, func(s Shape[T]) (float64, T) {
		if len(s.Points) == 0 {
			return math.Inf(-1), s.Payload
		}
		return project(s.Points, y, o.agg), s.Payload
	}), nil
}

// FaceKey - проекция единичной нормали грани (по первым трем точкам) на
// направление взгляда. Знак показывает, повернута ли грань к зрителю.
// Вырожденная грань получает -Inf.
func FaceKey(points []geom.Vec3, view geom.Vec3) float64 {
	if len(points) < 3 {
		return math.Inf(-1)
	}
	n := points[1].Sub(points[0]).Cross(points[2].Sub(points[0]))
	nl, vl := n.Norm(), view.Norm()
	if nl == 0 || vl == 0 {
		return math.Inf(-1)
	}
	return n.Dot(view) / (nl * vl)
}

// ViewOrderFaces сортирует грани по FaceKey.
func ViewOrderFaces[T any](items []Shape[T], sc Scene, opts ...Option) (iter.Seq[T], error) {
	y, err := sc.ViewVector()
	if err != nil {
		return nil, err
	}
	return sorted(items, newOptions(opts), func(s Shape[T]) (float64, T) {
		return FaceKey(s.Points, y), s.Payload
	}), nil
}
