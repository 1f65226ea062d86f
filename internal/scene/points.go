package scene

import (
	"errors"
	"iter"

	"github.com/gogpu/gg"

	"github.com/ivlev/framekit/internal/geom"
)

// Адаптеры точек пересчитывают координаты при чтении и записи, делегируя
// хранение нижележащей точке. Отсутствующая координата остается отсутствующей.

var (
	_ geom.Accessor = (*Scaled)(nil)
	_ geom.Accessor = (*Delta)(nil)
	_ geom.Accessor = (*Wrapper)(nil)
	_ geom.Accessor = Funcs{}
	_ geom.Reader   = MidPoint{}
)

// Scaled показывает P в системе с началом Origin и масштабом Scale.
type Scaled struct {
	P      geom.Accessor
	Origin geom.Reader
	Scale  float64
}

func (s *Scaled) Len() int { return s.P.Len() }

func (s *Scaled) At(i int) geom.Coord {
	v, o := s.P.At(i), s.Origin.At(i)
	if !v.OK || !o.OK {
		return geom.None
	}
	return geom.Some((v.V - o.V) / s.Scale)
}

func (s *Scaled) Set(i int, c geom.Coord) {
	o := s.Origin.At(i)
	if !c.OK || !o.OK {
		s.P.Set(i, geom.None)
		return
	}
	s.P.Set(i, geom.Some(c.V*s.Scale+o.V))
}

// Delta - точка P, сдвинутая на Offset. Запись меняет только смещение.
type Delta struct {
	P      geom.Reader
	Offset geom.Vec
}

func (d *Delta) Len() int { return d.P.Len() }

func (d *Delta) At(i int) geom.Coord {
	v, o := d.P.At(i), d.Offset.At(i)
	if !v.OK || !o.OK {
		return geom.None
	}
	return geom.Some(v.V + o.V)
}

func (d *Delta) Set(i int, c geom.Coord) {
	v := d.P.At(i)
	if !c.OK || !v.OK {
		d.Offset.Set(i, geom.None)
		return
	}
	d.Offset.Set(i, geom.Some(c.V-v.V))
}

// Wrapper допускает отсутствие самой точки. Запись пустой координаты
// убирает точку целиком.
type Wrapper struct {
	P geom.Accessor
}

func (w *Wrapper) Len() int {
	if w.P == nil {
		return 0
	}
	return w.P.Len()
}

func (w *Wrapper) At(i int) geom.Coord {
	if w.P == nil {
		return geom.None
	}
	return w.P.At(i)
}

func (w *Wrapper) Set(i int, c geom.Coord) {
	if !c.OK {
		w.P = nil
		return
	}
	if w.P != nil {
		w.P.Set(i, c)
	}
}

// MidPoint - середина между A и B, пересчитывается при каждом чтении.
type MidPoint struct {
	A, B geom.Reader
}

func (m MidPoint) Len() int { return min(m.A.Len(), m.B.Len()) }

func (m MidPoint) At(i int) geom.Coord {
	a, b := m.A.At(i), m.B.At(i)
	if !a.OK || !b.OK {
		return geom.None
	}
	return geom.Some((a.V + b.V) / 2)
}

// Funcs - адаптер из пары функций. Без WriteFn запись игнорируется.
type Funcs struct {
	N       int
	ReadFn  func(i int) geom.Coord
	WriteFn func(i int, c geom.Coord)
}

func (f Funcs) Len() int { return f.N }

func (f Funcs) At(i int) geom.Coord {
	if i < 0 || i >= f.N {
		return geom.None
	}
	return f.ReadFn(i)
}

func (f Funcs) Set(i int, c geom.Coord) {
	if f.WriteFn != nil && i >= 0 && i < f.N {
		f.WriteFn(i, c)
	}
}

// Value - изменяемая ячейка с одним значением.
type Value[T any] struct {
	V T
}

func (v *Value[T]) Get() T  { return v.V }
func (v *Value[T]) Set(x T) { v.V = x }
func (v *Value[T]) Len() int {
	return 1
}

func (v *Value[T]) Index(i int) (T, error) {
	if i != 0 {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return v.V, nil
}

func (v *Value[T]) SetIndex(i int, x T) error {
	if i != 0 {
		return ErrIndexOutOfRange
	}
	v.V = x
	return nil
}

// Ref выдает значения последовательности по одному.
type Ref[T any] struct {
	next func() (T, bool)
	stop func()
}

func NewRef[T any](seq iter.Seq[T]) *Ref[T] {
	next, stop := iter.Pull(seq)
	return &Ref[T]{next: next, stop: stop}
}

// Next возвращает ErrExhausted, когда значения кончились.
func (r *Ref[T]) Next() (T, error) {
	v, ok := r.next()
	if !ok {
		return v, ErrExhausted
	}
	return v, nil
}

func (r *Ref[T]) Stop() { r.stop() }

var ErrExhausted = errors.New("sequence exhausted")

// Transformation - сдвиг в p, затем масштаб и поворот.
func Transformation(p geom.Point, scale, rotation float64) gg.Matrix {
	return gg.Translate(p.X, p.Y).
		Multiply(gg.Scale(scale, scale)).
		Multiply(gg.Rotate(rotation))
}
