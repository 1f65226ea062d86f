package geom

// Coord - координата, которой может не быть. Отсутствие отличается от нуля:
// пути пропускают такие точки, адаптеры пробрасывают отсутствие дальше.
type Coord struct {
	V  float64
	OK bool
}

func Some(v float64) Coord { return Coord{V: v, OK: true} }

var None = Coord{}

// Reader - чтение координат точки по индексу.
type Reader interface {
	Len() int
	At(i int) Coord
}

// Accessor - точка, которую можно менять по координатам.
type Accessor interface {
	Reader
	Set(i int, v Coord)
}

// Vec - хранимая точка с необязательными координатами.
type Vec []Coord

func VecOf(vs ...float64) Vec {
	v := make(Vec, len(vs))
	for i, x := range vs {
		v[i] = Some(x)
	}
	return v
}

func (v Vec) Len() int { return len(v) }

func (v Vec) At(i int) Coord {
	if i < 0 || i >= len(v) {
		return None
	}
	return v[i]
}

func (v Vec) Set(i int, c Coord) {
	if i >= 0 && i < len(v) {
		v[i] = c
	}
}

func (p Point) Len() int { return 2 }

func (p Point) At(i int) Coord {
	switch i {
	case 0:
		return Some(p.X)
	case 1:
		return Some(p.Y)
	}
	return None
}

// XY читает первые две координаты; ok = false, если любой нет.
func XY(r Reader) (Point, bool) {
	if r == nil {
		return Point{}, false
	}
	x, y := r.At(0), r.At(1)
	if !x.OK || !y.OK {
		return Point{}, false
	}
	return Point{x.V, y.V}, true
}

// Values раскрывает точку в срез координат.
func Values(r Reader) []Coord {
	out := make([]Coord, r.Len())
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

func Equal(a, b Reader) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}
