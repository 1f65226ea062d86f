package scene

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/framekit/internal/geom"
)

func TestScaled(t *testing.T) {
	p := geom.VecOf(10, 20)
	s := &Scaled{P: p, Origin: geom.Pt(0, 10), Scale: 2}

	assert.Equal(t, geom.Some(5), s.At(0))
	assert.Equal(t, geom.Some(5), s.At(1))

	s.Set(0, geom.Some(1))
	assert.Equal(t, geom.Some(2), p.At(0))

	p.Set(1, geom.None)
	assert.Equal(t, geom.None, s.At(1))
}

func TestDelta(t *testing.T) {
	d := &Delta{P: geom.Pt(1, 2), Offset: geom.VecOf(3, 4)}
	got, ok := geom.XY(d)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(4, 6), got)

	d.Set(0, geom.Some(10))
	assert.Equal(t, geom.Some(9), d.Offset.At(0))

	d.Set(1, geom.None)
	_, ok = geom.XY(d)
	assert.False(t, ok)
}

func TestWrapperAndMidPoint(t *testing.T) {
	w := &Wrapper{P: geom.VecOf(1, 2)}
	w.Set(0, geom.Some(3))
	assert.Equal(t, geom.Some(3), w.At(0))

	m := MidPoint{A: w, B: geom.Pt(5, 6)}
	mid, ok := geom.XY(m)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(4, 4), mid)

	w.Set(1, geom.None)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, geom.None, w.At(0))
	_, ok = geom.XY(m)
	assert.False(t, ok)
}

func TestFuncs(t *testing.T) {
	store := []float64{1, 2}
	f := Funcs{
		N:       2,
		ReadFn:  func(i int) geom.Coord { return geom.Some(store[i] * 10) },
		WriteFn: func(i int, c geom.Coord) { store[i] = c.V / 10 },
	}
	assert.Equal(t, geom.Some(20), f.At(1))
	assert.Equal(t, geom.None, f.At(2))
	f.Set(0, geom.Some(50))
	assert.Equal(t, []float64{5, 2}, store)
}

func TestValueAndRef(t *testing.T) {
	v := &Value[int]{V: 3}
	x, err := v.Index(0)
	require.NoError(t, err)
	assert.Equal(t, 3, x)
	_, err = v.Index(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, v.SetIndex(2, 1), ErrIndexOutOfRange)

	r := NewRef(slices.Values([]int{1, 2}))
	defer r.Stop()
	for _, want := range []int{1, 2} {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = r.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestTransformation(t *testing.T) {
	m := Transformation(geom.Pt(10, 10), 2, math.Pi/2)
	p := m.TransformPoint(gg.Pt(1, 0))
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 12, p.Y, 1e-9)
}

func TestJoined(t *testing.T) {
	a, b := []int{1, 2}, []int{3}
	j := Join(&a, &b)
	assert.Equal(t, 3, j.Len())

	v, err := j.Get(-1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = j.Get(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	require.NoError(t, j.Set(1, 20))
	assert.Equal(t, []int{1, 20}, a)

	j.Insert(2, 7) // стык: в начало второго списка
	assert.Equal(t, []int{7, 3}, b)
	j.Insert(100, 9)
	assert.Equal(t, []int{7, 3, 9}, b)
	j.Insert(-100, 0)
	assert.Equal(t, []int{0, 1, 20}, a)

	x, err := j.Pop(0)
	require.NoError(t, err)
	assert.Equal(t, 0, x)

	require.NoError(t, j.Remove(3))
	assert.ErrorIs(t, j.Remove(42), ErrNotFound)

	var all []int
	for _, v := range j.All() {
		all = append(all, v)
	}
	assert.Equal(t, []int{1, 20, 7, 9}, all)
}

func TestMemoryMap(t *testing.T) {
	m := NewMemoryMap(MemoryRange{"pos", 3, 2}, MemoryRange{"col", 4, 1})
	assert.Equal(t, 10, m.Len())

	s, err := m.Slices("col")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{6, 10}}, s)

	s, err = m.Slices("pos")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}}, s)

	_, err = m.Slices("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	name, err := m.Ranges[0].Field(0)
	require.NoError(t, err)
	assert.Equal(t, "pos", name)
	_, err = m.Ranges[0].Field(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
