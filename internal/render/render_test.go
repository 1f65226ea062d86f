package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/framekit/internal/geom"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	c := NewCanvas(20, 20, 30)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSaveRestorePaintState(t *testing.T) {
	c := newTestCanvas(t)
	c.SetLineWidth(3)

	c.Save()
	c.SetLineWidth(7)
	c.SetDash(4, 2)
	assert.Equal(t, 1, c.Depth())
	c.Restore()

	assert.Equal(t, 0, c.Depth())
	assert.Equal(t, 3.0, c.state.width)
	assert.Empty(t, c.state.dash)

	// лишний Restore не ломает стек
	c.Restore()
	assert.Equal(t, 0, c.Depth())
}

func TestBGRASwizzle(t *testing.T) {
	c := newTestCanvas(t)
	c.PaintBackground(RED)

	px := c.Pixels()
	require.Len(t, px, c.FrameSize())
	assert.Equal(t, []byte{255, 0, 0, 255}, px[:4])

	out, err := c.BGRA(make([]byte, c.FrameSize()))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255}, out[:4])

	_, err = c.BGRA(make([]byte, 3))
	assert.Error(t, err)
}

func TestConstructionHelpersHidden(t *testing.T) {
	c := newTestCanvas(t)
	c.PaintBackground(BLACK)
	before := append([]byte(nil), c.Pixels()...)

	c.DrawConstructionLine(geom.Pt(0, 0), geom.Pt(20, 20))
	c.DrawConstructionCircle(geom.Pt(10, 10), 5)
	c.DrawConstructionEllipse(geom.Pt(10, 10), 5, 3, 0)
	c.DrawConstructionBezier(geom.Pt(0, 0), geom.Pt(5, 0), geom.Pt(15, 20), geom.Pt(20, 20))

	assert.Equal(t, before, c.Pixels())
	assert.NoError(t, c.Err())
}

func TestDrawRectFill(t *testing.T) {
	c := newTestCanvas(t)
	c.PaintBackground(BLACK)
	c.DrawRect(geom.Pt(5, 5), 10, 10, RED, Width(0), Fill(BLUE), FillAlpha(1))
	require.NoError(t, c.Err())

	px := c.Pixels()
	i := (10*c.Width + 10) * 4
	assert.Greater(t, px[i+2], byte(200))
	assert.Less(t, px[i], byte(50))
}

func TestResolveSegments(t *testing.T) {
	none := geom.Vec{geom.None, geom.None}
	p0 := geom.Pt(0, 0)

	t.Run("missing handles", func(t *testing.T) {
		got := ResolveSegments(p0, []Segment{
			{P1: none, P2: none, P3: geom.Pt(10, 0)},
		})
		assert.Equal(t, []Curve{{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 0)}}, got)
	})

	t.Run("missing end carries first handle", func(t *testing.T) {
		got := ResolveSegments(p0, []Segment{
			{P1: geom.Pt(1, 1), P2: geom.Pt(2, 2), P3: none},
			{P1: geom.Pt(5, 5), P2: geom.Pt(6, 6), P3: geom.Pt(7, 7)},
		})
		assert.Equal(t, []Curve{{geom.Pt(1, 1), geom.Pt(6, 6), geom.Pt(7, 7)}}, got)
	})

	t.Run("chain", func(t *testing.T) {
		got := ResolveSegments(p0, []Segment{
			{P1: geom.Pt(1, 0), P2: geom.Pt(2, 0), P3: geom.Pt(3, 0)},
			{P1: none, P2: geom.Pt(4, 0), P3: geom.Pt(5, 0)},
		})
		require.Len(t, got, 2)
		assert.Equal(t, geom.Pt(3, 0), got[1].P1)
	})
}

func TestBlendCorners(t *testing.T) {
	corners := [4]geom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	colors := [4]gg.RGBA{
		{R: 1, A: 1}, {G: 1, A: 1}, {B: 1, A: 1}, {R: 1, G: 1, B: 1, A: 1},
	}

	assert.Equal(t, colors[0], blendCorners(corners, colors, geom.Pt(0, 0)))
	assert.Equal(t, colors[2], blendCorners(corners, colors, geom.Pt(10, 10)))

	mid := blendCorners(corners, colors, geom.Pt(5, 5))
	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.InDelta(t, 0.5, mid.G, 1e-9)
	assert.InDelta(t, 0.5, mid.B, 1e-9)
	assert.InDelta(t, 1.0, mid.A, 1e-9)
}

func TestWriteImage(t *testing.T) {
	c := newTestCanvas(t)
	c.PaintBackground(GREEN)
	dir := t.TempDir()

	path := filepath.Join(dir, "frame.png")
	require.NoError(t, c.SaveImage(path))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())

	for _, name := range []string{"frame.jpg", "frame.webp", "frame.bmp", "frame.tiff"} {
		assert.NoError(t, c.SaveImage(filepath.Join(dir, name)), name)
	}
	assert.ErrorIs(t, c.SaveImage(filepath.Join(dir, "frame.xyz")), ErrImageFormat)
}

func TestDrawQRCode(t *testing.T) {
	c := NewCanvas(100, 100, 30)
	defer c.Close()
	c.PaintBackground(WHITE)
	require.NoError(t, c.DrawQRCode("framekit", geom.Pt(0, 0), 3, BLACK))
	assert.NoError(t, c.Err())
}
