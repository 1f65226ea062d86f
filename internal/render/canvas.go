// Package render - контекст рисования кадра поверх gg: поверхность, размеры,
// частота кадров и флаги отладки, плюс набор примитивов.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/ivlev/framekit/internal/geom"
)

type paintState struct {
	brush    gg.Brush
	width    float64
	cap      gg.LineCap
	join     gg.LineJoin
	fillRule gg.FillRule
	dash     []float64
}

// Canvas - контекст рендера: все, что нужно примитивам, без глобального состояния.
// Save/Restore сохраняют и матрицу с клипом, и параметры кисти.
type Canvas struct {
	dc *gg.Context

	Width, Height int
	FPS           int

	Debug      bool
	Construct  bool
	Selected   bool
	DebugColor Color
	UIScale    float64

	state paintState
	stack []paintState

	font  *text.FontSource
	faces map[float64]text.Face

	err error
}

func NewCanvas(width, height, fps int) *Canvas {
	c := &Canvas{
		dc:         gg.NewContext(width, height),
		Width:      width,
		Height:     height,
		FPS:        fps,
		DebugColor: RED,
		UIScale:    1,
		faces:      make(map[float64]text.Face),
	}
	c.state = paintState{
		brush:    gg.Solid(gg.Black),
		width:    1,
		cap:      gg.LineCapRound,
		join:     gg.LineJoinRound,
		fillRule: gg.FillRuleNonZero,
	}
	c.apply()
	return c
}

// Context дает прямой доступ к gg для того, чего нет в примитивах.
func (c *Canvas) Context() *gg.Context {
	return c.dc
}

func (c *Canvas) apply() {
	c.dc.SetFillBrush(c.state.brush)
	c.dc.SetLineWidth(c.state.width)
	c.dc.SetLineCap(c.state.cap)
	c.dc.SetLineJoin(c.state.join)
	c.dc.SetFillRule(c.state.fillRule)
	if len(c.state.dash) > 0 {
		c.dc.SetDash(c.state.dash...)
	} else {
		c.dc.ClearDash()
	}
}

func (c *Canvas) Save() {
	st := c.state
	st.dash = append([]float64(nil), c.state.dash...)
	c.stack = append(c.stack, st)
	c.dc.Push()
}

// Restore без парного Save ничего не делает.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.dc.Pop()
	c.apply()
}

// Depth - глубина стека Save.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

func (c *Canvas) SetColor(col Color, alpha float64) {
	c.SetBrush(gg.Solid(col.RGBA(alpha)))
}

func (c *Canvas) SetBrush(b gg.Brush) {
	c.state.brush = b
	c.dc.SetFillBrush(b)
}

func (c *Canvas) SetLineWidth(w float64) {
	c.state.width = w
	c.dc.SetLineWidth(w)
}

func (c *Canvas) SetDash(lengths ...float64) {
	c.state.dash = append([]float64(nil), lengths...)
	if len(lengths) == 0 {
		c.dc.ClearDash()
		return
	}
	c.dc.SetDash(lengths...)
}

func (c *Canvas) SetFillRule(rule gg.FillRule) {
	c.state.fillRule = rule
	c.dc.SetFillRule(rule)
}

// SquareLines переключает концы линий на срез, а стыки на острые.
func (c *Canvas) SquareLines() {
	c.state.cap = gg.LineCapButt
	c.state.join = gg.LineJoinMiter
	c.dc.SetLineCap(gg.LineCapButt)
	c.dc.SetLineJoin(gg.LineJoinMiter)
}

func (c *Canvas) Translate(p geom.Point) { c.dc.Translate(p.X, p.Y) }
func (c *Canvas) Rotate(angle float64)   { c.dc.Rotate(angle) }
func (c *Canvas) Scale(sx, sy float64)   { c.dc.Scale(sx, sy) }

// Transform домножает текущую матрицу.
func (c *Canvas) Transform(m gg.Matrix) {
	c.dc.Transform(m)
}

// PaintBackground заливает весь кадр сплошным цветом.
func (c *Canvas) PaintBackground(col Color) {
	c.dc.ClearWithColor(col.RGBA(1))
}

func (c *Canvas) fill(preserve bool) {
	var err error
	if preserve {
		err = c.dc.FillPreserve()
	} else {
		err = c.dc.Fill()
	}
	c.record(err)
}

func (c *Canvas) stroke() {
	if c.state.width <= 0 {
		c.dc.ClearPath()
		return
	}
	c.record(c.dc.Stroke())
}

func (c *Canvas) record(err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("draw: %w", err)
	}
}

// Err возвращает первую ошибку рисования с момента последнего вызова и сбрасывает ее.
func (c *Canvas) Err() error {
	err := c.err
	c.err = nil
	return err
}

// Pixels возвращает RGBA буфер поверхности без копирования.
func (c *Canvas) Pixels() []byte {
	c.record(c.dc.FlushGPU())
	return c.dc.ResizeTarget().Data()
}

// BGRA пишет кадр в порядке байт, который ждет энкодер.
func (c *Canvas) BGRA(dst []byte) ([]byte, error) {
	src := c.Pixels()
	if len(dst) != len(src) {
		return nil, errors.New("bgra: destination size mismatch")
	}
	for i := 0; i < len(src); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
	return dst, nil
}

func (c *Canvas) FrameSize() int {
	return c.Width * c.Height * 4
}

func (c *Canvas) Image() image.Image {
	c.record(c.dc.FlushGPU())
	return c.dc.Image()
}

func (c *Canvas) Close() error {
	return c.dc.Close()
}
