package render

import "github.com/gogpu/gg"

// Style - параметры обводки и заливки одной фигуры.
type Style struct {
	Width     float64
	Alpha     float64
	Fill      *Color
	FillAlpha float64
	FillBrush gg.Brush
	Dash      []float64
}

type Option func(*Style)

func Width(w float64) Option { return func(s *Style) { s.Width = w } }
func Alpha(a float64) Option { return func(s *Style) { s.Alpha = a } }

// Fill включает заливку цветом c.
func Fill(c Color) Option { return func(s *Style) { s.Fill = &c } }

func FillAlpha(a float64) Option { return func(s *Style) { s.FillAlpha = a } }

// FillWith заливает кистью (градиентом) вместо цвета.
func FillWith(b gg.Brush) Option { return func(s *Style) { s.FillBrush = b } }

func Dash(lengths ...float64) Option { return func(s *Style) { s.Dash = lengths } }

func newStyle(width, fillAlpha float64, opts []Option) Style {
	s := Style{Width: width, Alpha: 1, FillAlpha: fillAlpha}
	for _, o := range opts {
		o(&s)
	}
	return s
}

func (s Style) filled() bool {
	return s.Fill != nil || s.FillBrush != nil
}

func (s Style) fillBrush() gg.Brush {
	if s.FillBrush != nil {
		return s.FillBrush
	}
	return gg.Solid(s.Fill.RGBA(s.FillAlpha))
}
