package render

import "github.com/gogpu/gg"

// Color - цвет без альфы, компоненты в [0, 1]. Прозрачность передается отдельно.
type Color struct {
	R, G, B float64
}

func (c Color) RGBA(alpha float64) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Lerp смешивает цвета покомпонентно.
func (c Color) Lerp(d Color, t float64) Color {
	return Color{c.R + (d.R-c.R)*t, c.G + (d.G-c.G)*t, c.B + (d.B-c.B)*t}
}

// RGB255 переводит цвет из 0..255.
func RGB255(r, g, b int) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

func Gray(v float64) Color {
	return Color{v, v, v}
}

var (
	RED     = Color{1, 0, 0}
	GREEN   = Color{0, 1, 0}
	BLUE    = Color{0, 0, 1}
	WHITE   = Color{1, 1, 1}
	BLACK   = Color{0, 0, 0}
	GRAY    = Gray(0.5)
	GRAY10  = Gray(0.1)
	GRAY20  = Gray(0.2)
	GRAY30  = Gray(0.3)
	GRAY40  = Gray(0.4)
	GRAY50  = Gray(0.5)
	GRAY60  = Gray(0.6)
	GRAY70  = Gray(0.7)
	GRAY80  = Gray(0.8)
	GRAY90  = Gray(0.9)
	YELLOW  = Color{1, 1, 0}
	MAGENTA = Color{1, 0, 1}
	CYAN    = Color{0, 1, 1}
	PURPLE  = Color{0.5, 0, 0.5}
	ORANGE  = Color{1, 0.5, 0}
	BROWN   = Color{0.6, 0.3, 0.1}

	SubPrimaryColors = []Color{MAGENTA, CYAN, YELLOW}
	AddPrimaryColors = []Color{RED, YELLOW, BLUE}
	SecondaryColors  = []Color{GREEN, PURPLE, ORANGE}
)
