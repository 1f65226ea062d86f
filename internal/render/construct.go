package render

import "github.com/ivlev/framekit/internal/geom"

// Вспомогательные построения видны только в режиме Construct.
// По умолчанию - синий пунктир с шагом 4.

// ConstructStyle - параметры вспомогательной линии. Dash = 0 - сплошная.
type ConstructStyle struct {
	Color Color
	Width float64
	Dash  float64
}

func construct(width float64, style []ConstructStyle) ConstructStyle {
	if len(style) > 0 {
		return style[0]
	}
	return ConstructStyle{Color: BLUE, Width: width, Dash: 4}
}

func (s ConstructStyle) style() Style {
	st := Style{Width: s.Width, Alpha: 1}
	if s.Dash > 0 {
		st.Dash = []float64{s.Dash}
	}
	return st
}

func (c *Canvas) DrawConstructionLine(p1, p2 geom.Point, style ...ConstructStyle) {
	if !c.Construct {
		return
	}
	s := construct(2, style)
	c.dc.MoveTo(p1.X, p1.Y)
	c.dc.LineTo(p2.X, p2.Y)
	c.strokeStyled(s.Color, s.style())
}

func (c *Canvas) DrawConstructionCircle(center geom.Point, r float64, style ...ConstructStyle) {
	if !c.Construct {
		return
	}
	s := construct(2, style)
	c.dc.DrawCircle(center.X, center.Y, r)
	c.strokeStyled(s.Color, s.style())
}

func (c *Canvas) DrawConstructionEllipse(center geom.Point, rx, ry, angle float64, style ...ConstructStyle) {
	if !c.Construct {
		return
	}
	s := construct(10, style)
	st := s.style()
	c.Save()
	defer c.Restore()
	c.Translate(center)
	c.Rotate(angle)
	c.DrawPath(geom.EllipsePoints(geom.Point{}, rx, ry, 360), s.Color, Width(st.Width), Dash(st.Dash...))
}

// DrawConstructionBezier в режиме отладки дополнительно показывает ручки.
func (c *Canvas) DrawConstructionBezier(p0, p1, p2, p3 geom.Point, style ...ConstructStyle) {
	if !c.Construct {
		return
	}
	s := construct(1, style)
	c.dc.MoveTo(p0.X, p0.Y)
	c.dc.CubicTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
	c.strokeStyled(s.Color, s.style())
	if c.Debug || c.Selected {
		c.DrawLine(p0, p1, RED, Width(2))
		c.DrawLine(p2, p3, RED, Width(2))
	}
}
