// Package scene - параметры 3D вида и сортировка объектов от дальних к ближним.
package scene

import (
	"errors"
	"fmt"

	"github.com/ivlev/framekit/internal/geom"
)

var ErrRotationOrder = errors.New("invalid rotation order")

// Scene - параметры 3D вида. Вызывающий код меняет их между кадрами,
// сортировка по глубине их только читает.
type Scene struct {
	XAngle float64 `yaml:"x_angle"`
	YAngle float64 `yaml:"y_angle"`
	ZAngle float64 `yaml:"z_angle"`

	XT float64 `yaml:"x_t"`
	YT float64 `yaml:"y_t"`
	ZT float64 `yaml:"z_t"`

	Scale float64    `yaml:"scale"`
	P     geom.Point `yaml:"p"`

	RotationOrder string  `yaml:"rotation_order"` // перестановка "xyz"
	FocalLength   float64 `yaml:"focal_length"`
	ZOffset       float64 `yaml:"z_offset"`
	Projection    string  `yaml:"projection"` // isometric | perspective
}

func Default() Scene {
	return Scene{
		Scale:         1,
		RotationOrder: "xyz",
		FocalLength:   1000,
		ZOffset:       100,
		Projection:    "isometric",
	}
}

func (s Scene) angle(axis byte) float64 {
	switch axis {
	case 'x':
		return s.XAngle
	case 'y':
		return s.YAngle
	}
	return s.ZAngle
}

func validOrder(order string) bool {
	if len(order) != 3 {
		return false
	}
	var seen [3]bool
	for i := 0; i < 3; i++ {
		k := int(order[i]) - 'x'
		if k < 0 || k > 2 || seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}

// Rotation собирает поворот из трех углов сцены. Оси применяются в порядке
// RotationOrder относительно неподвижных осей: для "xyz" R = Rz * Ry * Rx.
// Пустой порядок означает "xyz".
func (s Scene) Rotation() (geom.Mat3, error) {
	order := s.RotationOrder
	if order == "" {
		order = "xyz"
	}
	if !validOrder(order) {
		return geom.Mat3{}, fmt.Errorf("%w: %q", ErrRotationOrder, s.RotationOrder)
	}
	r := geom.Identity3()
	for i := 0; i < 3; i++ {
		var m geom.Mat3
		switch a := s.angle(order[i]); order[i] {
		case 'x':
			m = geom.RotX(a)
		case 'y':
			m = geom.RotY(a)
		default:
			m = geom.RotZ(a)
		}
		r = m.Mul(r)
	}
	return r, nil
}

// ViewVector - направление взгляда (0, 0, -1), переведенное обратным поворотом
// в систему координат объектов.
func (s Scene) ViewVector() (geom.Vec3, error) {
	r, err := s.Rotation()
	if err != nil {
		return geom.Vec3{}, err
	}
	return r.Transpose().MulVec(geom.V3(0, 0, -1)), nil
}

// Project переводит точку сцены на плоскость кадра: поворот, сдвиг на
// (XT, YT, ZT), затем масштаб и смещение в P. В перспективе координаты
// делятся на глубину с учетом FocalLength и ZOffset.
func (s Scene) Project(v geom.Vec3) (geom.Point, error) {
	r, err := s.Rotation()
	if err != nil {
		return geom.Point{}, err
	}
	w := r.MulVec(v).Add(geom.V3(s.XT, s.YT, s.ZT))
	k := s.Scale
	if s.Projection == "perspective" {
		depth := s.FocalLength + s.ZOffset + w[2]
		if depth <= 0 {
			return geom.Point{}, fmt.Errorf("point behind camera: z = %.2f", w[2])
		}
		k *= s.FocalLength / depth
	}
	return geom.Pt(s.P.X+w[0]*k, s.P.Y+w[1]*k), nil
}
