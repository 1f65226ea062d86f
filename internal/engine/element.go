package engine

import (
	"fmt"
	"slices"

	"github.com/ivlev/framekit/internal/geom"
	"github.com/ivlev/framekit/internal/render"
	"github.com/ivlev/framekit/internal/scene"
)

// Status - результат одного шага элемента.
type Status int

const (
	Continue Status = iota
	Done
)

func (s Status) String() string {
	if s == Done {
		return "done"
	}
	return "continue"
}

// Stepper - анимационный компонент как явный автомат: каждый вызов Step
// рисует один кадр и двигает внутреннее состояние.
type Stepper interface {
	Step() (Status, error)
}

// StepFunc превращает функцию в Stepper.
type StepFunc func() (Status, error)

func (f StepFunc) Step() (Status, error) { return f() }

// Element - именованный анимационный компонент с метаданными для редактора.
type Element struct {
	Name    string
	Stepper Stepper
	Visible bool

	Point    geom.Point
	Points   []geom.Point
	Scale    float64
	Rotation float64

	Config        map[string]any
	ConfigName    string
	ControlPoints []geom.Point

	Command       string
	CommandParams map[string]any
	Selected      bool

	// Solid - точки тела в пространстве сцены для сортировки по глубине.
	Solid []geom.Vec3
	Data  any

	done bool
}

func NewElement(name string, step Stepper) *Element {
	return &Element{Name: name, Stepper: step, Visible: true, Scale: 1}
}

// Field дает доступ к первым полям элемента по номеру: 0 - имя,
// 1 - шаговый автомат, 2 - видимость.
func (e *Element) Field(i int) (any, error) {
	switch i {
	case 0:
		return e.Name, nil
	case 1:
		return e.Stepper, nil
	case 2:
		return e.Visible, nil
	}
	return nil, fmt.Errorf("element %s field %d: %w", e.Name, i, scene.ErrIndexOutOfRange)
}

// Points3D позволяет сортировать элементы через scene.ViewOrder.
func (e *Element) Points3D() ([]geom.Vec3, bool) {
	return e.Solid, e.Solid != nil
}

// Finished сообщает, что элемент уже вернул Done.
func (e *Element) Finished() bool { return e.done }

// Step делает один шаг. После Done автомат больше не вызывается.
func (e *Element) Step() (Status, error) {
	if e.done {
		return Done, nil
	}
	if e.Stepper == nil {
		return Continue, fmt.Errorf("element %s has no stepper", e.Name)
	}
	st, err := e.Stepper.Step()
	if err != nil {
		return st, fmt.Errorf("element %s: %w", e.Name, err)
	}
	if st == Done {
		e.done = true
	}
	return st, nil
}

// Elements - изменяемый набор элементов сцены.
type Elements []*Element

// Step шагает каждым элементом ровно один раз. Завершившиеся удаляются
// после полного прохода. Ошибка элемента прерывает проход.
func (es *Elements) Step() ([]*Element, error) {
	var removed []*Element
	for _, e := range *es {
		st, err := e.Step()
		if err != nil {
			return removed, err
		}
		if st == Done {
			removed = append(removed, e)
		}
	}
	if len(removed) > 0 {
		*es = slices.DeleteFunc(*es, func(e *Element) bool {
			return slices.Contains(removed, e)
		})
	}
	return removed, nil
}

// Find ищет элемент по имени.
func (es Elements) Find(name string) (*Element, error) {
	for _, e := range es {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("element %q: %w", name, scene.ErrNotFound)
}

// RenderFrames крутит цикл кадров length секунд и шагает элементами на каждом
// кадре. Курсор звука сдвигается вместе с кадрами, чтобы звук писался в
// момент кадра. Возвращает новое положение курсора или 0 без звука.
func (s *Session) RenderFrames(length float64, elements *Elements, bg render.Color) (int, error) {
	start := 0
	if s.audio != nil {
		start = s.audio.CurrentFrame
	}

	err := s.Frames(length, bg, func(frame int) error {
		if s.audio != nil {
			s.audio.CurrentFrame = start + frame
		}
		_, err := elements.Step()
		return err
	})
	if err != nil {
		return 0, err
	}

	if s.audio == nil {
		return 0, nil
	}
	s.audio.CurrentFrame++
	return s.audio.CurrentFrame, nil
}

// RenderImage рисует элементы в один кадр.
func (s *Session) RenderImage(elements *Elements, bg render.Color) error {
	return s.OneFrame(bg, func() error {
		_, err := elements.Step()
		return err
	})
}

// RenderElements шагает элементами max(floor(length*fps), 1) раз и после
// каждого шага зовет fn с номером кадра и удаленными элементами. Кадры
// здесь не сохраняются, это дело fn.
func (s *Session) RenderElements(length float64, elements *Elements, fn func(frame int, removed []*Element) error) error {
	n := max(s.FrameCount(length), 1)
	for frame := range n {
		removed, err := elements.Step()
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(frame, removed); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderElementLists - как RenderElements, но для нескольких списков сразу.
// Завершенные элементы заменяются на nil, длина списков не меняется.
func (s *Session) RenderElementLists(length float64, fn func(frame int) error, lists ...[]*Element) error {
	n := max(s.FrameCount(length), 1)
	for frame := range n {
		if err := stepLists(lists); err != nil {
			return err
		}
		if fn != nil {
			if err := fn(frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderElementListsOnce делает один шаг по всем спискам.
func (s *Session) RenderElementListsOnce(lists ...[]*Element) error {
	return stepLists(lists)
}

func stepLists(lists [][]*Element) error {
	for _, list := range lists {
		for i, e := range list {
			if e == nil {
				continue
			}
			st, err := e.Step()
			if err != nil {
				return err
			}
			if st == Done {
				list[i] = nil
			}
		}
	}
	return nil
}
