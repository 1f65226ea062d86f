package engine

import (
	"fmt"
	"time"

	"github.com/ivlev/framekit/internal/display"
	"github.com/ivlev/framekit/internal/render"
	"github.com/ivlev/framekit/internal/system"
)

// FrameCount - сколько кадров займет отрезок в seconds секунд.
func (s *Session) FrameCount(seconds float64) int {
	n := int(seconds * float64(s.FPS))
	if n < 0 {
		return 0
	}
	return n
}

// Frames рисует floor(seconds*fps) кадров. На каждом кадре состояние кисти
// и матрица сохраняются, фон заливается bg, вызывается draw, состояние
// восстанавливается и кадр уходит в выходы сессии.
func (s *Session) Frames(seconds float64, bg render.Color, draw func(frame int) error) error {
	n := s.FrameCount(seconds)
	for i := range n {
		if err := s.drawFrame(bg, func() error { return draw(i) }); err != nil {
			return err
		}
	}
	return nil
}

// OneFrame рисует и сохраняет ровно один кадр.
func (s *Session) OneFrame(bg render.Color, draw func() error) error {
	return s.drawFrame(bg, draw)
}

func (s *Session) drawFrame(bg render.Color, draw func() error) error {
	s.Save()
	s.PaintBackground(bg)
	err := draw()
	s.Restore()
	if err != nil {
		return err
	}
	if err := s.Canvas.Err(); err != nil {
		return fmt.Errorf("frame %d: %w", s.frames, err)
	}
	return s.SaveFrame()
}

func (s *Session) bgra() ([]byte, error) {
	if s.frame == nil {
		s.frame = system.GetFrame(s.FrameSize())
	}
	return s.BGRA(s.frame)
}

// SaveFrame отдает текущую поверхность выходам: сначала окну, потом синку.
// Если окно закрывают, кадр в видео уже не пишется.
func (s *Session) SaveFrame() error {
	s.frames++

	switch {
	case s.gpu != nil:
		if err := s.presentGPU(); err != nil {
			return err
		}
	case s.display != nil:
		if err := s.presentDisplay(); err != nil {
			return err
		}
	}

	if s.sink != nil {
		frame, err := s.bgra()
		if err != nil {
			return err
		}
		if err := s.sink.Write(frame); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) tick() {
	s.dt = s.clock.Tick(s.FPS)
	if s.Debug && s.dt > 0 {
		s.DrawFPS(1 / s.dt)
	}
}

func (s *Session) presentDisplay() error {
	s.tick()
	return s.blit()
}

func (s *Session) blit() error {
	frame, err := s.bgra()
	if err != nil {
		return err
	}
	if err := s.display.Blit(frame, s.Width, s.Height); err != nil {
		return fmt.Errorf("blit frame: %w", err)
	}
	return s.poll(s.display.PollEvents())
}

func (s *Session) presentGPU() error {
	s.tick()
	return s.upload()
}

func (s *Session) upload() error {
	// поверхность gg уже в RGBA, перестановка каналов не нужна
	if err := s.gpu.Upload(s.Pixels(), s.Width, s.Height); err != nil {
		return fmt.Errorf("upload frame: %w", err)
	}
	if err := s.gpu.Present(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	if err := s.poll(s.gpu.PollEvents()); err != nil {
		return err
	}
	if s.gpu.Closing() {
		return ErrStopInteractive
	}
	return nil
}

// poll добавляет события в очередь. Quit в очереди останавливает сессию,
// даже если пришел раньше и не был разобран.
func (s *Session) poll(events []display.Event) error {
	s.Events = append(s.Events, events...)
	for _, e := range s.Events {
		if e.Type == display.Quit {
			return ErrStopInteractive
		}
	}
	return nil
}

// PauseFrame показывает текущий кадр и собирает события, ничего не записывая.
// Для сессий без окна ничего не делает.
func (s *Session) PauseFrame() error {
	switch {
	case s.gpu != nil:
		return s.upload()
	case s.display != nil:
		return s.blit()
	}
	return nil
}

// Wait держит текущий кадр seconds секунд. В видео кадр повторяется
// floor(seconds*fps) раз; окно без записи просто спит. Возвращает число
// записанных кадров.
func (s *Session) Wait(seconds float64) (int, error) {
	if s.sink == nil {
		if s.display != nil || s.gpu != nil {
			s.sleep(time.Duration(seconds * float64(time.Second)))
		}
		return 0, nil
	}

	n := s.FrameCount(seconds)
	frame, err := s.bgra()
	if err != nil {
		return 0, err
	}
	for i := range n {
		if err := s.sink.Write(frame); err != nil {
			return i, err
		}
	}
	if s.display != nil || s.gpu != nil {
		s.sleep(time.Duration(seconds * float64(time.Second)))
	}
	return n, nil
}
