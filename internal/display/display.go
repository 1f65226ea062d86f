// Package display - вывод кадров на экран и опрос ввода.
package display

import (
	"errors"
	"log/slog"
	"time"
)

var logger = slog.New(slog.DiscardHandler)

// SetLogger задает логгер пакета. nil возвращает логгер без вывода.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}

var ErrNotAvailable = errors.New("display backend not available")

type EventType int

const (
	KeyDown EventType = iota + 1
	MouseMotion
	MouseButtonDown
	Quit
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case MouseMotion:
		return "mousemotion"
	case MouseButtonDown:
		return "mousebuttondown"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Коды клавиш, не совпадающие с символами.
const (
	KeyEscape = 27
	KeyEnter  = 13
	KeySpace  = ' '
)

// Event - событие ввода. Координаты мыши - в пикселях кадра.
type Event struct {
	Type   EventType
	Key    int
	X, Y   int
	Button int
}

// Display показывает готовый кадр в порядке байт BGRA.
type Display interface {
	Blit(bgra []byte, width, height int) error
	PollEvents() []Event
	Close() error
}

// GPU выводит кадр через текстуру: загрузка RGBA, затем показ.
type GPU interface {
	Upload(rgba []byte, width, height int) error
	Present() error
	PollEvents() []Event
	// Closing сообщает, что окно просят закрыть.
	Closing() bool
	Close() error
}

// Clock ограничивает частоту кадров и меряет время между ними.
type Clock struct {
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewClock() *Clock {
	return &Clock{now: time.Now, sleep: time.Sleep}
}

// Tick ждет до конца кадра при частоте fps и возвращает секунды с прошлого
// вызова. Первый вызов возвращает 0.
func (c *Clock) Tick(fps int) float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	if fps > 0 {
		frame := time.Second / time.Duration(fps)
		if elapsed := now.Sub(c.last); elapsed < frame {
			c.sleep(frame - elapsed)
			now = c.now()
		}
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return dt
}
