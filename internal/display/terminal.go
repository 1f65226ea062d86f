package display

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// Terminal показывает уменьшенный кадр в терминале: каждая ячейка - два
// пикселя по вертикали через символ '▀'.
type Terminal struct {
	screen tcell.Screen
	frame  *image.RGBA
	cells  *image.RGBA

	// размеры последнего кадра, для пересчета координат мыши
	width, height int
}

var _ Display = (*Terminal)(nil)

// NewTerminal инициализирует screen. nil - обычный терминал процесса.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize terminal: %v", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	logger.Info("terminal display initialized")
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Blit(bgra []byte, width, height int) error {
	if len(bgra) != width*height*4 {
		return fmt.Errorf("blit: frame is %d bytes, want %d", len(bgra), width*height*4)
	}
	t.width, t.height = width, height

	if t.frame == nil || t.frame.Rect.Dx() != width || t.frame.Rect.Dy() != height {
		t.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	px := t.frame.Pix
	for i := 0; i < len(bgra); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = bgra[i+2], bgra[i+1], bgra[i], 255
	}

	cols, rows := t.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if t.cells == nil || t.cells.Rect.Dx() != cols || t.cells.Rect.Dy() != rows*2 {
		t.cells = image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	}
	draw.ApproxBiLinear.Scale(t.cells, t.cells.Bounds(), t.frame, t.frame.Bounds(), draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := t.cells.RGBAAt(x, y*2)
			bottom := t.cells.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// toFrame переводит ячейку терминала в пиксель кадра.
func (t *Terminal) toFrame(x, y int) (int, int) {
	cols, rows := t.screen.Size()
	if cols == 0 || rows == 0 {
		return x, y
	}
	return x * t.width / cols, y * t.height / rows
}

func (t *Terminal) PollEvents() []Event {
	var events []Event
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC:
				events = append(events, Event{Type: Quit})
			case tcell.KeyRune:
				events = append(events, Event{Type: KeyDown, Key: int(ev.Rune())})
			case tcell.KeyEscape:
				events = append(events, Event{Type: KeyDown, Key: KeyEscape})
			case tcell.KeyEnter:
				events = append(events, Event{Type: KeyDown, Key: KeyEnter})
			default:
				events = append(events, Event{Type: KeyDown, Key: int(ev.Key())})
			}
		case *tcell.EventMouse:
			x, y := t.toFrame(ev.Position())
			if b := ev.Buttons(); b&0xff != 0 {
				events = append(events, Event{Type: MouseButtonDown, X: x, Y: y, Button: buttonNumber(b)})
			} else {
				events = append(events, Event{Type: MouseMotion, X: x, Y: y})
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	return events
}

func buttonNumber(b tcell.ButtonMask) int {
	switch {
	case b&tcell.Button1 != 0:
		return 1
	case b&tcell.Button3 != 0:
		return 2
	case b&tcell.Button2 != 0:
		return 3
	}
	return 0
}

func (t *Terminal) Close() error {
	logger.Info("terminal display closed")
	t.screen.Fini()
	return nil
}
