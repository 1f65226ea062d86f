//go:build sdl2

package display

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// Для сборки нужны dev-библиотеки SDL2. Без тега sdl2 используется заглушка.

func initWindow(title string, width, height int) (*sdl.Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %v", err)
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}
	return window, nil
}

// pollSDL переводит события SDL в наши. quit = true, если окно закрывают.
func pollSDL() (events []Event, quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			events = append(events, Event{Type: Quit})
			quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				events = append(events, Event{Type: Quit})
				quit = true
			}
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				events = append(events, Event{Type: KeyDown, Key: int(e.Keysym.Sym)})
			}
		case *sdl.MouseMotionEvent:
			events = append(events, Event{Type: MouseMotion, X: int(e.X), Y: int(e.Y)})
		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				events = append(events, Event{Type: MouseButtonDown, X: int(e.X), Y: int(e.Y), Button: int(e.Button)})
			}
		}
	}
	return events, quit
}

// Window копирует кадр прямо в поверхность окна.
type Window struct {
	window *sdl.Window
}

var _ Display = (*Window)(nil)

func NewWindow(title string, width, height int) (*Window, error) {
	window, err := initWindow(title, width, height)
	if err != nil {
		return nil, err
	}
	logger.Info("SDL2 window initialized", "width", width, "height", height)
	return &Window{window: window}, nil
}

func (w *Window) Blit(bgra []byte, width, height int) error {
	if len(bgra) != width*height*4 {
		return fmt.Errorf("blit: frame is %d bytes, want %d", len(bgra), width*height*4)
	}
	// BGRA в памяти little-endian машины - это ARGB8888
	src, err := sdl.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&bgra[0]),
		int32(width), int32(height), 32, int32(width*4), sdl.PIXELFORMAT_ARGB8888)
	if err != nil {
		return fmt.Errorf("frame surface: %v", err)
	}
	defer src.Free()

	dst, err := w.window.GetSurface()
	if err != nil {
		return fmt.Errorf("window surface: %v", err)
	}
	if err := src.BlitScaled(nil, dst, nil); err != nil {
		return fmt.Errorf("blit: %v", err)
	}
	return w.window.UpdateSurface()
}

func (w *Window) PollEvents() []Event {
	events, _ := pollSDL()
	return events
}

func (w *Window) Close() error {
	logger.Info("cleaning up SDL2 window")
	if w.window != nil {
		w.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// GPUWindow загружает кадр в потоковую текстуру и рисует ее на все окно.
type GPUWindow struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	closing  bool
}

var _ GPU = (*GPUWindow)(nil)

func NewGPUWindow(title string, width, height int) (*GPUWindow, error) {
	window, err := initWindow(title, width, height)
	if err != nil {
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %v", err)
	}
	// RGBA в памяти little-endian машины - это ABGR8888
	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width),
		int32(height),
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create texture: %v", err)
	}
	logger.Info("SDL2 GPU window initialized", "width", width, "height", height)
	return &GPUWindow{window: window, renderer: renderer, texture: texture}, nil
}

func (g *GPUWindow) Upload(rgba []byte, width, height int) error {
	if len(rgba) != width*height*4 {
		return fmt.Errorf("upload: frame is %d bytes, want %d", len(rgba), width*height*4)
	}
	return g.texture.Update(nil, unsafe.Pointer(&rgba[0]), width*4)
}

func (g *GPUWindow) Present() error {
	if err := g.renderer.Clear(); err != nil {
		return err
	}
	if err := g.renderer.Copy(g.texture, nil, nil); err != nil {
		return err
	}
	g.renderer.Present()
	return nil
}

func (g *GPUWindow) PollEvents() []Event {
	events, quit := pollSDL()
	if quit {
		g.closing = true
	}
	return events
}

func (g *GPUWindow) Closing() bool { return g.closing }

func (g *GPUWindow) Close() error {
	logger.Info("cleaning up SDL2 GPU window")
	if g.texture != nil {
		g.texture.Destroy()
	}
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	if g.window != nil {
		g.window.Destroy()
	}
	sdl.Quit()
	return nil
}
