//go:build !sdl2

package display

// Window - заглушка для сборки без SDL2
type Window struct{}

// NewWindow всегда возвращает ErrNotAvailable. Окно появляется при сборке с -tags sdl2
func NewWindow(title string, width, height int) (*Window, error) {
	return nil, ErrNotAvailable
}

func (w *Window) Blit(bgra []byte, width, height int) error { return ErrNotAvailable }
func (w *Window) PollEvents() []Event                       { return nil }
func (w *Window) Close() error                              { return nil }

// GPUWindow - заглушка для сборки без SDL2
type GPUWindow struct{}

func NewGPUWindow(title string, width, height int) (*GPUWindow, error) {
	return nil, ErrNotAvailable
}

func (g *GPUWindow) Upload(rgba []byte, width, height int) error { return ErrNotAvailable }
func (g *GPUWindow) Present() error                              { return ErrNotAvailable }
func (g *GPUWindow) PollEvents() []Event                         { return nil }
func (g *GPUWindow) Closing() bool                               { return true }
func (g *GPUWindow) Close() error                                { return nil }
