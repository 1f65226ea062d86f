package display

// Headless ничего не показывает: запоминает последний кадр и отдает
// заранее подготовленные события. Подходит и как Display, и как GPU.
type Headless struct {
	Frames   int
	Presents int
	Last     []byte

	// QuitAfter > 0 добавляет Quit, когда показано столько кадров.
	QuitAfter int

	queue   []Event
	closing bool
	closed  bool
}

var (
	_ Display = (*Headless)(nil)
	_ GPU     = (*Headless)(nil)
)

func NewHeadless() *Headless {
	return &Headless{}
}

// Push ставит события в очередь до следующего опроса.
func (h *Headless) Push(events ...Event) {
	h.queue = append(h.queue, events...)
}

func (h *Headless) keep(frame []byte) {
	h.Frames++
	h.Last = append(h.Last[:0], frame...)
}

func (h *Headless) Blit(bgra []byte, width, height int) error {
	h.keep(bgra)
	return nil
}

func (h *Headless) Upload(rgba []byte, width, height int) error {
	h.keep(rgba)
	return nil
}

func (h *Headless) Present() error {
	h.Presents++
	return nil
}

func (h *Headless) PollEvents() []Event {
	if h.QuitAfter > 0 && h.Frames >= h.QuitAfter && !h.closing {
		h.queue = append(h.queue, Event{Type: Quit})
	}
	events := h.queue
	h.queue = nil
	for _, e := range events {
		if e.Type == Quit {
			h.closing = true
		}
	}
	return events
}

func (h *Headless) Closing() bool { return h.closing }

func (h *Headless) Closed() bool { return h.closed }

func (h *Headless) Close() error {
	h.closed = true
	return nil
}
