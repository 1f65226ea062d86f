package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/ivlev/framekit/internal/system"
)

// Report - итог сессии для отчета о производительности.
type Report struct {
	Title    string
	Mode     string
	Frames   int
	Parts    int
	Elapsed  time.Duration
	Host     system.HostStats
	HostNote string
}

func (r Report) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Title: %s\n"+
			"Mode: %s\n"+
			"Frames: %d (parts: %d)\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		r.Title, r.Mode, r.Frames, r.Parts, r.Elapsed.Seconds(), r.FPS(), r.host(),
	)
}

// Entry - одна строка для лога производительности.
func (r Report) Entry(now time.Time) string {
	return fmt.Sprintf("[%s] Title: %s | Mode: %s | Frames: %d | Parts: %d | Total: %.2fs | FPS: %.2f | %s\n",
		now.Format("2006-01-02 15:04:05"),
		r.Title,
		r.Mode,
		r.Frames,
		r.Parts,
		r.Elapsed.Seconds(),
		r.FPS(),
		r.host(),
	)
}

func (r Report) host() string {
	if r.HostNote != "" {
		return r.HostNote
	}
	return r.Host.String()
}

// Report собирает итог сессии на текущий момент.
func (s *Session) Report() Report {
	r := Report{
		Title:   s.Config.Title,
		Mode:    s.mode,
		Frames:  s.frames,
		Elapsed: time.Since(s.start),
	}
	if s.sink != nil {
		r.Parts = len(s.sink.Parts())
	}
	host, err := system.CollectHostStats()
	if err != nil {
		r.HostNote = "unavailable: " + err.Error()
	}
	r.Host = host
	return r
}

func (s *Session) report() error {
	r := s.Report()
	logger.Info("session finished", "mode", r.Mode, "frames", r.Frames, "elapsed", r.Elapsed, "fps", r.FPS())
	if s.Debug {
		fmt.Print(r.String())
	}
	if s.Config.ReportLog == "" {
		return nil
	}

	f, err := os.OpenFile(s.Config.ReportLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Config.ReportLog, err)
	}
	defer f.Close()
	_, err = f.WriteString(r.Entry(time.Now()))
	return err
}
