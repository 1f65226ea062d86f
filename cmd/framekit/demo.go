package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/ivlev/framekit/internal/config"
	"github.com/ivlev/framekit/internal/display"
	"github.com/ivlev/framekit/internal/engine"
	"github.com/ivlev/framekit/internal/geom"
	"github.com/ivlev/framekit/internal/render"
	"github.com/ivlev/framekit/internal/scene"
	"github.com/ivlev/framekit/internal/source"
)

type demoOptions struct {
	Backdrop string
	DPI      int
	Track    string
	QR       string
}

// demo - сцена для проверки всей цепочки: вращающийся куб, орбиты, заголовок,
// фон из документа и, если есть звук, музыка.
type demo struct {
	cfg      *config.Config
	track    *scene.Track
	backdrop image.Image
	qr       string
}

func newDemo(ctx context.Context, cfg *config.Config, opts demoOptions) (*demo, error) {
	d := &demo{cfg: cfg, qr: opts.QR, track: defaultTrack(cfg)}

	if opts.Track == "latest" {
		path, err := scene.FindLatestTrack(scene.TrackDir)
		if err != nil {
			return nil, err
		}
		opts.Track = path
	}
	if opts.Track != "" {
		track, err := scene.ReadTrack(opts.Track)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения трека: %w", err)
		}
		d.track = track
		fmt.Printf("[*] Используется трек камеры: %s\n", opts.Track)
	}

	if opts.Backdrop != "" {
		img, err := loadBackdrop(ctx, opts.Backdrop, opts.DPI, cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		d.backdrop = img
	}
	return d, nil
}

func loadBackdrop(ctx context.Context, path string, dpi, width, height int) (image.Image, error) {
	var (
		src source.Source
		err error
	)
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		src, err = source.NewPDF(path, dpi)
	} else {
		src, err = source.NewImages(path)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации источника: %w", err)
	}
	defer src.Close()

	if src.Count() == 0 {
		return nil, fmt.Errorf("в источнике %s нет страниц или изображений", path)
	}
	images, err := source.LoadAll(ctx, src)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[*] Фон: %s (%d стр.)\n", path, len(images))
	return source.Fit(images[0], width, height), nil
}

// defaultTrack - камера облетает куб за 10 секунд.
func defaultTrack(cfg *config.Config) *scene.Track {
	center := geom.Pt(float64(cfg.Width)/2, float64(cfg.Height)/2)
	size := math.Min(float64(cfg.Width), float64(cfg.Height)) / 4

	key := func(t, x, y float64) scene.Keyframe {
		sc := scene.Default()
		sc.XAngle, sc.YAngle = x, y
		sc.Scale = size
		sc.P = center
		return scene.Keyframe{Time: t, Scene: sc}
	}
	return &scene.Track{
		Version: "1.0",
		Keyframes: []scene.Keyframe{
			key(0, 0.4, 0),
			key(5, 0.8, math.Pi),
			key(10, 0.4, 2*math.Pi),
		},
	}
}

// sceneAt зацикливает трек по его длительности.
func (d *demo) sceneAt(t float64) scene.Scene {
	kfs := d.track.Keyframes
	if n := len(kfs); n > 1 {
		if span := kfs[n-1].Time - kfs[0].Time; span > 0 {
			t = kfs[0].Time + math.Mod(t, span)
		}
	}
	return d.track.At(t)
}

func (d *demo) elements(s *engine.Session) engine.Elements {
	var es engine.Elements
	if d.backdrop != nil {
		es = append(es, engine.NewElement("backdrop", engine.StepFunc(func() (engine.Status, error) {
			s.DrawImageScaled(d.backdrop, geom.Pt(0, 0), float64(s.Width), float64(s.Height), 0.35)
			return engine.Continue, nil
		})))
	}

	cube := newCube(s, d)
	es = append(es, engine.NewElement("cube", cube))

	center := geom.Pt(float64(s.Width)/2, float64(s.Height)/2)
	for i, col := range []render.Color{render.RED, render.YELLOW, render.MAGENTA} {
		o := &orbiter{
			s:      s,
			center: center,
			radius: float64(s.Height) * (0.3 + 0.05*float64(i)),
			phase:  float64(i) * 2 * math.Pi / 3,
			speed:  (1 + 0.25*float64(i)) * 2 * math.Pi / float64(s.FPS) / 4,
			color:  col,
			frames: s.FrameCount(d.cfg.Length) - i*s.FPS,
		}
		es = append(es, engine.NewElement(fmt.Sprintf("orbiter-%d", i), o))
	}

	es = append(es, engine.NewElement("title", &title{s: s, text: d.cfg.Title, frames: 2 * s.FPS}))

	if s.HasAudioBuffer() {
		m, err := newMusic(s.Audio())
		if err != nil {
			fmt.Printf("[!] Музыка отключена: %v\n", err)
		} else {
			es = append(es, engine.NewElement("music", m))
		}
	}
	return es
}

// Run - сценарий записи: анимация, финальная карточка и пауза на ней.
func (d *demo) Run(s *engine.Session) error {
	es := d.elements(s)
	if _, err := s.RenderFrames(d.cfg.Length, &es, render.GRAY10); err != nil {
		return err
	}
	if err := s.OneFrame(render.BLACK, func() error { return d.endCard(s) }); err != nil {
		return err
	}
	if _, err := s.Wait(1); err != nil {
		return err
	}
	if s.HasAudioBuffer() {
		s.Audio().Reverb(0.3, 0.12)
	}
	return nil
}

// Still рисует один кадр анимации в момент at.
func (d *demo) Still(s *engine.Session, at float64) error {
	es := d.elements(s)
	for _, e := range es {
		if c, ok := e.Stepper.(*cube); ok {
			c.time = at
		}
	}
	return s.RenderImage(&es, render.GRAY10)
}

// Interactive крутит анимацию, пока окно не закроют или не нажмут Esc.
// Пробел ставит анимацию на паузу.
func (d *demo) Interactive(s *engine.Session) error {
	es := d.elements(s)
	paused := false
	return s.Frames(d.cfg.Length, render.GRAY10, func(int) error {
		for _, e := range s.DrainEvents() {
			if e.Type != display.KeyDown {
				continue
			}
			switch e.Key {
			case display.KeyEscape:
				return engine.ErrStopInteractive
			case display.KeySpace:
				paused = !paused
			}
		}
		for paused {
			if err := s.PauseFrame(); err != nil {
				return err
			}
			for _, e := range s.DrainEvents() {
				if e.Type == display.KeyDown && e.Key == display.KeySpace {
					paused = false
				}
			}
			time.Sleep(time.Second / time.Duration(s.FPS))
		}
		_, err := es.Step()
		return err
	})
}

func (d *demo) endCard(s *engine.Session) error {
	center := geom.Pt(float64(s.Width)/2, float64(s.Height)/2)
	s.DrawRadialGradient(center, 0, float64(s.Height)/2,
		render.Stop{Offset: 0, Color: render.BLUE, Alpha: 0.6},
		render.Stop{Offset: 1, Color: render.BLACK, Alpha: 0})
	size := 24 * s.UIScale
	w, _ := s.MeasureText(d.cfg.Title, size)
	s.DrawTextOutline(geom.Pt(center.X-w/2, float64(s.Height)*0.2), d.cfg.Title, render.WHITE, render.BLACK, size, 1, 2)
	if d.qr == "" {
		return nil
	}
	qr := float64(s.Height) / 3
	return s.DrawQRCode(d.qr, geom.Pt(center.X-qr/2, center.Y-qr/2), qr, render.WHITE)
}

var cubeVertices = [8]geom.Vec3{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// Грани обходятся против часовой стрелки снаружи, нормали смотрят наружу.
var cubeFaces = [6][4]int{
	{0, 3, 2, 1}, {4, 5, 6, 7},
	{0, 1, 5, 4}, {2, 3, 7, 6},
	{1, 2, 6, 5}, {0, 4, 7, 3},
}

var faceColors = [6]render.Color{
	render.RED, render.GREEN, render.BLUE, render.YELLOW, render.MAGENTA, render.WHITE,
}

// cube рисует куб гранями в порядке видимости.
type cube struct {
	s    *engine.Session
	d    *demo
	time float64
	step float64
}

func newCube(s *engine.Session, d *demo) *cube {
	return &cube{s: s, d: d, step: 1 / float64(s.FPS)}
}

func (c *cube) Step() (engine.Status, error) {
	sc := c.d.sceneAt(c.time)
	c.time += c.step

	faces := make([]scene.Shape[int], len(cubeFaces))
	for i, f := range cubeFaces {
		pts := make([]geom.Vec3, len(f))
		for j, v := range f {
			pts[j] = cubeVertices[v]
		}
		faces[i] = scene.Shape[int]{Points: pts, Payload: i}
	}

	seq, err := scene.ViewOrderFaces(faces, sc)
	if err != nil {
		return engine.Continue, err
	}
	for i := range seq {
		pts := make([]geom.Point, 0, 5)
		for _, v := range faces[i].Points {
			p, err := sc.Project(v)
			if err != nil {
				return engine.Continue, err
			}
			pts = append(pts, p)
		}
		pts = append(pts, pts[0])
		c.s.DrawPath(pts, render.BLACK, render.Width(2), render.Fill(faceColors[i]), render.FillAlpha(0.7))
	}
	c.s.DrawConstructionCircle(sc.P, sc.Scale*math.Sqrt(3))
	return engine.Continue, nil
}

// orbiter - светящаяся точка на круговой орбите, живет frames кадров.
type orbiter struct {
	s      *engine.Session
	center geom.Point
	radius float64
	phase  float64
	speed  float64
	color  render.Color
	frames int
	frame  int
}

func (o *orbiter) Step() (engine.Status, error) {
	a := o.phase + o.speed*float64(o.frame)
	p := o.center.Add(geom.PolarToCart(o.radius, a))
	o.s.DrawConstructionCircle(o.center, o.radius)
	o.s.DrawGlow(p, 4, 24, o.color)
	o.s.DrawDisk(p, 6, o.color)

	o.frame++
	if o.frame >= o.frames {
		return engine.Done, nil
	}
	return engine.Continue, nil
}

// title показывает заголовок и гасит его к концу.
type title struct {
	s      *engine.Session
	text   string
	frames int
	frame  int
}

func (t *title) Step() (engine.Status, error) {
	alpha := 1 - float64(t.frame)/float64(max(t.frames, 1))
	size := 32 * t.s.UIScale
	t.s.DrawTextOutline(geom.Pt(40, 40+size), t.text, render.WHITE, render.BLACK, size, alpha, 2)

	t.frame++
	if t.frame >= t.frames {
		return engine.Done, nil
	}
	return engine.Continue, nil
}
