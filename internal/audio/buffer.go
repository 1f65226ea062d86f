package audio

import (
	"math"
	"slices"

	"github.com/ivlev/framekit/internal/geom"
)

const (
	// GuardSeconds - запас в конце буфера под хвосты сэмплов и реверберации.
	GuardSeconds = 3
	// LeadIn - максимальная длина плавного входа при смешивании, в сэмплах.
	LeadIn     = 2000
	FadeLength = 2000
)

// Buffer - звуковая дорожка сессии: сэмплы float64 без ограничения амплитуды
// до финализации. CurrentFrame связывает запись звука с номером видеокадра.
type Buffer struct {
	Samples      []float64
	Rate         int
	Tempo        float64
	FPS          int
	CurrentFrame int
}

func NewBuffer(rate int, length, tempo float64, fps int) *Buffer {
	return &Buffer{
		Samples: make([]float64, int(float64(rate)*(length+GuardSeconds))),
		Rate:    rate,
		Tempo:   tempo,
		FPS:     fps,
	}
}

// Длительности долей такта в секундах.
func (b *Buffer) Beat() float64      { return 60 / b.Tempo }
func (b *Buffer) Whole() float64     { return b.Beat() * 4 }
func (b *Buffer) Half() float64      { return b.Beat() * 2 }
func (b *Buffer) Quarter() float64   { return b.Beat() }
func (b *Buffer) Eighth() float64    { return b.Beat() / 2 }
func (b *Buffer) Sixteenth() float64 { return b.Beat() / 4 }

// Duration - длина буфера в секундах вместе с запасом.
func (b *Buffer) Duration() float64 {
	return float64(len(b.Samples)) / float64(b.Rate)
}

// MixSample подмешивает сэмпл с момента at (секунды). Это wet/dry смесь:
// new = s*weight + old*(1-weight), на первых LeadIn сэмплах вес нарастает
// по синусу от 0 до weight. Запись за пределы буфера отбрасывается.
func (b *Buffer) MixSample(sample []float64, at, weight, maxDuration float64) {
	n := min(len(sample), int(float64(b.Rate)*maxDuration))
	if n <= 0 {
		return
	}

	clip := slices.Clone(sample[:n])
	FadeInOut(clip, FadeLength)

	leadIn := min(LeadIn, n/2)
	ramp := geom.SinInterpolate(0, weight, leadIn)

	start := int(at * float64(b.Rate))
	for k, s := range clip {
		i := start + k
		if i < 0 {
			continue
		}
		if i >= len(b.Samples) {
			break
		}
		w := weight
		if k < leadIn {
			w = ramp[k]
		}
		b.Samples[i] = s*w + b.Samples[i]*(1-w)
	}
}

// MixAtCursor смешивает сэмпл в момент текущего видеокадра.
func (b *Buffer) MixAtCursor(sample []float64, weight, maxDuration float64) {
	b.MixSample(sample, b.CursorTime(), weight, maxDuration)
}

func (b *Buffer) CursorTime() float64 {
	if b.FPS <= 0 {
		return 0
	}
	return float64(b.CurrentFrame) / float64(b.FPS)
}

// OnSixteenths запускает сэмпл, если кадр попадает на одну из шестнадцатых
// (0..15) внутри целой ноты с точностью до одного кадра.
func (b *Buffer) OnSixteenths(frame int, sample []float64, sixteenths []int, weight, duration float64) bool {
	whole := b.Whole() * float64(b.FPS)
	sixteenth := b.Sixteenth() * float64(b.FPS)
	if whole <= 0 || sixteenth <= 0 {
		return false
	}

	intra := math.Mod(float64(frame), whole)
	if intra < 0 {
		intra += whole
	}
	d := math.Floor(intra / sixteenth)
	r := intra - d*sixteenth
	if r >= 1 || !slices.Contains(sixteenths, int(d)) {
		return false
	}
	b.MixAtCursor(sample, weight, duration)
	return true
}

// Reverb добавляет к буферу одну задержанную копию с затуханием decay.
// Проход идет с конца, поэтому эхо не переотражается.
func (b *Buffer) Reverb(decay, delay float64) {
	d := int(float64(b.Rate) * delay)
	if d <= 0 {
		return
	}
	for i := len(b.Samples) - 1 - d; i >= 0; i-- {
		b.Samples[i+d] += b.Samples[i] * decay
	}
}

// Normalize приводит пиковую амплитуду к 1. Тишина не трогается.
func (b *Buffer) Normalize() {
	Normalize(b.Samples)
}

// Finalize нормализует буфер, накладывает fade in/out и пишет WAV.
func (b *Buffer) Finalize(path string) error {
	b.Normalize()
	FadeInOut(b.Samples, FadeLength)
	return WriteWAV(path, b.Samples, b.Rate)
}

func Normalize(samples []float64) {
	var peak float64
	for _, s := range samples {
		peak = max(peak, math.Abs(s))
	}
	if peak == 0 {
		return
	}
	for i := range samples {
		samples[i] /= peak
	}
}

// FadeInOut линейно гасит первые и последние fadeLength сэмплов.
// Длина окна ограничена половиной сигнала.
func FadeInOut(signal []float64, fadeLength int) {
	n := min(fadeLength, len(signal)/2)
	if n <= 0 {
		return
	}
	last := len(signal) - 1
	for i := 0; i < n; i++ {
		g := 0.0
		if n > 1 {
			g = float64(i) / float64(n-1)
		}
		signal[i] *= g
		signal[last-i] *= g
	}
}
