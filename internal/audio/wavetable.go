package audio

import (
	"fmt"
	"math"
)

// WaveFunc - периодическая функция с периодом 2π и значениями в [-1, 1].
type WaveFunc func(x float64) float64

func Sine(x float64) float64 {
	return math.Sin(x)
}

func Sawtooth(x float64) float64 {
	v := math.Mod((x+math.Pi)/math.Pi, 2)
	if v < 0 {
		v += 2
	}
	return v - 1
}

func Square(x float64) float64 {
	s := math.Sin(x)
	switch {
	case s > 0:
		return 1
	case s < 0:
		return -1
	}
	return 0
}

func Triangle(x float64) float64 {
	return 2*math.Abs(Sawtooth(x)) - 1
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Notes - частоты нот C0..B8 в равномерной темперации, A4 = 440 Гц.
var Notes = buildNotes()

func buildNotes() map[string]float64 {
	notes := make(map[string]float64, len(noteNames)*9)
	for octave := 0; octave <= 8; octave++ {
		for i, name := range noteNames {
			n := octave*12 + i
			notes[fmt.Sprintf("%s%d", name, octave)] = 440 * math.Pow(2, float64(n-57)/12)
		}
	}
	return notes
}

// Table - один период волны, проигрываемый с произвольной частотой.
type Table []float64

func NewTable(fn WaveFunc, size int) Table {
	t := make(Table, size)
	for i := range t {
		t[i] = fn(2 * math.Pi * float64(i) / float64(size))
	}
	return t
}

// LinearInterpolation читает таблицу по дробному индексу с заворотом в начало.
func LinearInterpolation(table []float64, index float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	i0 := int(math.Floor(index))
	frac := index - float64(i0)
	i0 = ((i0 % n) + n) % n
	i1 := (i0 + 1) % n
	return table[i0]*(1-frac) + table[i1]*frac
}

func (t Table) Render(rate int, freq, duration float64) []float64 {
	out := make([]float64, int(float64(rate)*duration))
	if len(t) == 0 {
		return out
	}
	step := float64(len(t)) * freq / float64(rate)
	phase := 0.0
	for i := range out {
		out[i] = LinearInterpolation(t, phase)
		phase = math.Mod(phase+step, float64(len(t)))
	}
	return out
}

// BuildSamples синтезирует по сэмплу длины rate*duration на каждую ноту.
func BuildSamples(fn WaveFunc, rate int, duration float64, notes ...string) (map[string][]float64, error) {
	bank := make(map[string][]float64, len(notes))
	for _, note := range notes {
		freq, ok := Notes[note]
		if !ok {
			return nil, fmt.Errorf("unknown note %q", note)
		}
		samples := make([]float64, int(float64(rate)*duration))
		for i := range samples {
			samples[i] = fn(2 * math.Pi * freq * float64(i) / float64(rate))
		}
		bank[note] = samples
	}
	return bank, nil
}
