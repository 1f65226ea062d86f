package scene

import "fmt"

// MemoryRange - именованный участок: n элементов по size.
type MemoryRange struct {
	Name string
	Size int
	N    int
}

// Field дает доступ по индексу: 0 - имя, 1 - размер, 2 - количество.
func (r MemoryRange) Field(i int) (any, error) {
	switch i {
	case 0:
		return r.Name, nil
	case 1:
		return r.Size, nil
	case 2:
		return r.N, nil
	}
	return nil, fmt.Errorf("memory range field %d: %w", i, ErrIndexOutOfRange)
}

// MemoryMap раскладывает участки подряд в одном плоском массиве.
type MemoryMap struct {
	Ranges  []MemoryRange
	offsets map[string]int
	length  int
}

func NewMemoryMap(ranges ...MemoryRange) *MemoryMap {
	m := &MemoryMap{Ranges: ranges, offsets: make(map[string]int, len(ranges))}
	for _, r := range ranges {
		m.offsets[r.Name] = m.length
		m.length += r.Size * r.N
	}
	return m
}

func (m *MemoryMap) Len() int { return m.length }

// Offset - начало участка name.
func (m *MemoryMap) Offset(name string) (int, error) {
	off, ok := m.offsets[name]
	if !ok {
		return 0, fmt.Errorf("memory range %q: %w", name, ErrNotFound)
	}
	return off, nil
}

// Slices возвращает границы [start, end) каждого элемента участка.
func (m *MemoryMap) Slices(name string) ([][2]int, error) {
	off, err := m.Offset(name)
	if err != nil {
		return nil, err
	}
	var r MemoryRange
	for _, x := range m.Ranges {
		if x.Name == name {
			r = x
		}
	}
	out := make([][2]int, r.N)
	for i := range out {
		out[i] = [2]int{off + r.Size*i, off + r.Size*(i+1)}
	}
	return out, nil
}
