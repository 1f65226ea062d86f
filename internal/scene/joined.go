package scene

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFound        = errors.New("value not in list")
)

// Joined - единый список поверх нескольких. Изменения попадают в исходные
// списки, поэтому они хранятся по указателю.
type Joined[T comparable] struct {
	lists []*[]T
}

func Join[T comparable](lists ...*[]T) *Joined[T] {
	return &Joined[T]{lists: lists}
}

func (j *Joined[T]) Len() int {
	n := 0
	for _, l := range j.lists {
		n += len(*l)
	}
	return n
}

func (j *Joined[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for _, l := range j.lists {
			for _, v := range *l {
				if !yield(i, v) {
					return
				}
				i++
			}
		}
	}
}

// locate переводит общий индекс (с отрицательными) в список и позицию в нем.
func (j *Joined[T]) locate(key int) (*[]T, int, error) {
	n := j.Len()
	if key < 0 {
		key += n
	}
	if key < 0 || key >= n {
		return nil, 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, key, n)
	}
	for _, l := range j.lists {
		if key < len(*l) {
			return l, key, nil
		}
		key -= len(*l)
	}
	return nil, 0, ErrIndexOutOfRange
}

func (j *Joined[T]) Get(key int) (T, error) {
	l, i, err := j.locate(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return (*l)[i], nil
}

func (j *Joined[T]) Set(key int, v T) error {
	l, i, err := j.locate(key)
	if err != nil {
		return err
	}
	(*l)[i] = v
	return nil
}

func (j *Joined[T]) Pop(key int) (T, error) {
	l, i, err := j.locate(key)
	if err != nil {
		var zero T
		return zero, err
	}
	v := (*l)[i]
	*l = slices.Delete(*l, i, i+1)
	return v, nil
}

// Insert вставляет перед key. Индекс за пределами прижимается к краям,
// вставка на стыке списков идет в начало следующего.
func (j *Joined[T]) Insert(key int, v T) {
	if len(j.lists) == 0 {
		return
	}
	n := j.Len()
	if key < 0 {
		key += n
	}
	key = min(max(key, 0), n)
	for _, l := range j.lists {
		if key < len(*l) {
			*l = slices.Insert(*l, key, v)
			return
		}
		key -= len(*l)
	}
	last := j.lists[len(j.lists)-1]
	*last = append(*last, v)
}

// Remove удаляет первое вхождение v.
func (j *Joined[T]) Remove(v T) error {
	for _, l := range j.lists {
		if i := slices.Index(*l, v); i >= 0 {
			*l = slices.Delete(*l, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}
