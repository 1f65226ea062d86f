package system

import (
	"sync"
)

// FramePool переиспользует байтовые буферы кадров одного размера,
// чтобы не нагружать GC при записи тысяч кадров.
type FramePool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewFramePool()

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[int]*sync.Pool)}
}

// GetFrame возвращает буфер длины size из общего пула.
func GetFrame(size int) []byte {
	return globalPool.Get(size)
}

func PutFrame(buf []byte) {
	globalPool.Put(buf)
}

func (p *FramePool) Get(size int) []byte {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// повторная проверка
		pool, exists = p.pools[size]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					buf := make([]byte, size)
					return &buf
				},
			}
			p.pools[size] = pool
		}
		p.mu.Unlock()
	}

	return *(pool.Get().(*[]byte))
}

func (p *FramePool) Put(buf []byte) {
	if buf == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(buf)]
	p.mu.RUnlock()

	if exists {
		pool.Put(&buf)
	}
}
