package wipe

import (
	"crypto/rand"
	mrand "math/rand"
	"sync"
)

// BufferPool управляет пулом буферов перезаписи, чтобы проходы
// не выделяли память заново на каждый файл
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalBufferPool = &BufferPool{
	pools: make(map[int]*sync.Pool),
}

// GetBuffer получает буфер из пула или создает новый
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}

	return globalBufferPool.getBuffer(size)
}

// PutBuffer возвращает буфер в пул
func PutBuffer(buf []byte) {
	if len(buf) == 0 {
		return
	}

	globalBufferPool.putBuffer(buf)
}

func (bp *BufferPool) getBuffer(size int) []byte {
	poolSize := bp.getPoolSize(size)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if !exists {
		bp.mu.Lock()
		// Double-check
		pool, exists = bp.pools[poolSize]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return make([]byte, poolSize)
				},
			}
			bp.pools[poolSize] = pool
		}
		bp.mu.Unlock()
	}

	buf := pool.Get().([]byte)
	return buf[:size] // Возвращаем слайс нужного размера
}

func (bp *BufferPool) putBuffer(buf []byte) {
	capacity := cap(buf)
	poolSize := bp.getPoolSize(capacity)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if exists {
		// Сбрасываем буфер перед возвращением в пул
		FillZeros(buf[:capacity])
		pool.Put(buf[:capacity])
	}
}

// getPoolSize определяет размер пула для буфера
func (bp *BufferPool) getPoolSize(size int) int {
	// Стандартные размеры пулов (степени двойки)
	sizes := []int{4096, 65536, 262144, 1048576, 4194304, 16777216}

	for _, poolSize := range sizes {
		if size <= poolSize {
			return poolSize
		}
	}

	// Если размер больше максимального, округляем до 4KB
	return ((size + 4095) / 4096) * 4096
}

// FillZeros заполняет буфер нулями
func FillZeros(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}

// FillRandom заполняет буфер случайными данными из системного
// источника энтропии. Шаблон генерируется заново для каждого чанка
// и не переиспользуется между проходами.
func FillRandom(buf []byte) {
	if len(buf) == 0 {
		return
	}

	if _, err := rand.Read(buf); err != nil {
		// Fallback: math/rand с недетерминированным сидом рантайма
		for i := range buf {
			buf[i] = byte(mrand.Intn(256))
		}
	}
}
