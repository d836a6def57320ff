package wipe

import (
	"os"
	"time"
)

// ThrottledWriter ограничивает скорость записи в файл
type ThrottledWriter struct {
	file         *os.File
	maxSpeedMBps float64
	lastWrite    time.Time
}

// NewThrottledWriter создает новый throttled writer.
// maxSpeedMBps <= 0 отключает ограничение.
func NewThrottledWriter(file *os.File, maxSpeedMBps float64) *ThrottledWriter {
	return &ThrottledWriter{
		file:         file,
		maxSpeedMBps: maxSpeedMBps,
		lastWrite:    time.Now(),
	}
}

// Write записывает данные с ограничением скорости
func (tw *ThrottledWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	if tw.maxSpeedMBps > 0 {
		bytesPerSec := tw.maxSpeedMBps * 1024 * 1024
		expected := time.Duration(float64(len(data)) / bytesPerSec * float64(time.Second))
		actual := time.Since(tw.lastWrite)
		if actual < expected {
			time.Sleep(expected - actual)
		}
	}

	n, err := tw.file.Write(data)
	tw.lastWrite = time.Now()
	return n, err
}
