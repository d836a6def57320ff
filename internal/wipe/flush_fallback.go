//go:build !linux && !darwin

package wipe

import "os"

const durableFlushSupported = false

// flushToDisk сбрасывает буферы рантайма без гарантии достижения устройства
func flushToDisk(f *os.File) error {
	return f.Sync()
}
