//go:build linux || darwin

package wipe

import (
	"os"

	"golang.org/x/sys/unix"
)

// durableFlushSupported — доступен ли платформенный fsync
const durableFlushSupported = true

// flushToDisk сбрасывает буферы файла на устройство.
// Гарантий для wear-leveling носителей это не даёт.
func flushToDisk(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
