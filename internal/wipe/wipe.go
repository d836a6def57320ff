package wipe

import (
	"fmt"
	"os"
	"time"

	"securewipe/internal/logging"
)

// WipeFile перезаписывает содержимое файла указанным шаблоном за
// opt.Passes проходов и затем удаляет файл. Порядок проверок:
// существование → обычный файл → размер → passes.
//
// Файл перезаписывается поблочно, память ограничена размером блока
// независимо от размера файла. После каждого прохода буферы сбрасываются
// на устройство; ошибка сброса прерывает операцию целиком.
func WipeFile(path string, opt Options, logger *logging.Logger) Result {
	start := time.Now()

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(KindNotFound, "Path does not exist")
		}
		return failure(KindIO, fmt.Sprintf("Failed to get file size: %v", err))
	}
	if !info.Mode().IsRegular() {
		return failure(KindWrongType, "Path is not a regular file")
	}
	fileSize := info.Size()

	if opt.Passes < 1 {
		return failure(KindValidation, "passes must be >= 1")
	}

	blockSize := opt.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if blockSize > fileSize && fileSize > 0 {
		blockSize = fileSize
	}

	buf := GetBuffer(int(blockSize))
	defer PutBuffer(buf)

	var bytesWritten uint64

	for pass := 1; pass <= opt.Passes; pass++ {
		logger.Log("DEBUG", "Проход перезаписи", "path", path, "pass", pass, "total", opt.Passes)

		n, err := overwritePass(path, fileSize, opt, buf)
		bytesWritten += n
		if err != nil {
			return failure(KindIO, err.Error())
		}
	}

	// Удаление после успешной перезаписи. Ошибка удаления — это отказ
	// операции, даже если содержимое уже уничтожено: оператор должен
	// увидеть, что файл остался на месте.
	if err := os.Remove(path); err != nil {
		return failure(KindDelete, fmt.Sprintf("Failed to delete file: %v", err))
	}

	r := Result{
		Ok:           true,
		Message:      "Wiped and deleted successfully",
		BytesWritten: bytesWritten,
		Duration:     time.Since(start),
		DurableFlush: durableFlushSupported,
	}
	if r.Duration.Seconds() > 0 {
		r.SpeedMBps = float64(bytesWritten) / (1024 * 1024) / r.Duration.Seconds()
	}

	logger.Log("INFO", "Файл затёрт", "path", path, "passes", opt.Passes, "bytes", bytesWritten)
	return r
}

// overwritePass выполняет один полный проход перезаписи файла.
// Файл открывается без усечения, данные пишутся по тем же смещениям.
func overwritePass(path string, fileSize int64, opt Options, buf []byte) (uint64, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("Failed to open file for overwrite: %w", err)
	}
	defer f.Close()

	w := NewThrottledWriter(f, opt.MaxSpeedMBps)

	var written uint64
	remaining := fileSize
	for remaining > 0 {
		chunk := int64(len(buf))
		if remaining < chunk {
			chunk = remaining
		}

		// Шаблон генерируется заново для каждого чанка
		switch opt.Pattern {
		case PatternRandom:
			FillRandom(buf[:chunk])
		default:
			FillZeros(buf[:chunk])
		}

		off := 0
		for off < int(chunk) {
			n, werr := w.Write(buf[off:chunk])
			if n > 0 {
				off += n
				written += uint64(n)
			}
			if werr != nil {
				return written, fmt.Errorf("Write failed during overwrite: %w", werr)
			}
			if n == 0 {
				return written, fmt.Errorf("Write failed during overwrite: short write")
			}
		}

		remaining -= chunk
	}

	// Сброс на устройство до следующего прохода или удаления
	if err := flushToDisk(f); err != nil {
		return written, fmt.Errorf("Flush failed: %v", err)
	}

	return written, nil
}
