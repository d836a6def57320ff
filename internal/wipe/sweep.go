package wipe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"securewipe/internal/logging"
	"securewipe/internal/security"
)

// WipeDirectory рекурсивно затирает все обычные файлы под директорией.
//
// Модель безопасности:
//   - опасные директории (корень ФС, системные пути из политики, домашняя
//     директория) отвергаются без возможности переопределения;
//   - без dryRun и без confirmed операция останавливается;
//   - dryRun имеет приоритет: если заданы оба флага, выполняется предпросмотр.
//
// Symlink'и никогда не раскрываются, не затираются и не считаются.
// Записи без прав доступа молча пропускаются. Ошибка отдельного файла
// учитывается в счётчиках, но не прерывает обход.
func WipeDirectory(dir string, opt Options, dryRun, confirmed bool, policy *security.Policy, logger *logging.Logger) Result {
	start := time.Now()

	info, err := os.Stat(dir)
	if err != nil {
		return failure(KindNotFound, "Directory does not exist")
	}
	if !info.IsDir() {
		return failure(KindWrongType, "Path is not a directory")
	}

	if policy == nil {
		policy = security.DefaultPolicy()
	}
	if policy.IsDangerous(dir) {
		logger.Log("WARN", "Отказ затирать опасную директорию", "dir", dir)
		return failure(KindSafetyRefusal, "Refusing to wipe a dangerous directory. Choose a safer target.")
	}

	if !dryRun && !confirmed {
		return failure(KindSafetyRefusal, "Safety stop: wipe-dir requires --dry-run (preview) or --yes (execute).")
	}

	// Первый обход: подсчёт файлов к затиранию
	var totalFiles uint64
	walkRegularFiles(dir, func(path string) {
		totalFiles++
		if dryRun {
			fmt.Printf("[DRY-RUN] would wipe: %s\n", path)
		}
	})

	if dryRun {
		logger.Log("INFO", "Предпросмотр завершён", "dir", dir, "files", totalFiles)
		return Result{
			Ok:           true,
			Message:      fmt.Sprintf("Dry-run complete. Files to wipe: %d. Re-run with --yes to execute.", totalFiles),
			TotalFiles:   totalFiles,
			Duration:     time.Since(start),
			DurableFlush: durableFlushSupported,
		}
	}

	logger.Log("INFO", "Начало затирания директории", "dir", dir, "files", totalFiles, "passes", opt.Passes, "pattern", opt.Pattern)

	// Второй обход: затирание. Обход независим от первого, поэтому файлы,
	// появившиеся между предпросмотром и выполнением, тоже попадают под
	// обработку (атомарности между двумя проходами нет).
	var wipedFiles, failedFiles, bytesWritten uint64

	wipeOne := func(path string) {
		res := WipeFile(path, opt, logger)
		if res.Ok {
			atomic.AddUint64(&wipedFiles, 1)
			atomic.AddUint64(&bytesWritten, res.BytesWritten)
			return
		}
		atomic.AddUint64(&failedFiles, 1)
		fmt.Fprintf(os.Stderr, "[FAIL] %s : %s\n", path, res.Message)
		logger.Log("ERROR", "Не удалось затереть файл", "path", path, "error", res.Message)
	}

	workers := opt.MaxConcurrent
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		walkRegularFiles(dir, wipeOne)
	} else {
		// Ограниченный пул: порядок перезапись→сброс→удаление внутри
		// каждого файла остаётся последовательным, параллельны только файлы
		paths := make(chan string)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for path := range paths {
					wipeOne(path)
				}
			}()
		}
		walkRegularFiles(dir, func(path string) { paths <- path })
		close(paths)
		wg.Wait()
	}

	// Best-effort: убрать опустевшие директории снизу вверх
	removeEmptyDirs(dir)

	r := Result{
		Ok:           failedFiles == 0,
		TotalFiles:   totalFiles,
		WipedFiles:   wipedFiles,
		FailedFiles:  failedFiles,
		BytesWritten: bytesWritten,
		Duration:     time.Since(start),
		DurableFlush: durableFlushSupported,
		Message: fmt.Sprintf("wipe-dir complete. total=%d, wiped=%d, failed=%d",
			totalFiles, wipedFiles, failedFiles),
	}
	if !r.Ok {
		r.Kind = KindPartialFailure
	}
	if r.Duration.Seconds() > 0 {
		r.SpeedMBps = float64(bytesWritten) / (1024 * 1024) / r.Duration.Seconds()
	}

	logger.Log("INFO", "Затирание директории завершено", "dir", dir,
		"total", totalFiles, "wiped", wipedFiles, "failed", failedFiles)
	return r
}

// Inspect считает обычные файлы и их суммарный объём под path без какой-либо
// мутации. Для обычного файла возвращает 1 и его размер.
func Inspect(path string) (files uint64, bytes uint64, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, err
	}

	if info.Mode().IsRegular() {
		return 1, uint64(info.Size()), nil
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("not a regular file or directory: %s", path)
	}

	walkRegularFiles(path, func(p string) {
		if fi, err := os.Lstat(p); err == nil {
			files++
			bytes += uint64(fi.Size())
		}
	})
	return files, bytes, nil
}

// walkRegularFiles обходит дерево и вызывает fn для каждого обычного файла.
// Symlink'и пропускаются и не раскрываются, недоступные записи — молча.
func walkRegularFiles(root string, fn func(path string)) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.Type().IsRegular() {
			fn(path)
		}
		return nil
	})
}

// removeEmptyDirs удаляет опустевшие поддиректории снизу вверх.
// os.Remove убирает директорию только если она пуста, ошибки игнорируются.
func removeEmptyDirs(root string) {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
}
