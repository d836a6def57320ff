package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"securewipe/internal/config"
)

// Логгер аудита операций затирания
type Logger struct {
	level   string
	file    *os.File
	verbose bool
}

func NewLogger(cfg *config.Config, verbose bool) (*Logger, error) {
	l := &Logger{
		level:   cfg.Logging.Level,
		verbose: verbose,
	}

	// Автоматическое создание директории для логов
	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			// Если не можем создать директорию, используем stdout
			fmt.Printf("[WARN] Не удалось создать директорию логов %s: %v\n", logDir, err)
			return l, nil
		}

		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("[WARN] Не удалось открыть файл логов %s: %v\n", cfg.Logging.File, err)
			return l, nil
		}
		l.file = f
	}

	return l, nil
}

// Log пишет запись аудита. Вызов с nil-логгером безопасен и ничего не делает.
func (l *Logger) Log(level, message string, fields ...interface{}) {
	if l == nil || !l.shouldLog(level) {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)

	if len(fields) > 0 {
		entry += fmt.Sprintf(" %v", fields)
	}

	if l.file != nil {
		l.file.WriteString(entry + "\n")
		l.file.Sync()
	}

	if l.verbose || level == "ERROR" || level == "FATAL" {
		fmt.Println(entry)
	}
}

func (l *Logger) shouldLog(level string) bool {
	levels := map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3, "FATAL": 4}
	current := levels[l.level]
	target := levels[level]
	return target >= current
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
