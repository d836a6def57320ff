package wipe

import (
	"fmt"
	"time"
)

// DefaultBlockSize размер блока перезаписи по умолчанию (1 МБ)
const DefaultBlockSize int64 = 1 << 20

// Pattern определяет шаблон заполнения при перезаписи
type Pattern string

const (
	PatternZeros  Pattern = "zeros"
	PatternRandom Pattern = "random"
)

// ValidatePattern проверяет корректность шаблона
func ValidatePattern(pattern string) (Pattern, error) {
	p := Pattern(pattern)
	switch p {
	case PatternZeros, PatternRandom:
		return p, nil
	default:
		return "", fmt.Errorf("неподдерживаемый шаблон затирания: %s", pattern)
	}
}

// ErrorKind классификация ошибок для машинной обработки.
// Текст в Result.Message предназначен человеку, ветвиться нужно по Kind.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindWrongType      ErrorKind = "WRONG_TYPE"
	KindValidation     ErrorKind = "VALIDATION"
	KindIO             ErrorKind = "IO"
	KindDelete         ErrorKind = "DELETE"
	KindSafetyRefusal  ErrorKind = "SAFETY_REFUSAL"
	KindPartialFailure ErrorKind = "PARTIAL_FAILURE"
)

// Options параметры затирания
type Options struct {
	Passes       int
	Pattern      Pattern
	BlockSize    int64   // 0 = DefaultBlockSize
	MaxSpeedMBps float64 // 0 = без ограничения скорости
	// MaxConcurrent ограничивает число одновременно затираемых файлов
	// при обходе директории. 0 и 1 означают последовательную обработку.
	MaxConcurrent int
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		Passes:    1,
		Pattern:   PatternZeros,
		BlockSize: DefaultBlockSize,
	}
}

// Result результат операции затирания
type Result struct {
	Ok      bool
	Kind    ErrorKind
	Message string

	// Счётчики обхода директории (для WipeFile всегда нулевые)
	TotalFiles  uint64
	WipedFiles  uint64
	FailedFiles uint64

	BytesWritten uint64
	Duration     time.Duration
	SpeedMBps    float64

	// DurableFlush сообщает, был ли доступен платформенный примитив
	// гарантированного сброса на устройство (fsync). false означает,
	// что сброс выполнялся только на уровне буферов рантайма.
	DurableFlush bool
}

func failure(kind ErrorKind, message string) Result {
	return Result{Ok: false, Kind: kind, Message: message}
}
