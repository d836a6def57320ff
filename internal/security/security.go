package security

import (
	"os"
	"path/filepath"
)

// Policy — набор канонических путей, которые обход директорий отказывается
// трогать. Список приходит из конфигурации, а не зашит в код, чтобы
// платформенные различия оставались настройкой.
type Policy struct {
	ProtectedPaths []string
	ProtectHome    bool
}

// DefaultPolicy возвращает политику по умолчанию
func DefaultPolicy() *Policy {
	return &Policy{
		ProtectedPaths: DefaultProtectedPaths(),
		ProtectHome:    true,
	}
}

// DefaultProtectedPaths — корневые директории ОС, библиотек и приложений
func DefaultProtectedPaths() []string {
	return []string{
		"/bin",
		"/boot",
		"/etc",
		"/lib",
		"/sbin",
		"/usr",
		"/var",
		"/System",
		"/Library",
		"/Applications",
	}
}

// IsDangerous сообщает, запрещено ли затирать директорию.
// Ошибка канонизации трактуется как опасность (fail closed).
func (p *Policy) IsDangerous(dir string) bool {
	canon, err := Canonicalize(dir)
	if err != nil {
		return true
	}

	// Корень файловой системы запрещён всегда
	if canon == string(filepath.Separator) {
		return true
	}

	for _, protected := range p.ProtectedPaths {
		pc, err := Canonicalize(protected)
		if err != nil {
			continue
		}
		if canon == pc {
			return true
		}
	}

	// Домашняя директория пользователя (best-effort: если её не удаётся
	// определить, проверка пропускается)
	if p.ProtectHome {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			if hc, err := Canonicalize(home); err == nil && canon == hc {
				return true
			}
		}
	}

	return false
}

// Canonicalize приводит путь к канонической абсолютной форме.
// Несуществующие пути не резолвятся по symlink'ам и просто нормализуются.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return filepath.Clean(abs), nil
	}

	return resolved, nil
}
