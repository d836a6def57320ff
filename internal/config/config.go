package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"securewipe/internal/security"
)

// Конфигурация securewipe
type Config struct {
	Security SecurityConfig `yaml:"security"`
	Wipe     WipeConfig     `yaml:"wipe"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type SecurityConfig struct {
	// ProtectedPaths — канонические пути, затирание которых запрещено
	ProtectedPaths []string `yaml:"protected_paths"`
	ProtectHome    bool     `yaml:"protect_home"`
}

type WipeConfig struct {
	Passes        int     `yaml:"passes"`
	Pattern       string  `yaml:"pattern"`
	BlockSize     int64   `yaml:"block_size"`
	MaxSpeedMBps  float64 `yaml:"max_speed_mbps"`
	MaxConcurrent int     `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Security: SecurityConfig{
			ProtectedPaths: security.DefaultProtectedPaths(),
			ProtectHome:    true,
		},
		Wipe: WipeConfig{
			Passes:        1,
			Pattern:       "zeros",
			BlockSize:     1024 * 1024, // 1MB
			MaxSpeedMBps:  0,           // без ограничения
			MaxConcurrent: 1,
		},
		Logging: LoggingConfig{
			Level: "INFO",
			File:  "",
		},
	}
}

// Load загружает конфигурацию из файла. Пустой путь или отсутствующий
// файл дают конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Накладываем файл поверх значений по умолчанию
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	if config.Wipe.Passes < 1 || config.Wipe.Passes > 100 {
		return fmt.Errorf("passes must be between 1 and 100, got %d", config.Wipe.Passes)
	}

	if config.Wipe.Pattern != "zeros" && config.Wipe.Pattern != "random" {
		return fmt.Errorf("invalid pattern: %s", config.Wipe.Pattern)
	}

	if config.Wipe.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", config.Wipe.BlockSize)
	}
	if config.Wipe.BlockSize > 256*1024*1024 { // 256MB max
		return fmt.Errorf("block size too large (max 256MB), got %d", config.Wipe.BlockSize)
	}

	if config.Wipe.MaxSpeedMBps < 0 {
		return fmt.Errorf("max speed cannot be negative, got %f", config.Wipe.MaxSpeedMBps)
	}

	if config.Wipe.MaxConcurrent < 1 || config.Wipe.MaxConcurrent > 32 {
		return fmt.Errorf("max concurrent must be between 1 and 32, got %d", config.Wipe.MaxConcurrent)
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[config.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	for _, path := range config.Security.ProtectedPaths {
		if path == "" {
			return fmt.Errorf("empty protected path")
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Policy строит политику защиты директорий из конфигурации
func (config *Config) Policy() *security.Policy {
	return &security.Policy{
		ProtectedPaths: config.Security.ProtectedPaths,
		ProtectHome:    config.Security.ProtectHome,
	}
}
