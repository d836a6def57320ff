package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"securewipe/internal/config"
	"securewipe/internal/logging"
	"securewipe/internal/wipe"
)

const (
	Version = "1.0.2"
	AppName = "SecureWipe"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
	EXIT_USAGE   = 2
)

var (
	cfg        *config.Config
	logger     *logging.Logger
	verbose    bool
	configPath string
	passes     int
	pattern    string
	dryRun     bool
	yes        bool
)

// operationError — отказ самой операции затирания (exit code 1),
// в отличие от ошибок использования CLI (exit code 2)
type operationError struct {
	message string
}

func (e *operationError) Error() string { return e.message }

// CLI команды
var rootCmd = &cobra.Command{
	Use:           "securewipe",
	Short:         "SecureWipe - безопасное удаление файлов с перезаписью",
	Long:          "Утилита безопасного удаления: содержимое файлов перезаписывается выбранным шаблоном и только затем удаляется",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var wipeCmd = &cobra.Command{
	Use:   "wipe <файл>",
	Short: "Затереть и удалить один файл",
	Args:  cobra.ExactArgs(1),
	RunE:  runWipe,
}

var wipeDirCmd = &cobra.Command{
	Use:   "wipe-dir <директория>",
	Short: "Рекурсивно затереть файлы в директории",
	Long:  "Рекурсивное затирание файлов в директории. Без --yes выполняется только с --dry-run (предпросмотр)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWipeDir,
}

var infoCmd = &cobra.Command{
	Use:   "info <путь>",
	Short: "Показать, что попадёт под затирание",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к конфигурации")

	wipeCmd.Flags().IntVarP(&passes, "passes", "p", 0, "Количество проходов перезаписи")
	wipeCmd.Flags().StringVar(&pattern, "pattern", "", "Шаблон заполнения (zeros/random)")

	wipeDirCmd.Flags().IntVarP(&passes, "passes", "p", 0, "Количество проходов перезаписи")
	wipeDirCmd.Flags().StringVar(&pattern, "pattern", "", "Шаблон заполнения (zeros/random)")
	wipeDirCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Предпросмотр без изменений")
	wipeDirCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Подтвердить выполнение затирания")

	rootCmd.AddCommand(wipeCmd, wipeDirCmd, infoCmd)
}

// setup загружает конфигурацию и создаёт логгер
func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return &operationError{fmt.Sprintf("ошибка загрузки конфигурации: %v", err)}
	}

	logger, err = logging.NewLogger(cfg, verbose)
	if err != nil {
		return &operationError{fmt.Sprintf("ошибка инициализации логгера: %v", err)}
	}

	return nil
}

// buildOptions собирает параметры затирания: конфигурация плюс флаги CLI
func buildOptions() (wipe.Options, error) {
	opt := wipe.Options{
		Passes:        cfg.Wipe.Passes,
		Pattern:       wipe.Pattern(cfg.Wipe.Pattern),
		BlockSize:     cfg.Wipe.BlockSize,
		MaxSpeedMBps:  cfg.Wipe.MaxSpeedMBps,
		MaxConcurrent: cfg.Wipe.MaxConcurrent,
	}

	if passes != 0 {
		opt.Passes = passes
	}
	if pattern != "" {
		p, err := wipe.ValidatePattern(pattern)
		if err != nil {
			return opt, err
		}
		opt.Pattern = p
	}

	return opt, nil
}

func runWipe(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	opt, err := buildOptions()
	if err != nil {
		return err
	}

	logger.Log("INFO", "Запуск затирания файла", "path", args[0], "passes", opt.Passes, "pattern", opt.Pattern)

	res := wipe.WipeFile(args[0], opt, logger)
	if !res.Ok {
		return &operationError{res.Message}
	}

	fmt.Printf("%s %s\n", color.GreenString("✓"), res.Message)
	if verbose {
		fmt.Printf("  Записано: %.2f MB | Скорость: %.1f MB/s | Надёжный сброс: %t\n",
			float64(res.BytesWritten)/(1024*1024), res.SpeedMBps, res.DurableFlush)
	}
	return nil
}

func runWipeDir(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	opt, err := buildOptions()
	if err != nil {
		return err
	}

	res := wipe.WipeDirectory(args[0], opt, dryRun, yes, cfg.Policy(), logger)
	if !res.Ok {
		return &operationError{res.Message}
	}

	fmt.Printf("%s %s\n", color.GreenString("✓"), res.Message)
	if verbose && !dryRun {
		fmt.Printf("  Записано: %.2f MB | Скорость: %.1f MB/s | Надёжный сброс: %t\n",
			float64(res.BytesWritten)/(1024*1024), res.SpeedMBps, res.DurableFlush)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, bytes, err := wipe.Inspect(args[0])
	if err != nil {
		return &operationError{err.Error()}
	}

	fmt.Println("Информация о цели:")
	fmt.Println("==================")
	fmt.Printf("Путь:   %s\n", args[0])
	fmt.Printf("Файлов: %d\n", files)
	fmt.Printf("Объём:  %.2f MB\n", float64(bytes)/(1024*1024))
	return nil
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		os.Exit(EXIT_SUCCESS)
	}

	var opErr *operationError
	if errors.As(err, &opErr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("✗"), opErr.message)
		os.Exit(EXIT_ERROR)
	}

	// Ошибки разбора аргументов и неизвестные флаги
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(EXIT_USAGE)
}
