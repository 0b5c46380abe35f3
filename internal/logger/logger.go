package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logFile *os.File
	sugar   *zap.SugaredLogger
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	mu      sync.Mutex
	enabled = true
)

const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
)

// Init opens ~/.config/fex/fex.log
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	return InitFile(filepath.Join(homeDir, ".config", "fex", "fex.log"))
}

// InitFile opens logPath for appending, rotating it to logPath.old first
// when it has grown past 5MB.
func InitFile(logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		oldPath := logPath + ".old"
		os.Remove(oldPath)
		os.Rename(logPath, oldPath)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(file), level)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	sugar = zap.New(core).Sugar()
	return nil
}

// SetLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names leave the level unchanged.
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return fmt.Errorf("unknown log level %q", name)
	}
	level.SetLevel(l)
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if sugar != nil {
		sugar.Sync()
		sugar = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Disable disables logging (useful for tests)
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Enable enables logging
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

func Error(format string, args ...any) { log(zapcore.ErrorLevel, format, args...) }
func Warn(format string, args ...any)  { log(zapcore.WarnLevel, format, args...) }
func Info(format string, args ...any)  { log(zapcore.InfoLevel, format, args...) }
func Debug(format string, args ...any) { log(zapcore.DebugLevel, format, args...) }

func log(lvl zapcore.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || sugar == nil {
		return
	}
	sugar.Logf(lvl, format, args...)
}
