package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string
	ServiceName string
	Development bool
}

// Logger wraps zap.Logger
type Logger struct {
	*zap.Logger
}

var (
	global *Logger
	mu     sync.Mutex
)

// Init initializes the global logger. Call once at startup.
func Init(cfg *Config) error {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			// Unknown level strings fall back to info rather than failing startup.
			level = zapcore.InfoLevel
		}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	base, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		base = base.With(zap.String("service", cfg.ServiceName))
	}

	global = &Logger{base}
	return nil
}

// Get returns the global logger. Falls back to a no-op logger before Init
// so tests never have to initialize logging.
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = &Logger{zap.NewNop()}
	}
	return global
}

// Sync flushes any buffered log entries
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		_ = global.Logger.Sync()
	}
}
