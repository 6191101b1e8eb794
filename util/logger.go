package util

import (
	"sync"

	"go.uber.org/zap"
)

var (
	appLogger = zap.NewNop()
	loggerMu  sync.RWMutex
)

// NewLogger builds the process logger for the given APPENV value.
// Production gets JSON output, tests get a no-op logger, everything else the
// development console encoder.
func NewLogger(appEnv string) (*zap.Logger, error) {
	switch appEnv {
	case "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}

// SetLogger replaces the process logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	appLogger = l
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return appLogger
}
