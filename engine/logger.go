package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the engine logger. It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger replaces the engine logger. Log entries are named "engine".
// A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger.Store(zap.NewNop())
		return
	}
	logger.Store(l.Named("engine"))
}
