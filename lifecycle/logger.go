package lifecycle

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the lifecycle package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger configures the lifecycle package's logger. The logger is shared by
// every manager in the process; nil restores the no-op logger. Safe to call
// concurrently with logging.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
