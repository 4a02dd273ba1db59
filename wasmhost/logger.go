package wasmhost

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the wasmhost package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger configures the wasmhost package's logger. The logger is shared by
// every host module in the process; nil restores the no-op logger. Safe to call
// concurrently with logging.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
