package expr

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	pkgLogger atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// SetLogger installs the logger used for diagnostics such as abandoned
// branch computations and inconsistent fact tables. A nil logger restores
// the no-op default.
func SetLogger(l *zap.Logger) {
	pkgLogger.Store(l)
}

func logger() *zap.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return nopLogger
}
