// Package ppulog is the small per-subsystem logging facade every component
// in this module reaches for, in place of raw fmt.Println or the stdlib log
// package. It mirrors the teacher's log.Sub("name") convention over
// go.uber.org/zap's sugared logger.
package ppulog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.Mutex
	base *zap.SugaredLogger
	subs = map[string]*zap.SugaredLogger{}
)

// root returns the shared base logger, creating it on first use. Callers
// must hold mu.
func root() *zap.SugaredLogger {
	if base == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		base = logger.Sugar()
	}
	return base
}

// SetDevelopment switches the root logger to zap's human-readable
// development config (colorized level, caller, no sampling). Call once
// during startup, before the first Sub(); later calls are no-ops once a
// logger has already been handed out, matching the teacher's "configure
// once, log everywhere" usage.
func SetDevelopment() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		return
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	base = logger.Sugar()
}

// Sub returns the named sub-logger, creating it on first use. Every call
// with the same name returns loggers sharing the same underlying zap core,
// so log lines are consistently tagged with "subsystem": name.
func Sub(name string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := subs[name]; ok {
		return l
	}
	l := root().With("subsystem", name)
	subs[name] = l
	return l
}

// Debug logs at debug level on an unnamed ("core") sub-logger, matching the
// teacher's bare log.Debug(...) call sites that don't bother naming a
// subsystem.
func Debug(args ...interface{}) {
	Sub("core").Debug(args...)
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
}
