package cell

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrorReporter receives failures that escaped an observer callback. The
// watcher that failed is identified by id; recovered is the panic value.
// Failures never propagate to the write that triggered the observer, and a
// failing observer is not disabled.
type ErrorReporter func(id uint64, recovered any)

var (
	reporterMu sync.RWMutex
	reporter   ErrorReporter = defaultReporter
)

var defaultLogger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Str("app", "cellgraph").Logger()

func defaultReporter(id uint64, recovered any) {
	defaultLogger.Error().
		Uint64("watcher", id).
		Interface("panic", recovered).
		Msg("observer callback failed")
}

// SetErrorReporter installs a process-wide reporter for observer failures.
// Passing nil restores the default.
func SetErrorReporter(r ErrorReporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	if r == nil {
		r = defaultReporter
	}
	reporter = r
}

// ResetErrorReporter restores the default stderr reporter.
func ResetErrorReporter() {
	SetErrorReporter(nil)
}

// reportObserverFailure forwards a recovered observer panic to the installed
// reporter. A panic escaping the reporter itself is swallowed; reporting must
// never unwind a settle pass.
func reportObserverFailure(id uint64, recovered any) {
	reporterMu.RLock()
	r := reporter
	reporterMu.RUnlock()

	defer func() {
		_ = recover()
	}()
	r(id, recovered)
}
