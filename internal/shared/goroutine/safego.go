// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// SafeGo launches fn on a new goroutine. A panic inside fn is recovered and
// logged with its stack instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Run(log, name, fn)
}

// Run executes fn on the current goroutine with the same recovery as SafeGo.
// It reports whether fn completed without panicking.
func Run(log logger.Interface, name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
	return true
}
