package core

import (
	"log"
	"runtime/debug"
	"sync/atomic"
)

var crashHandler atomic.Pointer[func(any)]

// SetCrashHandler installs a callback invoked after a recovered panic has been logged
// Passing nil restores log-only behavior
func SetCrashHandler(fn func(any)) {
	if fn == nil {
		crashHandler.Store(nil)
		return
	}
	crashHandler.Store(&fn)
}

// HandleCrash logs the recovered value with its stack trace and forwards it to the installed handler
// The engine never terminates the host process on its own
func HandleCrash(r any) {
	if r == nil {
		return
	}

	log.Printf("CRASH DETECTED: %v\n%s", r, debug.Stack())

	if fn := crashHandler.Load(); fn != nil {
		(*fn)(r)
	}
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for engine-owned goroutines
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
