// Package goroutine launches background work that must not take the process
// down with it.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"helpdesk/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine and logs a panic with its stack instead
// of crashing.
func SafeGo(log logger.Interface, name string, fn func()) {
	go run(log, name, fn)
}

// Every calls fn once per interval until ctx is done. A panicking tick is
// logged and the loop keeps going. The returned channel closes on exit.
func Every(ctx context.Context, log logger.Interface, name string, interval time.Duration, fn func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run(log, name, func() { fn(ctx) })
			}
		}
	}()
	return done
}

func run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
