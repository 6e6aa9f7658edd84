// Package goroutine starts background work whose failure, including a panic,
// comes back to the caller as an error.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/pinegate/pinegate/internal/shared/logger"
)

// Run calls fn on a new goroutine. The returned channel receives fn's error,
// or an error describing a recovered panic, and is then closed.
func Run(log logger.Interface, name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				done <- fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		done <- fn()
	}()
	return done
}
