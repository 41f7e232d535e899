package main

import (
	"fmt"
	"time"
)

// background runs fn in its own goroutine and logs a panic instead of
// crashing the server.
func (app *application) background(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", fmt.Sprint(err))
			}
		}()

		fn()
	}()
}

// every runs fn on a ticker until the process exits.
func (app *application) every(interval time.Duration, name string, fn func()) {
	app.background(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			fn()
		}
	})
	app.logger.Infow("background job scheduled", "job", name, "interval", interval.String())
}
