// Package telemetry forwards internal faults to Sentry.
// Every function is a no-op until Init succeeds with a non-empty DSN.
package telemetry

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	gosentry "github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

var enabled atomic.Bool

// Options configures the Sentry client.
type Options struct {
	DSN         string
	Environment string
	Release     string
	// BeforeSend may inspect or drop events before delivery.
	BeforeSend func(*gosentry.Event, *gosentry.EventHint) *gosentry.Event
}

// Init initializes the Sentry SDK. An empty DSN leaves reporting disabled.
func Init(opts Options) error {
	if opts.DSN == "" {
		enabled.Store(false)
		return nil
	}
	err := gosentry.Init(gosentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend:       opts.BeforeSend,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("go_version", runtime.Version())
	})
	enabled.Store(true)
	return nil
}

// IsEnabled returns whether sentry is active.
func IsEnabled() bool {
	return enabled.Load()
}

// Flush waits briefly for buffered events to be sent.
func Flush() {
	if !IsEnabled() {
		return
	}
	gosentry.Flush(flushTimeout)
}

// CaptureError reports err with the given tags attached.
func CaptureError(err error, tags map[string]string) {
	if err == nil || !IsEnabled() {
		return
	}
	gosentry.WithScope(func(scope *gosentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		gosentry.CaptureException(err)
	})
}

// CapturePanic reports a value obtained from recover().
func CapturePanic(v any, tags map[string]string) {
	if v == nil || !IsEnabled() {
		return
	}
	gosentry.WithScope(func(scope *gosentry.Scope) {
		for k, val := range tags {
			scope.SetTag(k, val)
		}
		gosentry.CurrentHub().Recover(v)
	})
}
