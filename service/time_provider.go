package service

import (
	"time"

	"mygreyhound/helpers"
	"mygreyhound/interfaces"
)

// timeProvider implements interfaces.TimeProvider with an injected now func.
// The affinity store stamps touched keys with it and the idle sweep compares against it.
type timeProvider struct {
	now func() time.Time
}

// NewTimeProvider creates a TimeProvider backed by now. Panics on nil now.
//
// Parameter now is a no-arg function returning the current time.
//
// Returns: interfaces.TimeProvider (*timeProvider).
//
// Called from cmd/controller with time.Now; tests pass a fixed clock.
func NewTimeProvider(now func() time.Time) interfaces.TimeProvider {
	return &timeProvider{now: helpers.NilPanic(now, "service.time_provider.go: now is required")}
}

func (t *timeProvider) Now() time.Time {
	return t.now()
}
