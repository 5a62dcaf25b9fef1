package service

import (
	"context"
	"time"

	"mygreyhound/domain"

	"github.com/go-kit/log/level"
)

// Watch starts a goroutine polling role every interval and returns the channel of membership deltas.
//
// Parameters: ctx stops the poll loop and closes the channel; role is the watched role; interval is the poll period.
//
// The first successful poll emits register for every member. Later polls diff instance ids against the
// previous snapshot. A failed poll is logged and skipped, so the snapshot survives transient store outages.
//
// Called from cmd/controller for the sh role; the channel feeds RoutingTable.HandleRegistryEvents.
func (r *registry) Watch(ctx context.Context, role domain.Role, interval time.Duration) <-chan domain.RegistryEvent {
	events := make(chan domain.RegistryEvent)
	go r.watchLoop(ctx, role, interval, events)
	return events
}

func (r *registry) watchLoop(ctx context.Context, role domain.Role, interval time.Duration, events chan<- domain.RegistryEvent) {
	defer close(events)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	known := make(map[string]domain.ServiceRecord)
	for {
		if !r.poll(ctx, role, known, events) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll diffs one snapshot of role against known and sends the events. Returns false once ctx is done.
func (r *registry) poll(ctx context.Context, role domain.Role, known map[string]domain.ServiceRecord, events chan<- domain.RegistryEvent) bool {
	records, err := r.Get(ctx, role)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		level.Warn(r.logger).Log("msg", "Registry poll failed", "role", role, "err", err)
		return true
	}

	current := make(map[string]domain.ServiceRecord, len(records))
	for _, rec := range records {
		current[rec.InstanceID] = rec
	}

	var delta []domain.RegistryEvent
	for _, rec := range records {
		if _, ok := known[rec.InstanceID]; !ok {
			delta = append(delta, domain.RegistryEvent{Type: domain.RegistryEventRegister, Record: rec})
		}
	}
	for id, rec := range known {
		if _, ok := current[id]; !ok {
			delta = append(delta, domain.RegistryEvent{Type: domain.RegistryEventUnregister, Record: rec})
		}
	}

	for _, ev := range delta {
		select {
		case <-ctx.Done():
			return false
		case events <- ev:
		}
		// known follows what was actually delivered, so unregister never precedes register.
		if ev.Type == domain.RegistryEventRegister {
			known[ev.Record.InstanceID] = ev.Record
		} else {
			delete(known, ev.Record.InstanceID)
		}
		r.metrics.watchEvent(role, ev.Type)
	}
	return true
}
