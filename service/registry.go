package service

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

const (
	// DefaultRegistryTTL is the liveness TTL of a registry record.
	DefaultRegistryTTL = 10 * time.Second
	// DefaultRegistryRefresh is the heartbeat interval that re-writes a record before its TTL lapses.
	DefaultRegistryRefresh = 5 * time.Second
	// defaultRecordHost is reported for records registered without a host.
	defaultRecordHost = "localhost"
)

// registry implements interfaces.Registry on top of a TTL cache. Records are stored under
// "{role}:{instanceId}". Each record registered by this process has its own heartbeat goroutine.
type registry struct {
	cache    interfaces.Cache[domain.ServiceRecord]
	host     string
	ttl      time.Duration
	refresh  time.Duration
	newID    func() string
	freePort func() (int, error)
	logger   log.Logger
	metrics  *Metrics

	mu    sync.Mutex
	owned map[string]*heartbeat
}

// heartbeat is the refresh goroutine of one owned record.
type heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// RegistryOption configures the registry.
type RegistryOption func(*registry)

// WithRegistryTTL overrides the record TTL and the heartbeat interval.
func WithRegistryTTL(ttl, refresh time.Duration) RegistryOption {
	return func(r *registry) {
		r.ttl = ttl
		r.refresh = refresh
	}
}

// WithRegistryMetrics records watcher events.
func WithRegistryMetrics(m *Metrics) RegistryOption {
	return func(r *registry) {
		r.metrics = m
	}
}

// NewRegistry creates the service registry. Panics on nil cache or logger.
//
// Parameters: cache holds the service records; host is the address other processes use to reach the
// instances registered by this process, empty means localhost; options set the TTL, the heartbeat period and metrics.
//
// Returns: *registry, which implements interfaces.Registry.
//
// Called from every cmd main.
func NewRegistry(cache interfaces.Cache[domain.ServiceRecord], host string, logger log.Logger, options ...RegistryOption) *registry {
	r := &registry{
		cache:    helpers.NilPanic(cache, "service.registry.go: cache is required"),
		host:     host,
		ttl:      DefaultRegistryTTL,
		refresh:  DefaultRegistryRefresh,
		newID:    func() string { return uuid.New().String() },
		freePort: FreePort,
		logger:   log.With(helpers.NilPanic(logger, "service.registry.go: logger is required"), "component", "registry"),
		owned:    make(map[string]*heartbeat),
	}
	if r.host == "" {
		r.host = defaultRecordHost
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Register writes a record for role and keeps it alive until Unregister. A zero port picks a free
// ephemeral port; the caller listens on the returned record's port.
func (r *registry) Register(ctx context.Context, role domain.Role, port int) (domain.ServiceRecord, error) {
	if port == 0 {
		p, err := r.freePort()
		if err != nil {
			return domain.ServiceRecord{}, NewInternalServerError("Can't pick a free port", err)
		}
		port = p
	}

	record := domain.ServiceRecord{
		Role:       role,
		InstanceID: r.newID(),
		Host:       r.host,
		Port:       port,
	}
	if err := r.cache.WriteValue(ctx, recordKey(record), record, r.ttl); err != nil {
		return domain.ServiceRecord{}, fmt.Errorf("register %s failed to write record, err: %w", role, err)
	}

	hbCtx, cancel := context.WithCancel(context.Background())
	hb := &heartbeat{cancel: cancel, done: make(chan struct{})}
	r.mu.Lock()
	r.owned[recordKey(record)] = hb
	r.mu.Unlock()
	go r.refreshLoop(hbCtx, record, hb.done)

	level.Info(r.logger).Log("msg", "Registered", "role", role, "instance_id", record.InstanceID, "port", port)
	return record, nil
}

// refreshLoop re-writes record every refresh interval. A failed write is logged; the next tick retries
// while the TTL has not lapsed.
func (r *registry) refreshLoop(ctx context.Context, record domain.ServiceRecord, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.cache.WriteValue(ctx, recordKey(record), record, r.ttl); err != nil && ctx.Err() == nil {
				level.Warn(r.logger).Log("msg", "Registry heartbeat failed", "role", record.Role, "instance_id", record.InstanceID, "err", err)
			}
		}
	}
}

// Unregister stops the heartbeat of record and deletes it. Idempotent.
func (r *registry) Unregister(ctx context.Context, record domain.ServiceRecord) error {
	key := recordKey(record)
	r.mu.Lock()
	hb, ok := r.owned[key]
	delete(r.owned, key)
	r.mu.Unlock()
	if ok {
		hb.cancel()
		// A refresh in flight must not resurrect the record after the delete.
		<-hb.done
	}

	if err := r.cache.DeleteValue(ctx, key); err != nil {
		return fmt.Errorf("unregister %s failed to delete record, err: %w", record.Role, err)
	}
	level.Info(r.logger).Log("msg", "Unregistered", "role", record.Role, "instance_id", record.InstanceID)
	return nil
}

// Get returns the live records of role sorted by instance id.
func (r *registry) Get(ctx context.Context, role domain.Role) ([]domain.ServiceRecord, error) {
	records, err := r.cache.ListValues(ctx, string(role)+":")
	if err != nil {
		return nil, fmt.Errorf("get %s failed to list records, err: %w", role, err)
	}
	for i := range records {
		if records[i].Host == "" {
			records[i].Host = defaultRecordHost
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].InstanceID < records[j].InstanceID })
	return records, nil
}

func recordKey(record domain.ServiceRecord) string {
	return string(record.Role) + ":" + record.InstanceID
}

// FreePort asks the OS for an unused TCP port.
func FreePort() (int, error) {
	lis, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer lis.Close()
	return lis.Addr().(*net.TCPAddr).Port, nil
}
