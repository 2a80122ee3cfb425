// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for pool monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-mempool/api"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Publish records the stats of p under name.*. The pool owner calls it;
// the registry only ever sees copied values.
func (mr *MetricsRegistry) Publish(name string, p api.RecordPool) {
	s := p.Stats()
	mr.mu.Lock()
	mr.metrics[name+".member_size"] = int64(s.MemberSize)
	mr.metrics[name+".allocated"] = s.Allocated
	mr.metrics[name+".used"] = s.Used
	mr.metrics[name+".count"] = s.Count
	mr.metrics[name+".grows"] = s.Grows
	mr.metrics[name+".shrinks"] = s.Shrinks
	mr.metrics[name+".alloc_failures"] = s.AllocFailures
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated returns when a metric last changed.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
