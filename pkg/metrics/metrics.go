// Package metrics tracks query counters for the plugin. The handler records
// one observation per executed query.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of the collected metrics.
type Snapshot struct {
	QueryCount       uint64
	ErrorCount       uint64
	TotalQueryTime   time.Duration
	AverageQueryTime time.Duration
	LastQueryAt      time.Time
}

var (
	mu      sync.Mutex
	current Snapshot
)

// RecordQuery records one completed query.
func RecordQuery(duration time.Duration, err error) {
	mu.Lock()
	defer mu.Unlock()

	current.QueryCount++
	if err != nil {
		current.ErrorCount++
	}
	current.TotalQueryTime += duration
	current.AverageQueryTime = current.TotalQueryTime / time.Duration(current.QueryCount)
	current.LastQueryAt = time.Now()
}

// Get returns the current metrics snapshot.
func Get() Snapshot {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Reset clears all counters. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Snapshot{}
}
