package mealapi

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Monitor polls the meal service and caches its availability so request
// handlers can report status without blocking on a probe.
type Monitor struct {
	checker   healthChecker
	interval  time.Duration
	available atomic.Bool
	started   atomic.Bool
}

func NewMonitor(checker healthChecker, interval time.Duration) *Monitor {
	m := &Monitor{checker: checker, interval: interval}
	// Optimistic until the first probe completes.
	m.available.Store(true)
	return m
}

func (m *Monitor) Available() bool {
	return m.available.Load()
}

// Run polls until the context is cancelled. Safe to call once; later calls
// are no-ops.
func (m *Monitor) Run(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}

	var lastStatus *bool
	check := func() {
		available := m.checker.HealthCheck(ctx)
		m.available.Store(available)

		if lastStatus == nil || available != *lastStatus {
			label := "available"
			if !available {
				label = "unavailable"
			}
			log.Printf("Meal planning API status changed: %s", label)
			lastStatus = &available
		}
	}

	check()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
