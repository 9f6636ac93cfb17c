// metrics.go: invocation counters for operational visibility
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

// InvocationMetrics tracks plugin invocation outcomes with atomic
// counters. All methods are safe for concurrent use.
type InvocationMetrics struct {
	total            atomic.Int64
	failures         atomic.Int64
	safetyViolations atomic.Int64
	panicsTrapped    atomic.Int64
	totalDuration    atomic.Int64 // nanoseconds, successful calls only
	lastInvocation   atomic.Int64 // unix nanoseconds
}

// InvocationMetricsSnapshot is a point-in-time copy of the counters.
type InvocationMetricsSnapshot struct {
	Total            int64         `json:"total"`
	Failures         int64         `json:"failures"`
	SafetyViolations int64         `json:"safety_violations"`
	PanicsTrapped    int64         `json:"panics_trapped"`
	TotalDuration    time.Duration `json:"total_duration"`
	LastInvocation   time.Time     `json:"last_invocation"`
}

// NewInvocationMetrics creates a zeroed metrics collector.
func NewInvocationMetrics() *InvocationMetrics {
	return &InvocationMetrics{}
}

func (m *InvocationMetrics) recordSuccess(d time.Duration) {
	m.total.Add(1)
	m.totalDuration.Add(int64(d))
	m.lastInvocation.Store(timecache.CachedTimeNano())
}

func (m *InvocationMetrics) recordFailure() {
	m.total.Add(1)
	m.failures.Add(1)
	m.lastInvocation.Store(timecache.CachedTimeNano())
}

func (m *InvocationMetrics) recordSafetyViolation() {
	m.safetyViolations.Add(1)
}

func (m *InvocationMetrics) recordPanic() {
	m.total.Add(1)
	m.failures.Add(1)
	m.panicsTrapped.Add(1)
	m.lastInvocation.Store(timecache.CachedTimeNano())
}

// Snapshot returns a consistent-enough copy of the counters for reporting.
func (m *InvocationMetrics) Snapshot() InvocationMetricsSnapshot {
	snap := InvocationMetricsSnapshot{
		Total:            m.total.Load(),
		Failures:         m.failures.Load(),
		SafetyViolations: m.safetyViolations.Load(),
		PanicsTrapped:    m.panicsTrapped.Load(),
		TotalDuration:    time.Duration(m.totalDuration.Load()),
	}
	if nanos := m.lastInvocation.Load(); nanos != 0 {
		snap.LastInvocation = time.Unix(0, nanos)
	}
	return snap
}
