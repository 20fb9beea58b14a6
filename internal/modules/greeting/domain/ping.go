package domain

import (
	"fmt"
	"time"
)

// SlowLatency is the gateway latency above which the bot reports itself
// as lagging.
const SlowLatency = 500 * time.Millisecond

// HealthReport is what /ping tells the user about the running bot.
type HealthReport struct {
	Latency time.Duration // gateway heartbeat round trip, 0 when unknown
	Uptime  time.Duration
}

// NewHealthReport creates a HealthReport. A non-positive latency means no
// heartbeat has been acknowledged yet.
func NewHealthReport(latency, uptime time.Duration) *HealthReport {
	return &HealthReport{
		Latency: max(latency, 0),
		Uptime:  max(uptime, 0).Truncate(time.Second),
	}
}

// IsSlow reports whether the gateway latency is above SlowLatency.
func (r *HealthReport) IsSlow() bool {
	return r.Latency > SlowLatency
}

// Message renders the report as a reply.
func (r *HealthReport) Message() string {
	latency := "not measured yet"
	if r.Latency > 0 {
		latency = fmt.Sprintf("%d ms", r.Latency.Milliseconds())
	}

	msg := fmt.Sprintf("Pong! Gateway latency: %s. Uptime: %s.", latency, r.Uptime)
	if r.IsSlow() {
		msg += " Discord is responding slowly right now."
	}
	return msg
}
