package application

import (
	"time"

	"github.com/sglre6355/mediabot/internal/modules/greeting/domain"
)

// LatencySource reports the gateway heartbeat latency. *discordgo.Session
// satisfies it.
type LatencySource interface {
	HeartbeatLatency() time.Duration
}

// PingInteractor builds health reports for /ping.
type PingInteractor struct {
	source  LatencySource
	started time.Time
	now     func() time.Time
}

// NewPingInteractor creates a new PingInteractor. Uptime is measured from
// started.
func NewPingInteractor(source LatencySource, started time.Time) *PingInteractor {
	return &PingInteractor{
		source:  source,
		started: started,
		now:     time.Now,
	}
}

// Execute reads the current latency and returns the report.
func (p *PingInteractor) Execute() *domain.HealthReport {
	return domain.NewHealthReport(p.source.HeartbeatLatency(), p.now().Sub(p.started))
}
