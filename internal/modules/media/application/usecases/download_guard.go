package usecases

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

// DownloadGuard allows one download per user at a time and limits how many
// downloads start across the process.
type DownloadGuard struct {
	mu      sync.Mutex
	active  map[snowflake.ID]struct{}
	limiter *rate.Limiter
}

// NewDownloadGuard creates a guard admitting perMinute downloads per minute,
// with bursts of the same size. perMinute <= 0 disables rate limiting.
func NewDownloadGuard(perMinute int) *DownloadGuard {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return &DownloadGuard{
		active:  make(map[snowflake.ID]struct{}),
		limiter: limiter,
	}
}

// Acquire marks a download as active for userID. The returned release must
// be called when the download ends.
func (g *DownloadGuard) Acquire(userID snowflake.ID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[userID]; busy {
		return nil, ErrDownloadInProgress
	}
	if !g.limiter.Allow() {
		return nil, ErrRateLimited
	}
	g.active[userID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, userID)
			g.mu.Unlock()
		})
	}, nil
}

// Active reports whether userID has a download running.
func (g *DownloadGuard) Active(userID snowflake.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.active[userID]
	return ok
}
