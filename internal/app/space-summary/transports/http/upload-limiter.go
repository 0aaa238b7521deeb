package space_summary_http_handler

import (
	"time"

	"github.com/init-pkg/space-summary/internal/config"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const minLimiterIdle = time.Minute

// UploadLimiter throttles uploads per client IP. A client's limiter is evicted after it
// has been idle for at least the time its burst takes to refill.
type UploadLimiter struct {
	clients *gocache.Cache
	rate    rate.Limit
	burst   int
}

// NewUploadLimiter returns nil when ratePerSecond <= 0; a nil limiter allows everything.
func NewUploadLimiter(ratePerSecond float64, burst int) *UploadLimiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	idle := time.Duration(float64(burst) / ratePerSecond * float64(time.Second))
	if idle < minLimiterIdle {
		idle = minLimiterIdle
	}
	return newUploadLimiter(rate.Limit(ratePerSecond), burst, idle)
}

func newUploadLimiter(r rate.Limit, burst int, idle time.Duration) *UploadLimiter {
	return &UploadLimiter{
		clients: gocache.New(idle, idle),
		rate:    r,
		burst:   burst,
	}
}

func NewUploadLimiterFromConfig(cfg *config.Config) *UploadLimiter {
	return NewUploadLimiter(cfg.Upload.RatePerSecond, cfg.Upload.Burst)
}

func (l *UploadLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	return l.get(client).Allow()
}

func (l *UploadLimiter) get(client string) *rate.Limiter {
	if v, ok := l.clients.Get(client); ok {
		limiter := v.(*rate.Limiter)
		l.clients.SetDefault(client, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.rate, l.burst)
	if err := l.clients.Add(client, limiter, gocache.DefaultExpiration); err != nil {
		// lost the race to another request from the same client
		if v, ok := l.clients.Get(client); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// Clients reports how many client limiters are currently tracked.
func (l *UploadLimiter) Clients() int {
	if l == nil {
		return 0
	}
	return l.clients.ItemCount()
}
