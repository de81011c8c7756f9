package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// UnknownClientKey is the sentinel identity used when the transport cannot
// supply a client key.
const UnknownClientKey = "unknown"

// Decision is the outcome of a rate limit check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool `json:"allowed"`

	// Exempt is set when the request bypassed rate limiting (exempt path
	// or limiter disabled). No quota fields are populated and no state
	// was touched.
	Exempt bool `json:"exempt"`

	// Limit is the configured number of calls per window.
	Limit int `json:"limit"`

	// Remaining is the number of calls left in the current window.
	Remaining int `json:"remaining"`

	// Reset is when the current window ends.
	Reset time.Time `json:"reset"`

	// RetryAfter is how long a rejected client should wait. Zero on admit.
	RetryAfter time.Duration `json:"retryAfter"`
}

// Stats provides counters about limiter activity.
type Stats struct {
	TotalRequests   int64 `json:"totalRequests"`
	BlockedRequests int64 `json:"blockedRequests"`
	ActiveClients   int   `json:"activeClients"`
}

// clientWindow tracks a single client's quota state within the current
// fixed window.
type clientWindow struct {
	count       int
	windowStart time.Time
}

// Limiter is an in-process fixed-window rate limiter. Counters reset at
// fixed intervals rather than sliding continuously, so a burst straddling a
// window boundary can observe up to 2x the nominal rate. That trade buys
// O(1) memory per client and O(1) work per check, which is what we want on
// the request hot path.
//
// State is process-local and lost on restart.
type Limiter struct {
	config *Config
	exempt map[string]struct{}

	mu      sync.Mutex
	clients map[string]*clientWindow

	totalRequests   int64
	blockedRequests int64

	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a limiter from the given config. A nil config uses defaults.
// The background purge sweep starts when Start is called.
func New(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	return &Limiter{
		config:   config,
		exempt:   config.exemptSet(),
		clients:  make(map[string]*clientWindow),
		stopChan: make(chan struct{}),
	}
}

// Check decides whether a request from clientKey to path at time now should
// be admitted. It is a total function: it never fails, it only decides.
// Exempt paths are admitted without touching any state.
//
// Concurrent calls for the same client serialize on the limiter mutex, so
// counts are never lost.
func (l *Limiter) Check(clientKey, path string, now time.Time) Decision {
	if !l.config.Enabled {
		return Decision{Allowed: true, Exempt: true}
	}

	if _, ok := l.exempt[path]; ok {
		return Decision{Allowed: true, Exempt: true}
	}

	if clientKey == "" {
		clientKey = UnknownClientKey
	}

	atomic.AddInt64(&l.totalRequests, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, exists := l.clients[clientKey]
	if !exists {
		cw = &clientWindow{windowStart: now}
		l.clients[clientKey] = cw
	}

	// Fixed-window reset: start a fresh window once the old one has aged out.
	if now.Sub(cw.windowStart) >= l.config.Window {
		cw.count = 0
		cw.windowStart = now
	}

	reset := cw.windowStart.Add(l.config.Window)

	if cw.count >= l.config.MaxCalls {
		retryAfter := reset.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}

		atomic.AddInt64(&l.blockedRequests, 1)

		return Decision{
			Allowed:    false,
			Limit:      l.config.MaxCalls,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: retryAfter,
		}
	}

	cw.count++

	return Decision{
		Allowed:   true,
		Limit:     l.config.MaxCalls,
		Remaining: l.config.MaxCalls - cw.count,
		Reset:     reset,
	}
}

// Purge removes client windows that aged out before now and would be reset
// on their next access anyway. It returns the number of evicted entries.
// Bounds memory when client identities churn.
func (l *Limiter) Purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, cw := range l.clients {
		if now.Sub(cw.windowStart) >= l.config.Window {
			delete(l.clients, key)
			evicted++
		}
	}

	return evicted
}

// Start launches the background purge sweep. It returns immediately.
func (l *Limiter) Start() {
	go l.purgeLoop()
}

// Stop terminates the background purge sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

func (l *Limiter) purgeLoop() {
	ticker := time.NewTicker(l.config.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Purge(time.Now())
		case <-l.stopChan:
			return
		}
	}
}

// Config returns the limiter's policy. The returned config must not be
// mutated.
func (l *Limiter) Config() *Config {
	return l.config
}

// Stats returns current limiter counters.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	active := len(l.clients)
	l.mu.Unlock()

	return Stats{
		TotalRequests:   atomic.LoadInt64(&l.totalRequests),
		BlockedRequests: atomic.LoadInt64(&l.blockedRequests),
		ActiveClients:   active,
	}
}
