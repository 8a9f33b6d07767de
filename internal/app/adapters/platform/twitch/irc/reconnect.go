package irc

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"twitchoverlay/internal/app/adapters/metrics"
	"twitchoverlay/pkg/logger"

	"golang.org/x/time/rate"
)

type ReconnectPolicy struct {
	Delay       time.Duration
	MaxAttempts int // 0 retries forever
	Per         time.Duration
	Burst       int
}

// Reconnector re-invokes EstablishConnection after the session closes.
// Consecutive failures are counted until the next successful connect.
type Reconnector struct {
	log     logger.Logger
	session *Session
	policy  ReconnectPolicy
	limiter *rate.Limiter

	mu       sync.Mutex
	ctx      context.Context
	attempts int
	running  bool
	timer    *time.Timer
	unsubs   []func()
}

func NewReconnector(log logger.Logger, session *Session, policy ReconnectPolicy) *Reconnector {
	if policy.Delay <= 0 {
		policy.Delay = 5 * time.Second
	}

	limit := rate.Inf
	if policy.Per > 0 {
		burst := policy.Burst
		if burst <= 0 {
			burst = 1
		}
		limit = rate.Every(policy.Per / time.Duration(burst))
	}
	if policy.Burst <= 0 {
		policy.Burst = 1
	}

	return &Reconnector{
		log:     log,
		session: session,
		policy:  policy,
		limiter: rate.NewLimiter(limit, policy.Burst),
	}
}

func (r *Reconnector) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.ctx = ctx
	r.unsubs = append(r.unsubs,
		r.session.OnConnected(r.reset),
		r.session.OnClose(r.schedule),
	)
}

// Stop cancels a pending retry and stops reacting to close events.
func (r *Reconnector) Stop() {
	r.mu.Lock()
	r.running = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	unsubs := r.unsubs
	r.unsubs = nil
	r.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (r *Reconnector) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func (r *Reconnector) reset() {
	r.mu.Lock()
	r.attempts = 0
	r.mu.Unlock()
}

func (r *Reconnector) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.ctx.Err() != nil {
		return
	}
	if r.policy.MaxAttempts > 0 && r.attempts >= r.policy.MaxAttempts {
		r.log.Error("Giving up reconnecting to chat", nil, slog.Int("attempts", r.attempts))
		return
	}

	r.attempts++
	wait := r.policy.Delay
	if d := r.limiter.Reserve().Delay(); d > wait {
		wait = d
	}

	r.log.Warn("Chat connection lost, retrying...", slog.Int("attempt", r.attempts), slog.Duration("wait", wait))

	ctx := r.ctx
	r.timer = time.AfterFunc(wait, func() {
		r.mu.Lock()
		running := r.running
		r.timer = nil
		r.mu.Unlock()

		if !running || ctx.Err() != nil {
			return
		}
		metrics.Reconnects.Inc()
		r.session.EstablishConnection(ctx)
	})
}
