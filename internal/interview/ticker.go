package interview

import (
	"context"
	"time"

	"github.com/sakshamjn/intervue/internal/session"
)

// expiryRetrySeconds is the re-arm window after a failed expiry
// auto-submit, so a scorer outage does not strand a session at zero.
const expiryRetrySeconds = 5

// Run drives the single wall-clock tick source: one second per tick for
// every live, unpaused session. It blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick decrements every running timer and auto-submits expired questions
// with the empty-answer sentinel. Expiry submissions run off the tick
// goroutine so a slow scorer never stalls other sessions' countdowns.
func (s *Service) tick(ctx context.Context) {
	var expired []string

	s.mu.Lock()
	for id, as := range s.active {
		if as.sess.Completed || as.inFlight {
			continue
		}
		if _, hit := as.timer.Tick(); hit {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		go func(sessionID string) {
			if _, err := s.Submit(ctx, sessionID, ""); err != nil {
				s.logger.Sugar().Errorw("expiry auto-submit failed, re-arming", "session_id", sessionID, "err", err)
				s.rearmExpiry(sessionID)
			}
		}(id)
	}
}

// rearmExpiry restarts a short countdown after a failed expiry
// auto-submit so the next transition to zero retries it. A session whose
// timer is no longer expired (a racing manual submit advanced it) is
// left alone.
func (s *Service) rearmExpiry(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.active[sessionID]
	if !ok || as.sess.Completed || as.inFlight {
		return
	}
	if as.timer.State() == session.TimerExpired {
		as.timer.StartFrom(expiryRetrySeconds)
	}
}
