package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sakshamjn/intervue/internal/session"
	"github.com/sakshamjn/intervue/pkg/model"
)

// View is the read-only session state handed to HTTP callers.
type View struct {
	SessionID        string           `json:"session_id"`
	CandidateID      uuid.UUID        `json:"candidate_id"`
	StartedAt        time.Time        `json:"started_at"`
	Questions        []model.Question `json:"questions"`
	CurrentIndex     int              `json:"current_index"`
	Answers          []model.Answer   `json:"answers"`
	Completed        bool             `json:"completed"`
	Paused           bool             `json:"paused"`
	RemainingSeconds int              `json:"remaining_seconds"`
	TimerState       string           `json:"timer_state"`
	FinalScore       *int             `json:"final_score,omitempty"`
	SummaryText      *string          `json:"summary_text,omitempty"`
}

func makeView(sess *session.Session, timer *session.Timer) *View {
	v := &View{
		SessionID:    sess.ID,
		CandidateID:  sess.CandidateID,
		StartedAt:    sess.StartedAt,
		Questions:    sess.Questions,
		CurrentIndex: sess.CurrentIndex,
		Answers:      sess.Answers,
		Completed:    sess.Completed,
		Paused:       sess.Paused,
		FinalScore:   sess.FinalScore,
		SummaryText:  sess.SummaryText,
	}
	if timer != nil {
		v.RemainingSeconds = timer.Remaining()
		v.TimerState = timer.State().String()
	} else {
		v.TimerState = session.TimerIdle.String()
		if sess.PausedRemainingSeconds != nil {
			v.RemainingSeconds = *sess.PausedRemainingSeconds
		}
	}
	return v
}

// viewLocked builds a View for a live session, taking the lock itself.
func (s *Service) viewLocked(sessionID string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.active[sessionID]
	if !ok {
		return nil
	}
	return makeView(as.sess, as.timer)
}

// Get returns the live view, falling back to the persisted snapshot for
// sessions that are not currently active.
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	if v := s.viewLocked(sessionID); v != nil {
		return v, nil
	}

	snap, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrCorruptSession) {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}
	return makeView(snap, nil), nil
}
