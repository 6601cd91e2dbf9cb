package session

import (
	"math"
	"time"
)

// StalenessThreshold is the cutoff beyond which an unfinished session is
// treated as abandoned.
const StalenessThreshold = 24 * time.Hour

// GateDecision is the outcome of the restoration check at mount.
type GateDecision string

const (
	// DecisionNone: fresh or completed session, nothing to offer.
	DecisionNone GateDecision = "none"
	// DecisionPrompt: an unfinished, still-fresh session exists; offer
	// resume-or-restart.
	DecisionPrompt GateDecision = "prompt"
	// DecisionExpired: an unfinished session exists but is stale; the
	// caller should auto-reset.
	DecisionExpired GateDecision = "expired"
)

// ResumeSummary is shown in the welcome-back prompt.
type ResumeSummary struct {
	SessionID       string `json:"session_id"`
	CurrentIndex    int    `json:"current_index"`
	TotalQuestions  int    `json:"total_questions"`
	AnsweredCount   int    `json:"answered_count"`
	ProgressPercent int    `json:"progress_percent"`
	DurationMinutes int    `json:"duration_minutes"`
	Paused          bool   `json:"paused"`
}

type GateResult struct {
	Decision GateDecision   `json:"decision"`
	Summary  *ResumeSummary `json:"summary,omitempty"`
}

// CheckUnfinishedSession decides whether a restored session should prompt
// the candidate to resume. It runs once per mount and never mutates the
// session.
func CheckUnfinishedSession(s *Session, now time.Time) GateResult {
	if s == nil {
		return GateResult{Decision: DecisionNone}
	}

	unfinished := len(s.Questions) > 0 &&
		!s.Completed &&
		s.ResumeText != "" &&
		s.ID != "" &&
		s.CurrentIndex < len(s.Questions)
	if !unfinished {
		return GateResult{Decision: DecisionNone}
	}

	if s.LastActivityAt.IsZero() || now.Sub(s.LastActivityAt) >= StalenessThreshold {
		return GateResult{Decision: DecisionExpired}
	}

	total := len(s.Questions)
	return GateResult{
		Decision: DecisionPrompt,
		Summary: &ResumeSummary{
			SessionID:       s.ID,
			CurrentIndex:    s.CurrentIndex,
			TotalQuestions:  total,
			AnsweredCount:   len(s.Answers),
			ProgressPercent: int(math.Round(float64(s.CurrentIndex) / float64(total) * 100)),
			DurationMinutes: int(now.Sub(s.StartedAt).Minutes()),
			Paused:          s.Paused,
		},
	}
}
