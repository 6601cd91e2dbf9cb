package session

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sakshamjn/intervue/pkg/model"
)

// SchemaVersion is bumped whenever the snapshot layout changes.
const SchemaVersion = 1

// Session is one candidate's interview attempt. All mutations go through
// the methods below; each one refreshes LastActivityAt, which the
// restoration gate uses for its staleness check.
type Session struct {
	SchemaVersion  int              `json:"schema_version"`
	ID             string           `json:"session_id"`
	CandidateID    uuid.UUID        `json:"candidate_id"`
	ResumeText     string           `json:"resume_text"`
	StartedAt      time.Time        `json:"started_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	Questions      []model.Question `json:"questions"`
	CurrentIndex   int              `json:"current_index"`
	Answers        []model.Answer   `json:"answers"`
	Completed      bool             `json:"completed"`
	Paused         bool             `json:"paused"`

	// PausedRemainingSeconds holds the frozen timer value while Paused.
	PausedRemainingSeconds *int    `json:"paused_remaining_seconds"`
	FinalScore             *int    `json:"final_score"`
	SummaryText            *string `json:"summary_text"`
}

// New creates a fresh session for the given question set.
func New(candidateID uuid.UUID, resumeText string, questions []model.Question, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question set", ErrInvalidInput)
	}
	return &Session{
		SchemaVersion:  SchemaVersion,
		ID:             uuid.New().String(),
		CandidateID:    candidateID,
		ResumeText:     resumeText,
		StartedAt:      now,
		LastActivityAt: now,
		Questions:      questions,
		CurrentIndex:   0,
		Answers:        []model.Answer{},
	}, nil
}

// CurrentQuestion returns the question the candidate is answering.
func (s *Session) CurrentQuestion() (model.Question, bool) {
	if s.Completed || s.CurrentIndex >= len(s.Questions) {
		return model.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// RecordAnswer appends the answer and advances the index. When the last
// question is answered the session transitions to completed and the final
// score is computed, exactly once, as the rounded mean of answer scores.
func (s *Session) RecordAnswer(a model.Answer, now time.Time) error {
	if s.Completed {
		return ErrOutOfSequence
	}
	s.Answers = append(s.Answers, a)
	s.CurrentIndex++
	s.LastActivityAt = now
	s.Paused = false
	s.PausedRemainingSeconds = nil

	if s.CurrentIndex >= len(s.Questions) {
		s.Completed = true
		score := meanScore(s.Answers)
		s.FinalScore = &score
	}
	return nil
}

// Pause freezes the session with the given remaining-time value.
func (s *Session) Pause(remainingSeconds int, now time.Time) {
	s.Paused = true
	s.PausedRemainingSeconds = &remainingSeconds
	s.LastActivityAt = now
}

// Resume clears the pause flag and hands back the frozen remaining time.
// Returns -1 when no frozen value exists (resume from a non-paused
// snapshot restarts the current question at full duration).
func (s *Session) Resume(now time.Time) int {
	s.Paused = false
	s.LastActivityAt = now
	if s.PausedRemainingSeconds == nil {
		return -1
	}
	remaining := *s.PausedRemainingSeconds
	s.PausedRemainingSeconds = nil
	return remaining
}

// SetSummary records the AI-generated summary text.
func (s *Session) SetSummary(text string, now time.Time) {
	s.SummaryText = &text
	s.LastActivityAt = now
}

// Validate checks the invariants every at-rest session must satisfy.
func (s *Session) Validate() error {
	if s.CurrentIndex > len(s.Questions) {
		return fmt.Errorf("%w: index %d beyond %d questions", ErrCorruptSession, s.CurrentIndex, len(s.Questions))
	}
	if len(s.Answers) != s.CurrentIndex {
		return fmt.Errorf("%w: %d answers at index %d", ErrCorruptSession, len(s.Answers), s.CurrentIndex)
	}
	if s.Completed != (s.CurrentIndex >= len(s.Questions)) {
		return fmt.Errorf("%w: completed flag disagrees with index", ErrCorruptSession)
	}
	return nil
}

// Snapshot serializes the session for durable storage.
func (s *Session) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// Restore decodes a previously serialized snapshot and re-checks its
// invariants. On ErrCorruptSession the caller must discard the snapshot.
func Restore(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if s.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d", ErrCorruptSession, s.SchemaVersion)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = []model.Answer{}
	}
	return &s, nil
}

func meanScore(answers []model.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return int(math.Round(float64(total) / float64(len(answers))))
}
