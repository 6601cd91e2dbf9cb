package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sakshamjn/intervue/internal/cache"
	"github.com/sakshamjn/intervue/internal/groq"
	"github.com/sakshamjn/intervue/internal/session"
	"github.com/sakshamjn/intervue/pkg/model"
	"go.uber.org/zap"
)

// NoAnswerSentinel is stored when a question expires with an empty answer.
const NoAnswerSentinel = "No Answer"

// AI is the question-generation, scoring and summary collaborator.
type AI interface {
	GenerateQuestions(ctx context.Context, resumeText string) ([]model.Question, error)
	EvaluateAnswer(ctx context.Context, q model.Question, answerText, resumeContext string) (*groq.Evaluation, error)
	Summarize(ctx context.Context, answers []model.Answer) (string, error)
}

// CandidateStore is the external candidate record store.
type CandidateStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Candidate, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.CandidateStatus) error
	// UpsertResult is update-if-exists-else-create, keyed by email.
	UpsertResult(ctx context.Context, cand model.Candidate, result model.CandidateResult) error
	// MostRecentUnfinished is the compatibility fallback used when a
	// restored session lost its candidate id.
	MostRecentUnfinished(ctx context.Context) (model.Candidate, error)
}

// SnapshotStore persists session snapshots across reloads. Lookups that
// match no snapshot return cache.ErrNoSession; anything else is a store
// failure.
type SnapshotStore interface {
	Save(ctx context.Context, s *session.Session) error
	Load(ctx context.Context, sessionID string) (*session.Session, error)
	LoadLatest(ctx context.Context, candidateID uuid.UUID) (*session.Session, error)
	Delete(ctx context.Context, sessionID string, candidateID uuid.UUID) error
}

type activeSession struct {
	sess     *session.Session
	timer    *session.Timer
	inFlight bool
}

// Service owns the submit path and the single tick source. It is the only
// writer of session state besides the restoration gate's reset.
type Service struct {
	logger       *zap.Logger
	ai           AI
	candidates   CandidateStore
	snapshots    SnapshotStore
	scoreTimeout time.Duration
	now          func() time.Time

	mu     sync.Mutex
	active map[string]*activeSession
}

func NewService(logger *zap.Logger, ai AI, candidates CandidateStore, snapshots SnapshotStore, scoreTimeout time.Duration) *Service {
	return &Service{
		logger:       logger,
		ai:           ai,
		candidates:   candidates,
		snapshots:    snapshots,
		scoreTimeout: scoreTimeout,
		now:          time.Now,
		active:       make(map[string]*activeSession),
	}
}

// Start generates questions for the resume and opens a live session.
func (s *Service) Start(ctx context.Context, candidateID uuid.UUID, resumeText string) (*View, error) {
	questions, err := s.ai.GenerateQuestions(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: generate questions: %v", ErrService, err)
	}

	sess, err := session.New(candidateID, resumeText, questions, s.now())
	if err != nil {
		return nil, err
	}

	timer := session.NewTimer()
	q, _ := sess.CurrentQuestion()
	timer.Start(q.TimeLimitSeconds)

	s.mu.Lock()
	s.active[sess.ID] = &activeSession{sess: sess, timer: timer}
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, sess); err != nil {
		s.logger.Sugar().Errorw("failed to persist session snapshot", "session_id", sess.ID, "err", err)
	}
	if err := s.candidates.SetStatus(ctx, candidateID, model.StatusInProgress); err != nil {
		s.logger.Sugar().Warnw("failed to mark candidate in-progress", "candidate_id", candidateID, "err", err)
	}

	return s.viewLocked(sess.ID), nil
}

// SubmitResult is what the submit path hands back to the caller.
type SubmitResult struct {
	Answer           model.Answer `json:"answer"`
	Completed        bool         `json:"completed"`
	FinalScore       *int         `json:"final_score,omitempty"`
	SummaryText      *string      `json:"summary_text,omitempty"`
	CurrentIndex     int          `json:"current_index"`
	RemainingSeconds int          `json:"remaining_seconds"`
}

// Submit finalizes the current question's answer. At most one submission
// is in flight per session; a scorer failure leaves session state
// untouched so the caller can retry.
func (s *Service) Submit(ctx context.Context, sessionID, answerText string) (*SubmitResult, error) {
	s.mu.Lock()
	as, ok := s.active[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if as.sess.Completed {
		s.mu.Unlock()
		return nil, session.ErrOutOfSequence
	}
	if as.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	as.inFlight = true
	q, _ := as.sess.CurrentQuestion()
	resumeText := as.sess.ResumeText
	s.mu.Unlock()

	text := strings.TrimSpace(answerText)
	if text == "" {
		text = NoAnswerSentinel
	}

	scoreCtx, cancel := context.WithTimeout(ctx, s.scoreTimeout)
	ev, err := s.ai.EvaluateAnswer(scoreCtx, q, text, resumeText)
	cancel()
	if err != nil {
		s.mu.Lock()
		as.inFlight = false
		s.mu.Unlock()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(scoreCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: evaluate answer: %v", ErrServiceTimeout, err)
		}
		return nil, fmt.Errorf("%w: evaluate answer: %v", ErrService, err)
	}

	answer := model.Answer{
		QuestionText: q.Text,
		AnswerText:   text,
		Difficulty:   q.Difficulty,
		Score:        ev.Score,
		Feedback:     ev.Feedback,
	}

	s.mu.Lock()
	as.inFlight = false

	if err := as.sess.RecordAnswer(answer, s.now()); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	sess := as.sess
	completed := sess.Completed
	if completed {
		as.timer.Reset()
		delete(s.active, sessionID)
	} else {
		// Next question always starts at full duration, never at
		// leftover time.
		next, _ := sess.CurrentQuestion()
		as.timer.Start(next.TimeLimitSeconds)
	}
	remaining := as.timer.Remaining()
	s.mu.Unlock()

	if completed {
		s.finish(ctx, sess)
	}

	if err := s.snapshots.Save(ctx, sess); err != nil {
		s.logger.Sugar().Errorw("failed to persist session snapshot", "session_id", sessionID, "err", err)
	}

	return &SubmitResult{
		Answer:           answer,
		Completed:        completed,
		FinalScore:       sess.FinalScore,
		SummaryText:      sess.SummaryText,
		CurrentIndex:     sess.CurrentIndex,
		RemainingSeconds: remaining,
	}, nil
}

// finish runs the completion path: summary generation and the push to
// the candidate record store. Both are best-effort; the recorded answers
// and final score are already durable.
func (s *Service) finish(ctx context.Context, sess *session.Session) {
	summary, err := s.ai.Summarize(ctx, sess.Answers)
	if err != nil {
		s.logger.Sugar().Errorw("summary generation failed", "session_id", sess.ID, "err", err)
		summary = ""
	}
	sess.SetSummary(summary, s.now())

	cand, err := s.candidates.GetByID(ctx, sess.CandidateID)
	if err != nil {
		// Compatibility shim for snapshots that lost their candidate id.
		cand, err = s.candidates.MostRecentUnfinished(ctx)
		if err != nil {
			s.logger.Sugar().Errorw("no candidate to attribute finished session", "session_id", sess.ID, "err", err)
			return
		}
		s.logger.Sugar().Warnw("attributed session via fallback candidate match",
			"session_id", sess.ID, "candidate_id", cand.ID)
	}

	result := model.CandidateResult{
		Score:       *sess.FinalScore,
		SummaryText: summary,
		Answers:     sess.Answers,
	}
	if err := s.candidates.UpsertResult(ctx, cand, result); err != nil {
		s.logger.Sugar().Errorw("failed to push result to candidate store",
			"session_id", sess.ID, "candidate_id", cand.ID, "err", err)
	}
}

// Pause freezes the current question's countdown. An in-flight submission
// is not cancelled.
func (s *Service) Pause(ctx context.Context, sessionID string) (*View, error) {
	s.mu.Lock()
	as, ok := s.active[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if remaining, paused := as.timer.Pause(); paused {
		as.sess.Pause(remaining, s.now())
	}
	sess := as.sess
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, sess); err != nil {
		s.logger.Sugar().Errorw("failed to persist session snapshot", "session_id", sessionID, "err", err)
	}
	return s.viewLocked(sessionID), nil
}

// Resume continues the countdown from the frozen value.
func (s *Service) Resume(ctx context.Context, sessionID string) (*View, error) {
	s.mu.Lock()
	as, ok := s.active[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if as.timer.Resume() {
		as.sess.Resume(s.now())
	}
	sess := as.sess
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, sess); err != nil {
		s.logger.Sugar().Errorw("failed to persist session snapshot", "session_id", sessionID, "err", err)
	}
	return s.viewLocked(sessionID), nil
}

// Check runs the restoration gate against the candidate's latest
// snapshot. Stale and corrupt snapshots are discarded here; a store
// failure is surfaced rather than reported as "none".
func (s *Service) Check(ctx context.Context, candidateID uuid.UUID) (session.GateResult, error) {
	snap, err := s.snapshots.LoadLatest(ctx, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, cache.ErrNoSession):
			return session.GateResult{Decision: session.DecisionNone}, nil
		case errors.Is(err, session.ErrCorruptSession):
			s.logger.Sugar().Warnw("discarding corrupt session snapshot", "candidate_id", candidateID, "err", err)
			_ = s.snapshots.Delete(ctx, "", candidateID)
			return session.GateResult{Decision: session.DecisionNone}, nil
		default:
			s.logger.Sugar().Errorw("failed to load latest snapshot", "candidate_id", candidateID, "err", err)
			return session.GateResult{}, fmt.Errorf("load latest snapshot: %w", err)
		}
	}

	result := session.CheckUnfinishedSession(snap, s.now())
	if result.Decision == session.DecisionExpired {
		if err := s.snapshots.Delete(ctx, snap.ID, candidateID); err != nil {
			s.logger.Sugar().Errorw("failed to discard stale session", "session_id", snap.ID, "err", err)
		}
	}
	return result, nil
}

// RestoreSession brings a prompted snapshot back into the live set. A
// paused snapshot resumes at its frozen remaining time; otherwise the
// current question restarts at full duration.
func (s *Service) RestoreSession(ctx context.Context, sessionID string) (*View, error) {
	s.mu.Lock()
	if _, ok := s.active[sessionID]; ok {
		s.mu.Unlock()
		return s.viewLocked(sessionID), nil
	}
	s.mu.Unlock()

	snap, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrCorruptSession) {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}
	if snap.Completed {
		return nil, session.ErrOutOfSequence
	}

	result := session.CheckUnfinishedSession(snap, s.now())
	if result.Decision != session.DecisionPrompt {
		return nil, ErrSessionNotFound
	}

	timer := session.NewTimer()
	remaining := snap.Resume(s.now())
	if remaining >= 0 {
		timer.StartFrom(remaining)
	} else {
		q, _ := snap.CurrentQuestion()
		timer.Start(q.TimeLimitSeconds)
	}

	s.mu.Lock()
	s.active[sessionID] = &activeSession{sess: snap, timer: timer}
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Sugar().Errorw("failed to persist session snapshot", "session_id", sessionID, "err", err)
	}
	return s.viewLocked(sessionID), nil
}

// Reset discards a session entirely, live and persisted.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	as, ok := s.active[sessionID]
	var candidateID uuid.UUID
	if ok {
		candidateID = as.sess.CandidateID
		delete(s.active, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		snap, err := s.snapshots.Load(ctx, sessionID)
		if err != nil {
			return ErrSessionNotFound
		}
		candidateID = snap.CandidateID
	}
	return s.snapshots.Delete(ctx, sessionID, candidateID)
}
