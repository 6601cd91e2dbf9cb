package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sakshamjn/intervue/internal/cache"
	"github.com/sakshamjn/intervue/internal/groq"
	"github.com/sakshamjn/intervue/internal/session"
	"github.com/sakshamjn/intervue/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAI struct {
	mu        sync.Mutex
	questions []model.Question
	genErr    error
	score     int
	evalErr   error
	evalBlock chan struct{} // when set, EvaluateAnswer waits for close or ctx
	evalCalls int
	summary   string
	sumErr    error
}

func (f *fakeAI) GenerateQuestions(ctx context.Context, resumeText string) ([]model.Question, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.questions, nil
}

func (f *fakeAI) EvaluateAnswer(ctx context.Context, q model.Question, answerText, resumeContext string) (*groq.Evaluation, error) {
	f.mu.Lock()
	f.evalCalls++
	block := f.evalBlock
	evalErr := f.evalErr
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if evalErr != nil {
		return nil, evalErr
	}
	return &groq.Evaluation{Score: f.score, Feedback: "ok"}, nil
}

func (f *fakeAI) Summarize(ctx context.Context, answers []model.Answer) (string, error) {
	if f.sumErr != nil {
		return "", f.sumErr
	}
	return f.summary, nil
}

type fakeCandidates struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]model.Candidate
	recent     *model.Candidate
	statuses   map[uuid.UUID]model.CandidateStatus
	upserts    []model.CandidateResult
	upsertedTo []uuid.UUID
}

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{
		byID:     make(map[uuid.UUID]model.Candidate),
		statuses: make(map[uuid.UUID]model.CandidateStatus),
	}
}

func (f *fakeCandidates) GetByID(ctx context.Context, id uuid.UUID) (model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return model.Candidate{}, errors.New("not found")
	}
	return c, nil
}

func (f *fakeCandidates) SetStatus(ctx context.Context, id uuid.UUID, status model.CandidateStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeCandidates) UpsertResult(ctx context.Context, cand model.Candidate, result model.CandidateResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, result)
	f.upsertedTo = append(f.upsertedTo, cand.ID)
	return nil
}

func (f *fakeCandidates) MostRecentUnfinished(ctx context.Context) (model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recent == nil {
		return model.Candidate{}, errors.New("no unfinished candidates")
	}
	return *f.recent, nil
}

type fakeSnapshots struct {
	mu      sync.Mutex
	data    map[string][]byte
	latest  map[uuid.UUID]string
	loadErr error // injected store failure for Load/LoadLatest
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: make(map[string][]byte), latest: make(map[uuid.UUID]string)}
}

func (f *fakeSnapshots) Save(ctx context.Context, s *session.Session) error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[s.ID] = data
	f.latest[s.CandidateID] = s.ID
	return nil
}

func (f *fakeSnapshots) Load(ctx context.Context, sessionID string) (*session.Session, error) {
	f.mu.Lock()
	data, ok := f.data[sessionID]
	loadErr := f.loadErr
	f.mu.Unlock()
	if loadErr != nil {
		return nil, loadErr
	}
	if !ok {
		return nil, cache.ErrNoSession
	}
	return session.Restore(data)
}

func (f *fakeSnapshots) LoadLatest(ctx context.Context, candidateID uuid.UUID) (*session.Session, error) {
	f.mu.Lock()
	id, ok := f.latest[candidateID]
	loadErr := f.loadErr
	f.mu.Unlock()
	if loadErr != nil {
		return nil, loadErr
	}
	if !ok {
		return nil, cache.ErrNoSession
	}
	return f.Load(ctx, id)
}

func (f *fakeSnapshots) Delete(ctx context.Context, sessionID string, candidateID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, sessionID)
	delete(f.latest, candidateID)
	return nil
}

func twoQuestions() []model.Question {
	return []model.Question{
		{Text: "Q1", Difficulty: model.DifficultyEasy, TimeLimitSeconds: 30},
		{Text: "Q2", Difficulty: model.DifficultyMedium, TimeLimitSeconds: 45},
	}
}

type fixture struct {
	svc   *Service
	ai    *fakeAI
	cands *fakeCandidates
	snaps *fakeSnapshots
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ai := &fakeAI{questions: twoQuestions(), score: 7, summary: "solid candidate"}
	cands := newFakeCandidates()
	snaps := newFakeSnapshots()
	svc := NewService(zap.NewNop(), ai, cands, snaps, 100*time.Millisecond)
	return &fixture{svc: svc, ai: ai, cands: cands, snaps: snaps}
}

func (fx *fixture) start(t *testing.T) (*View, uuid.UUID) {
	t.Helper()
	candID := uuid.New()
	fx.cands.byID[candID] = model.Candidate{ID: candID, Name: "Jo", Email: "jo@example.com"}
	view, err := fx.svc.Start(context.Background(), candID, "resume text")
	require.NoError(t, err)
	return view, candID
}

func TestStart(t *testing.T) {
	fx := newFixture(t)
	view, candID := fx.start(t)

	assert.Len(t, view.Questions, 2)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.Equal(t, 30, view.RemainingSeconds)
	assert.Equal(t, "running", view.TimerState)
	assert.Equal(t, model.StatusInProgress, fx.cands.statuses[candID])

	snap, err := fx.snaps.Load(context.Background(), view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, candID, snap.CandidateID)
}

func TestStartGenerationFailure(t *testing.T) {
	fx := newFixture(t)
	fx.ai.genErr = errors.New("upstream down")

	_, err := fx.svc.Start(context.Background(), uuid.New(), "resume")
	require.ErrorIs(t, err, ErrService)
}

func TestStartEmptyQuestionSet(t *testing.T) {
	fx := newFixture(t)
	fx.ai.questions = nil

	_, err := fx.svc.Start(context.Background(), uuid.New(), "resume")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSubmitAdvances(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)

	result, err := fx.svc.Submit(context.Background(), view.SessionID, "my answer")
	require.NoError(t, err)
	assert.Equal(t, "my answer", result.Answer.AnswerText)
	assert.Equal(t, 7, result.Answer.Score)
	assert.Equal(t, 1, result.CurrentIndex)
	assert.False(t, result.Completed)
	// next question starts at full duration
	assert.Equal(t, 45, result.RemainingSeconds)
}

func TestSubmitEmptyAnswerUsesSentinel(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)

	result, err := fx.svc.Submit(context.Background(), view.SessionID, "   ")
	require.NoError(t, err)
	assert.Equal(t, NoAnswerSentinel, result.Answer.AnswerText)
}

func TestSubmitScorerFailureLeavesStateUntouched(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)

	fx.ai.evalErr = errors.New("scorer down")
	_, err := fx.svc.Submit(context.Background(), view.SessionID, "answer")
	require.ErrorIs(t, err, ErrService)

	got, err := fx.svc.Get(context.Background(), view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentIndex)
	assert.Empty(t, got.Answers)

	// retry succeeds once the scorer recovers
	fx.ai.evalErr = nil
	result, err := fx.svc.Submit(context.Background(), view.SessionID, "answer")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentIndex)
}

func TestSubmitScorerTimeout(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)

	fx.ai.evalBlock = make(chan struct{}) // never closed: wait out the deadline
	_, err := fx.svc.Submit(context.Background(), view.SessionID, "answer")
	require.ErrorIs(t, err, ErrServiceTimeout)

	got, err := fx.svc.Get(context.Background(), view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentIndex)
}

func TestDoubleSubmitRecordsOneAnswer(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)

	block := make(chan struct{})
	fx.ai.evalBlock = block

	done := make(chan error, 1)
	go func() {
		_, err := fx.svc.Submit(context.Background(), view.SessionID, "first")
		done <- err
	}()

	// wait for the first submission to reach the scorer
	require.Eventually(t, func() bool {
		fx.ai.mu.Lock()
		defer fx.ai.mu.Unlock()
		return fx.ai.evalCalls == 1
	}, time.Second, time.Millisecond)

	_, err := fx.svc.Submit(context.Background(), view.SessionID, "second")
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(block)
	require.NoError(t, <-done)

	got, err := fx.svc.Get(context.Background(), view.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "first", got.Answers[0].AnswerText)
}

func TestCompletionPushesResult(t *testing.T) {
	fx := newFixture(t)
	view, candID := fx.start(t)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, view.SessionID, "ans1")
	require.NoError(t, err)

	result, err := fx.svc.Submit(ctx, view.SessionID, "ans2")
	require.NoError(t, err)
	assert.True(t, result.Completed)
	require.NotNil(t, result.FinalScore)
	assert.Equal(t, 7, *result.FinalScore)
	require.NotNil(t, result.SummaryText)
	assert.Equal(t, "solid candidate", *result.SummaryText)

	require.Len(t, fx.cands.upserts, 1)
	assert.Equal(t, 7, fx.cands.upserts[0].Score)
	assert.Len(t, fx.cands.upserts[0].Answers, 2)
	assert.Equal(t, candID, fx.cands.upsertedTo[0])

	// further submissions are out of sequence
	_, err = fx.svc.Submit(ctx, view.SessionID, "extra")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompletionFallbackCandidateMatch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// session started for a candidate the store no longer knows
	view, err := fx.svc.Start(ctx, uuid.New(), "resume text")
	require.NoError(t, err)

	recent := model.Candidate{ID: uuid.New(), Email: "recent@example.com", Status: model.StatusInProgress}
	fx.cands.recent = &recent

	_, err = fx.svc.Submit(ctx, view.SessionID, "ans1")
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, view.SessionID, "ans2")
	require.NoError(t, err)

	require.Len(t, fx.cands.upsertedTo, 1)
	assert.Equal(t, recent.ID, fx.cands.upsertedTo[0])
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)
	ctx := context.Background()

	// burn a few seconds off the countdown
	fx.svc.tick(ctx)
	fx.svc.tick(ctx)

	paused, err := fx.svc.Pause(ctx, view.SessionID)
	require.NoError(t, err)
	assert.True(t, paused.Paused)
	assert.Equal(t, 28, paused.RemainingSeconds)
	assert.Equal(t, "paused", paused.TimerState)

	// ticks while paused change nothing
	fx.svc.tick(ctx)
	fx.svc.tick(ctx)

	resumed, err := fx.svc.Resume(ctx, view.SessionID)
	require.NoError(t, err)
	assert.False(t, resumed.Paused)
	assert.Equal(t, 28, resumed.RemainingSeconds)
	assert.Equal(t, "running", resumed.TimerState)
}

func TestExpiryAutoSubmitsNoAnswer(t *testing.T) {
	fx := newFixture(t)
	fx.ai.questions = []model.Question{
		{Text: "Q1", Difficulty: model.DifficultyEasy, TimeLimitSeconds: 2},
		{Text: "Q2", Difficulty: model.DifficultyEasy, TimeLimitSeconds: 30},
	}
	view, _ := fx.start(t)
	ctx := context.Background()

	fx.svc.tick(ctx)
	fx.svc.tick(ctx) // hits zero, auto-submit runs off the tick goroutine

	require.Eventually(t, func() bool {
		got, err := fx.svc.Get(ctx, view.SessionID)
		return err == nil && got.CurrentIndex == 1
	}, time.Second, 5*time.Millisecond)

	got, err := fx.svc.Get(ctx, view.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, NoAnswerSentinel, got.Answers[0].AnswerText)
	assert.Equal(t, 30, got.RemainingSeconds)
}

func TestExpiryAutoSubmitRetriesAfterScorerFailure(t *testing.T) {
	fx := newFixture(t)
	fx.ai.questions = []model.Question{
		{Text: "Q1", Difficulty: model.DifficultyEasy, TimeLimitSeconds: 1},
		{Text: "Q2", Difficulty: model.DifficultyEasy, TimeLimitSeconds: 30},
	}
	fx.ai.evalErr = errors.New("scorer down")
	view, _ := fx.start(t)
	ctx := context.Background()

	fx.svc.tick(ctx) // hits zero, auto-submit fails against the scorer

	// the countdown is re-armed instead of idling at zero
	require.Eventually(t, func() bool {
		got, err := fx.svc.Get(ctx, view.SessionID)
		return err == nil && got.TimerState == "running" && got.RemainingSeconds == expiryRetrySeconds
	}, time.Second, 5*time.Millisecond)

	fx.ai.mu.Lock()
	fx.ai.evalErr = nil
	fx.ai.mu.Unlock()

	for i := 0; i < expiryRetrySeconds; i++ {
		fx.svc.tick(ctx)
	}

	require.Eventually(t, func() bool {
		got, err := fx.svc.Get(ctx, view.SessionID)
		return err == nil && got.CurrentIndex == 1
	}, time.Second, 5*time.Millisecond)

	got, err := fx.svc.Get(ctx, view.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, NoAnswerSentinel, got.Answers[0].AnswerText)
}

func TestCheck(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	t.Run("none without snapshot", func(t *testing.T) {
		result, err := fx.svc.Check(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, session.DecisionNone, result.Decision)
	})

	t.Run("prompt for fresh unfinished session", func(t *testing.T) {
		view, candID := fx.start(t)

		result, err := fx.svc.Check(ctx, candID)
		require.NoError(t, err)
		assert.Equal(t, session.DecisionPrompt, result.Decision)
		require.NotNil(t, result.Summary)
		assert.Equal(t, view.SessionID, result.Summary.SessionID)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		_, candID := fx.start(t)

		fx.snaps.mu.Lock()
		fx.snaps.loadErr = errors.New("connection refused")
		fx.snaps.mu.Unlock()
		defer func() {
			fx.snaps.mu.Lock()
			fx.snaps.loadErr = nil
			fx.snaps.mu.Unlock()
		}()

		_, err := fx.svc.Check(ctx, candID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, cache.ErrNoSession)
	})

	t.Run("expired session is discarded", func(t *testing.T) {
		view, candID := fx.start(t)

		// age the snapshot past the staleness threshold
		snap, err := fx.snaps.Load(ctx, view.SessionID)
		require.NoError(t, err)
		snap.LastActivityAt = time.Now().Add(-25 * time.Hour)
		require.NoError(t, fx.snaps.Save(ctx, snap))

		result, err := fx.svc.Check(ctx, candID)
		require.NoError(t, err)
		assert.Equal(t, session.DecisionExpired, result.Decision)

		_, err = fx.snaps.Load(ctx, view.SessionID)
		require.Error(t, err)
	})
}

func TestRestoreSession(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	t.Run("paused snapshot resumes at frozen remaining", func(t *testing.T) {
		view, _ := fx.start(t)
		fx.svc.tick(ctx)
		_, err := fx.svc.Pause(ctx, view.SessionID)
		require.NoError(t, err)

		// simulate a reload: drop the live session, keep the snapshot
		fx.svc.mu.Lock()
		delete(fx.svc.active, view.SessionID)
		fx.svc.mu.Unlock()

		restored, err := fx.svc.RestoreSession(ctx, view.SessionID)
		require.NoError(t, err)
		assert.Equal(t, 29, restored.RemainingSeconds)
		assert.Equal(t, "running", restored.TimerState)
		assert.False(t, restored.Paused)
	})

	t.Run("unpaused snapshot restarts question at full duration", func(t *testing.T) {
		view, _ := fx.start(t)
		_, err := fx.svc.Submit(ctx, view.SessionID, "ans1")
		require.NoError(t, err)

		fx.svc.mu.Lock()
		delete(fx.svc.active, view.SessionID)
		fx.svc.mu.Unlock()

		restored, err := fx.svc.RestoreSession(ctx, view.SessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, restored.CurrentIndex)
		assert.Equal(t, 45, restored.RemainingSeconds)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := fx.svc.RestoreSession(ctx, "nope")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestReset(t *testing.T) {
	fx := newFixture(t)
	view, _ := fx.start(t)
	ctx := context.Background()

	require.NoError(t, fx.svc.Reset(ctx, view.SessionID))

	_, err := fx.svc.Get(ctx, view.SessionID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
