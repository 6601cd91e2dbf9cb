package session

// TimerState is the per-question countdown state.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
	TimerExpired
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Timer drives the single active countdown for the current question.
// It is a plain state machine: the owner supplies the tick cadence
// (one Tick per second of wall clock) and reacts to expiry.
type Timer struct {
	state     TimerState
	remaining int
}

func NewTimer() *Timer {
	return &Timer{state: TimerIdle}
}

func (t *Timer) State() TimerState { return t.state }

// Remaining never goes below zero.
func (t *Timer) Remaining() int { return t.remaining }

// Start enters a question at full duration.
func (t *Timer) Start(limitSeconds int) {
	t.remaining = limitSeconds
	t.state = TimerRunning
	if limitSeconds <= 0 {
		t.remaining = 0
		t.state = TimerExpired
	}
}

// StartFrom resumes mid-question with a restored remaining value.
func (t *Timer) StartFrom(remainingSeconds int) {
	t.Start(remainingSeconds)
}

// Tick advances the countdown by one second. It reports expiry exactly
// once, on the transition to zero; ticks in any other state are no-ops.
func (t *Timer) Tick() (remaining int, expired bool) {
	if t.state != TimerRunning {
		return t.remaining, false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = TimerExpired
		return 0, true
	}
	return t.remaining, false
}

// Pause freezes the countdown and returns the frozen value.
func (t *Timer) Pause() (int, bool) {
	if t.state != TimerRunning {
		return t.remaining, false
	}
	t.state = TimerPaused
	return t.remaining, true
}

// Resume continues from the frozen value, never from full duration.
func (t *Timer) Resume() bool {
	if t.state != TimerPaused {
		return false
	}
	t.state = TimerRunning
	return true
}

// Reset returns to Idle, ready for the next question.
func (t *Timer) Reset() {
	t.state = TimerIdle
	t.remaining = 0
}
