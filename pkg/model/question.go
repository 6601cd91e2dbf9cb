package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Per-difficulty answer windows, in seconds.
const (
	TimeLimitEasy   = 20
	TimeLimitMedium = 60
	TimeLimitHard   = 120
)

// TimeLimitSeconds returns the answer window for a difficulty.
// Unknown difficulties get the medium window.
func TimeLimitSeconds(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return TimeLimitEasy
	case DifficultyHard:
		return TimeLimitHard
	default:
		return TimeLimitMedium
	}
}

// Question is immutable once generated for a session.
type Question struct {
	Text             string     `json:"text"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
}

// Answer is created exactly once per question, append-only.
type Answer struct {
	QuestionText string     `json:"question_text"`
	AnswerText   string     `json:"answer_text"`
	Difficulty   Difficulty `json:"difficulty"`
	Score        int        `json:"score"` // 0-10
	Feedback     string     `json:"feedback"`
}
