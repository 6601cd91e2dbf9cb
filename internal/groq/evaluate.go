package groq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sakshamjn/intervue/pkg/model"
)

type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// EvaluateAnswer scores one answer against its question, 0-10, with a
// short feedback line.
func (c *Client) EvaluateAnswer(ctx context.Context, question model.Question, answerText, resumeContext string) (*Evaluation, error) {
	systemMsg := `You are grading an interview answer. Output ONLY a valid JSON object, no additional text, markdown, or backticks:
{"score": <integer 0-10>, "feedback": "<one or two sentences>"}

Rules:
- "No Answer" or empty answers score 0.
- Judge correctness and depth, weighted by the question's difficulty.
- Feedback must be constructive and specific.
`

	userPrompt := fmt.Sprintf("Question (%s): %s\n\nAnswer: %s\n\nResume context:\n%s",
		question.Difficulty, question.Text, answerText, resumeContext)
	if len(userPrompt) > 10000 {
		userPrompt = userPrompt[:10000]
	}

	chatReq := ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   500,
		Temperature: 0.0,
	}

	respStr, err := c.Chat(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	var ev Evaluation
	if err := json.Unmarshal([]byte(respStr), &ev); err != nil {
		return nil, fmt.Errorf("failed to parse AI evaluation: %w; raw response: %q", err, respStr)
	}
	if ev.Score < 0 {
		ev.Score = 0
	}
	if ev.Score > 10 {
		ev.Score = 10
	}
	return &ev, nil
}
