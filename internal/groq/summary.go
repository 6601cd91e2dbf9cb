package groq

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakshamjn/intervue/pkg/model"
)

// Summarize turns the full answer list into a short hiring summary.
func (c *Client) Summarize(ctx context.Context, answers []model.Answer) (string, error) {
	systemMsg := `You are writing a hiring summary for an interviewer. Given a candidate's interview answers with per-answer scores, output 3-5 plain sentences covering strengths, weaknesses, and an overall recommendation. Output the summary text only, no markdown.`

	var sb strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&sb, "Q%d (%s): %s\nAnswer: %s\nScore: %d/10\nFeedback: %s\n\n",
			i+1, a.Difficulty, a.QuestionText, a.AnswerText, a.Score, a.Feedback)
	}
	userPrompt := sb.String()
	if len(userPrompt) > 10000 {
		userPrompt = userPrompt[:10000]
	}

	chatReq := ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	return c.Chat(ctx, chatReq)
}
