package groq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sakshamjn/intervue/pkg/model"
)

type generatedQuestion struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
}

// GenerateQuestions produces the fixed interview shape from a resume:
// 2 easy + 2 medium + 2 hard, in that order, dropping extras.
func (c *Client) GenerateQuestions(ctx context.Context, resumeText string) ([]model.Question, error) {
	systemMsg := `You are a technical interviewer. Read the candidate's resume and output ONLY a valid JSON array of interview questions, with no additional text, markdown, or backticks.

Each item must be an object with:
- "question": the question text
- "difficulty": one of "easy", "medium", or "hard"

Rules:
- Produce at least 2 questions per difficulty.
- Ground questions in the technologies and experience the resume mentions.
- Output must be valid JSON. No prefix, suffix, or backticks.
`

	userPrompt := fmt.Sprintf("Resume:\n%s", resumeText)
	if len(userPrompt) > 10000 {
		userPrompt = userPrompt[:10000]
	}

	chatReq := ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   2000,
		Temperature: 0.4,
	}

	respStr, err := c.Chat(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(respStr), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse AI response as JSON array of questions: %w; raw response: %q", err, respStr)
	}

	return SelectShape(generated), nil
}

// SelectShape filters the generated pool into the session's question
// order: first 2 easy, first 2 medium, first 2 hard.
func SelectShape(generated []generatedQuestion) []model.Question {
	out := make([]model.Question, 0, 6)
	for _, want := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		picked := 0
		for _, g := range generated {
			if picked == 2 {
				break
			}
			if model.Difficulty(g.Difficulty) != want || g.Question == "" {
				continue
			}
			out = append(out, model.Question{
				Text:             g.Question,
				Difficulty:       want,
				TimeLimitSeconds: model.TimeLimitSeconds(want),
			})
			picked++
		}
	}
	return out
}
