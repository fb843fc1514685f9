package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// QuizQuestion is one entry of a quiz, with the answer the service expects
// back. ID and Answer are kept raw and echoed verbatim on submit, since
// the service is loose about their JSON types.
type QuizQuestion struct {
	ID     json.RawMessage `json:"question_id"`
	Answer json.RawMessage `json:"answer"`
}

// CreateQuiz opens the day's quiz and returns its raw id. The title
// carries the date in the configured zone, which is how the service scopes
// one quiz per day.
func (c *Client) CreateQuiz(ctx context.Context, eoa string, today time.Time) (json.RawMessage, error) {
	body := map[string]any{
		"title": "daily_quiz_" + today.Format("2006-01-02"),
		"num":   1,
		"eoa":   eoa,
	}
	env, err := c.post(ctx, c.cfg.NeoBaseURL+"/v2/quiz/create", body, c.bearer(), "quiz create")
	if err != nil {
		return nil, err
	}
	var data struct {
		QuizID json.RawMessage `json:"quiz_id"`
	}
	if err := unmarshalData(env, &data, "quiz create"); err != nil {
		return nil, err
	}
	if rawEmpty(data.QuizID) {
		return nil, fmt.Errorf("quiz create: missing quiz_id")
	}
	return data.QuizID, nil
}

// QuizQuestionFor fetches the quiz and returns its first question.
func (c *Client) QuizQuestionFor(ctx context.Context, quizID json.RawMessage, eoa string) (QuizQuestion, error) {
	params := map[string]string{"id": rawParam(quizID), "eoa": eoa}
	env, err := c.get(ctx, c.cfg.NeoBaseURL+"/v2/quiz/get", params, c.bearer(), "quiz get")
	if err != nil {
		return QuizQuestion{}, err
	}
	var data struct {
		Question []QuizQuestion `json:"question"`
	}
	if err := unmarshalData(env, &data, "quiz get"); err != nil {
		return QuizQuestion{}, err
	}
	if len(data.Question) == 0 {
		return QuizQuestion{}, fmt.Errorf("quiz get: no questions")
	}
	return data.Question[0], nil
}

// SubmitQuiz sends the answer back and reports whether the service scored
// it as passed.
func (c *Client) SubmitQuiz(ctx context.Context, quizID json.RawMessage, q QuizQuestion, eoa string) (bool, error) {
	body := map[string]any{
		"quiz_id":     quizID,
		"question_id": q.ID,
		"answer":      q.Answer,
		"finish":      true,
		"eoa":         eoa,
	}
	env, err := c.post(ctx, c.cfg.NeoBaseURL+"/v2/quiz/submit", body, c.bearer(), "quiz submit")
	if err != nil {
		return false, err
	}
	var data struct {
		Result any `json:"result"`
	}
	if err := unmarshalData(env, &data, "quiz submit"); err != nil {
		return false, err
	}
	return truthy(data.Result), nil
}

// rawParam renders a raw JSON scalar as a query-parameter value.
func rawParam(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}

func rawEmpty(raw json.RawMessage) bool {
	s := string(raw)
	return s == "" || s == `""` || s == "null" || s == "0"
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return false
	}
}
