package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizFlow(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quiz/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "daily_quiz_2026-02-03", body["title"])
		assert.EqualValues(t, 1, body["num"])
		assert.Equal(t, testEOA, body["eoa"])

		fmt.Fprint(w, `{"data":{"quiz_id":482}}`)
	})
	mux.HandleFunc("/v2/quiz/get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "482", r.URL.Query().Get("id"))
		assert.Equal(t, testEOA, r.URL.Query().Get("eoa"))

		fmt.Fprint(w, `{"data":{"question":[{"question_id":7,"answer":"B"}]}}`)
	})
	mux.HandleFunc("/v2/quiz/submit", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 482, body["quiz_id"])
		assert.EqualValues(t, 7, body["question_id"])
		assert.Equal(t, "B", body["answer"])
		assert.Equal(t, true, body["finish"])

		fmt.Fprint(w, `{"data":{"result":true}}`)
	})

	srv := newServer(t, mux)
	c := New(testConfig(srv.URL), "")
	ctx := context.Background()

	quizID, err := c.CreateQuiz(ctx, testEOA, today)
	require.NoError(t, err)
	assert.Equal(t, "482", string(quizID))

	q, err := c.QuizQuestionFor(ctx, quizID, testEOA)
	require.NoError(t, err)
	assert.Equal(t, "7", string(q.ID))

	passed, err := c.SubmitQuiz(ctx, quizID, q, testEOA)
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestCreateQuizMissingID(t *testing.T) {
	t.Parallel()

	for name, payload := range map[string]string{
		"absent": `{"data":{}}`,
		"null":   `{"data":{"quiz_id":null}}`,
		"zero":   `{"data":{"quiz_id":0}}`,
		"empty":  `{"data":{"quiz_id":""}}`,
	} {
		payload := payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, payload)
			}))

			_, err := c.CreateQuiz(context.Background(), testEOA, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestQuizQuestionForNoQuestions(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"question":[]}}`)
	}))

	_, err := c.QuizQuestionFor(context.Background(), json.RawMessage("1"), testEOA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions")
}

func TestSubmitQuizResultShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"bool true", `{"data":{"result":true}}`, true},
		{"bool false", `{"data":{"result":false}}`, false},
		{"string", `{"data":{"result":"correct"}}`, true},
		{"empty string", `{"data":{"result":""}}`, false},
		{"number", `{"data":{"result":1}}`, true},
		{"zero", `{"data":{"result":0}}`, false},
		{"absent", `{"data":{}}`, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.payload)
			}))

			q := QuizQuestion{ID: json.RawMessage("1"), Answer: json.RawMessage(`"A"`)}
			got, err := c.SubmitQuiz(context.Background(), json.RawMessage("9"), q, testEOA)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuizStringIDPassthrough(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/quiz/create", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"quiz_id":"q-2026-02-03"}}`)
	})
	mux.HandleFunc("/v2/quiz/get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "q-2026-02-03", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"data":{"question":[{"question_id":"qq-1","answer":2}]}}`)
	})
	mux.HandleFunc("/v2/quiz/submit", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "q-2026-02-03", body["quiz_id"])
		assert.Equal(t, "qq-1", body["question_id"])
		assert.EqualValues(t, 2, body["answer"])

		fmt.Fprint(w, `{"data":{"result":"pass"}}`)
	})

	srv := newServer(t, mux)
	c := New(testConfig(srv.URL), "")
	ctx := context.Background()

	quizID, err := c.CreateQuiz(ctx, testEOA, time.Now())
	require.NoError(t, err)

	q, err := c.QuizQuestionFor(ctx, quizID, testEOA)
	require.NoError(t, err)

	passed, err := c.SubmitQuiz(ctx, quizID, q, testEOA)
	require.NoError(t, err)
	assert.True(t, passed)
}
