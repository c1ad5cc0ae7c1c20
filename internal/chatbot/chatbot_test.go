package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpilot/internal/classifier"
)

func testBot() *Bot {
	return New(1, nil)
}

func TestClassifyIntent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    string
	}{
		{"How am I doing in math?", IntentPerformance},
		{"What was my score?", IntentPerformance},
		{"Can you help me study for the test?", IntentStudyHelp},
		{"I don't understand this topic", IntentStudyHelp},
		{"This is so hard, I feel discouraged", IntentMotivation},
		{"What should I do next?", IntentRecommendation},
		{"Can you recommend something?", IntentRecommendation},
		{"Hello there", IntentGeneral},
		{"", IntentGeneral},
		{"SCORE", IntentPerformance},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyIntent(tc.message), tc.message)
	}
}

func TestClassifyIntent_OverlapStable(t *testing.T) {
	t.Parallel()

	// "score" (performance) and "study" (study help) both match; the
	// fixed check order keeps performance first.
	assert.Equal(t, IntentPerformance, ClassifyIntent("my score is low, how should I study"))
}

func TestRespond_PerformanceWithContext(t *testing.T) {
	sc := &StudentContext{
		StudentID:        "S001",
		Subject:          "Mathematics",
		QuizScore:        45,
		Attendance:       80,
		PerformanceLevel: classifier.LevelBelowAverage,
	}

	reply, usedLLM := testBot().Respond(context.Background(), "How is my performance?", sc)

	assert.False(t, usedLLM)
	assert.Equal(t, IntentPerformance, reply.Intent)
	assert.True(t, reply.ContextUsed)
	assert.Contains(t, reply.Response, "Mathematics")
	assert.Contains(t, reply.Response, "45")
	assert.Contains(t, reply.Response, classifier.LevelBelowAverage)
}

func TestRespond_StudyHelpBranches(t *testing.T) {
	bot := testBot()

	weak := &StudentContext{Subject: "Science", PerformanceLevel: classifier.LevelPoor}
	reply, _ := bot.Respond(context.Background(), "help me study", weak)
	assert.Equal(t, IntentStudyHelp, reply.Intent)
	assert.Contains(t, reply.Response, "fundamentals")

	strong := &StudentContext{Subject: "Science", PerformanceLevel: classifier.LevelGood}
	reply, _ = bot.Respond(context.Background(), "help me study", strong)
	assert.Contains(t, reply.Response, "doing well")
}

func TestRespond_MotivationWithoutContext(t *testing.T) {
	reply, usedLLM := testBot().Respond(context.Background(), "this is too difficult", nil)

	assert.False(t, usedLLM)
	assert.Equal(t, IntentMotivation, reply.Intent)
	assert.False(t, reply.ContextUsed)
	assert.Contains(t, reply.Response, "You've got this!")
}

func TestRespond_RecommendationLevels(t *testing.T) {
	bot := testBot()

	low := &StudentContext{Subject: "English", PerformanceLevel: classifier.LevelPoor}
	reply, _ := bot.Respond(context.Background(), "what should I do next", low)
	assert.Equal(t, IntentRecommendation, reply.Intent)
	assert.Contains(t, reply.Response, "Review fundamental concepts")

	high := &StudentContext{Subject: "English", PerformanceLevel: classifier.LevelExcellent}
	reply, _ = bot.Respond(context.Background(), "what should I do next", high)
	assert.Contains(t, reply.Response, "Explore advanced topics")
}

func TestRespond_GeneralFallback(t *testing.T) {
	sc := &StudentContext{Subject: "History"}
	reply, _ := testBot().Respond(context.Background(), "hi", sc)

	assert.Equal(t, IntentGeneral, reply.Intent)
	assert.Contains(t, reply.Response, "History")
	assert.Contains(t, reply.Response, "What would you like to know?")
}

func TestRespond_ContextIntentWithoutContext(t *testing.T) {
	// Performance questions without any context fall through to the
	// general reply but keep the classified intent.
	reply, _ := testBot().Respond(context.Background(), "what is my score", nil)

	assert.Equal(t, IntentPerformance, reply.Intent)
	assert.False(t, reply.ContextUsed)
	assert.Contains(t, reply.Response, "learning journey")
}

func TestRespond_LLMRelay(t *testing.T) {
	var got llmRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(llmResponse{Response: "upstream answer"})
	}))
	defer srv.Close()

	bot := New(1, NewLLMClient(srv.URL, 2*time.Second))
	require.True(t, bot.HasLLM())

	sc := &StudentContext{Subject: "Mathematics", QuizScore: 72, PerformanceLevel: classifier.LevelGood}
	reply, usedLLM := bot.Respond(context.Background(), "how am I doing", sc)

	assert.True(t, usedLLM)
	assert.Equal(t, "upstream answer", reply.Response)
	assert.Equal(t, IntentPerformance, reply.Intent)
	assert.True(t, reply.ContextUsed)

	assert.Equal(t, SystemPrompt, got.System)
	assert.Contains(t, got.Context, "Mathematics")
	assert.Equal(t, "how am I doing", got.Message)
}

func TestRespond_LLMFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	bot := New(1, NewLLMClient(srv.URL, 2*time.Second))
	reply, usedLLM := bot.Respond(context.Background(), "motivate me", nil)

	assert.False(t, usedLLM)
	assert.Equal(t, IntentMotivation, reply.Intent)
	assert.NotEmpty(t, reply.Response)
}

func TestLLMClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(llmResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	c := NewLLMClient(srv.URL, 2*time.Second)
	_, err := c.Complete(context.Background(), SystemPrompt, "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestLLMClient_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(llmResponse{})
	}))
	defer srv.Close()

	c := NewLLMClient(srv.URL, 2*time.Second)
	_, err := c.Complete(context.Background(), SystemPrompt, "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestFormatContext(t *testing.T) {
	t.Parallel()

	out := FormatContext(StudentContext{Subject: "Science", QuizScore: 88.5, Attendance: 92, PerformanceLevel: classifier.LevelExcellent})
	assert.Contains(t, out, "- Subject: Science")
	assert.Contains(t, out, "- Quiz Score: 88.5%")
	assert.Contains(t, out, "- Performance Level: Excellent")
	assert.Contains(t, out, "- Attendance: 92%")

	empty := FormatContext(StudentContext{})
	assert.Equal(t, 2, strings.Count(empty, "N/A"))
}
