package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points a client at a stub completions endpoint that answers
// every request with the given assistant content.
func newTestClient(t *testing.T, content string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, mustJSON(content))
	}))
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, zap.NewNop().Sugar())
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestExtractAction(t *testing.T) {
	c := newTestClient(t, `{"action":"create","title":"Lunch with Sam","date":"2026-09-04","start_time":"13:00","category":"personal"}`)

	action, err := c.ExtractAction(context.Background(), "lunch with Sam on Friday at 13:00", nil)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, ActionCreate, action.Action)
	assert.Equal(t, "Lunch with Sam", action.Title)
	assert.Equal(t, "2026-09-04", action.Date)
	assert.Equal(t, "13:00", action.StartTime)
}

func TestExtractActionNone(t *testing.T) {
	c := newTestClient(t, `{"action":"none"}`)

	action, err := c.ExtractAction(context.Background(), "how are you?", nil)
	require.NoError(t, err)
	assert.Nil(t, action)
}

func TestExtractActionInvalidJSON(t *testing.T) {
	c := newTestClient(t, "I think you want to schedule lunch.")

	action, err := c.ExtractAction(context.Background(), "lunch tomorrow", nil)
	require.NoError(t, err, "unparseable model output is not an error")
	assert.Nil(t, action)
}

func TestExtractActionUnknownKind(t *testing.T) {
	c := newTestClient(t, `{"action":"celebrate"}`)

	action, err := c.ExtractAction(context.Background(), "party!", nil)
	require.NoError(t, err)
	assert.Nil(t, action)
}

func TestDisabledClient(t *testing.T) {
	c := NewClient(Config{Model: "test-model"}, zap.NewNop().Sugar())
	assert.False(t, c.Enabled())

	action, err := c.ExtractAction(context.Background(), "lunch tomorrow", nil)
	require.NoError(t, err)
	assert.Nil(t, action)

	meetings, err := c.ExtractMeetings(context.Background(), []TranscriptMessage{{Username: "sam", Message: "standup at 9"}})
	require.NoError(t, err)
	assert.Nil(t, meetings)
}

func TestExtractMeetingsArray(t *testing.T) {
	c := newTestClient(t, `[
		{"title":"Standup","date_of_meeting":"2030-01-02","start_time":"09:00","end_time":"09:30","description":"daily sync"},
		{"title":"Retro","date_of_meeting":"2020-01-02","start_time":"15:00","end_time":"15:30"}
	]`)

	meetings, err := c.ExtractMeetings(context.Background(), []TranscriptMessage{{Username: "sam", Message: "standup tomorrow at 9"}})
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	assert.Equal(t, "Standup", meetings[0].Title)
	assert.NotEmpty(t, meetings[0].ID)
	assert.Equal(t, "work", meetings[0].Category)
	assert.NotEmpty(t, meetings[0].CreatedAt)
	assert.False(t, meetings[0].Completed, "future meeting is not completed")
	assert.True(t, meetings[1].Completed, "past meeting is completed")
}

func TestExtractMeetingsSingleObject(t *testing.T) {
	c := newTestClient(t, `{"title":"Review","date_of_meeting":"2030-06-01","start_time":"14:00"}`)

	meetings, err := c.ExtractMeetings(context.Background(), []TranscriptMessage{{Username: "sam", Message: "review in June"}})
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Review", meetings[0].Title)
}

func TestExtractMeetingsEmptyTranscript(t *testing.T) {
	c := newTestClient(t, `[]`)

	meetings, err := c.ExtractMeetings(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, meetings)
}

func TestGenerateReplyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"}, zap.NewNop().Sugar())

	reply := c.GenerateReply(context.Background(), "lunch tomorrow", nil, "")
	assert.Contains(t, reply, "lunch tomorrow", "fallback echoes the user message")
}

func TestGenerateReply(t *testing.T) {
	c := newTestClient(t, "Sounds great, lunch is on the calendar!")

	reply := c.GenerateReply(context.Background(), "lunch tomorrow", []Message{{Role: "user", Content: "hi"}}, "Upcoming meetings:\n - none")
	assert.Equal(t, "Sounds great, lunch is on the calendar!", reply)
}
