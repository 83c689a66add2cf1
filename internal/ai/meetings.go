package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptMessage is one normalized conversation entry sent to the batch
// meeting scan.
type TranscriptMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	SendTime string `json:"send_time,omitempty"`
}

// Meeting is one meeting the model found in a transcript, augmented with the
// bookkeeping fields the calendar store expects.
type Meeting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date_of_meeting"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at"`
	Completed   bool   `json:"meeting_completed"`
}

const meetingsSystemPrompt = "We have this conversation in a JSON format. Your task is to determine when a " +
	"meeting should be scheduled, based on the messages. If multiple meetings are mentioned, return multiple " +
	"JSON objects in a JSON array. Each object must have five keys: " +
	"`date_of_meeting` whose value is the date agreed for the meeting in ISO8601 format YYYY-MM-DD; if no " +
	"date is mentioned, use the current date. " +
	"`start_time` whose value is the agreed meeting time in 24-hour HH:MM format. " +
	"`end_time` whose value is the agreed end time of the meeting; if nothing is agreed, assume a duration " +
	"of 30 minutes per meeting, also in HH:MM format. " +
	"`description` whose value is a simple text summary of what the meeting will be about, at most 20 words; " +
	"leave it blank if nothing is mentioned. " +
	"`title` whose value is a title of a few words derived from the description. " +
	"Do not include any extra text, explanation, or formatting. Only the JSON."

// ExtractMeetings runs the batch meeting scan over a conversation transcript.
// Each result is augmented with a UUID, the "work" category, a creation
// timestamp and a completed flag for meetings already in the past.
func (c *Client) ExtractMeetings(ctx context.Context, transcript []TranscriptMessage) ([]Meeting, error) {
	if !c.Enabled() || len(transcript) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}

	content, err := c.complete(ctx, []Message{
		{Role: "system", Content: meetingsSystemPrompt},
		{Role: "user", Content: string(payload)},
	}, false)
	if err != nil {
		return nil, fmt.Errorf("extract meetings: %w", err)
	}

	meetings, err := parseMeetings(content)
	if err != nil {
		c.log.Debugw("model returned invalid JSON for meetings", "content", truncate(content, 200))
		return nil, nil
	}

	now := time.Now().UTC()
	for i := range meetings {
		augmentMeeting(&meetings[i], now)
	}
	return meetings, nil
}

// parseMeetings accepts either a single JSON object or an array of them.
func parseMeetings(content string) ([]Meeting, error) {
	var list []Meeting
	if err := json.Unmarshal([]byte(content), &list); err == nil {
		return list, nil
	}
	var single Meeting
	if err := json.Unmarshal([]byte(content), &single); err != nil {
		return nil, err
	}
	return []Meeting{single}, nil
}

func augmentMeeting(m *Meeting, now time.Time) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Category = "work"
	m.CreatedAt = now.Format(time.RFC3339)

	if m.Date == "" {
		return
	}
	start := m.StartTime
	if start == "" {
		start = "00:00"
	}
	if dt, err := time.Parse("2006-01-02 15:04", m.Date+" "+start); err == nil {
		m.Completed = now.After(dt)
	}
}
