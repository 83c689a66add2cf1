package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Action kinds the model may return.
const (
	ActionNone       = "none"
	ActionCreate     = "create"
	ActionDelete     = "delete"
	ActionReschedule = "reschedule"
)

// Action is the calendar instruction extracted from a chat message. For
// reschedules the plain fields locate the existing meeting and the New*
// fields carry the changes; blank New* fields mean unchanged.
type Action struct {
	Action         string `json:"action"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	EventID        string `json:"event_id"`
	Category       string `json:"category"`
	NewTitle       string `json:"new_title"`
	NewDescription string `json:"new_description"`
	NewDate        string `json:"new_date"`
	NewStartTime   string `json:"new_start_time"`
	NewEndTime     string `json:"new_end_time"`
	NewCategory    string `json:"new_category"`
}

const actionSystemPrompt = "You are an assistant that extracts calendar instructions. " +
	"Respond ONLY with JSON containing: " +
	`{"action":"none|create|delete|reschedule","title":"","description":"","date":"","start_time":"","end_time":"","event_id":"","category":"","new_title":"","new_description":"","new_date":"","new_start_time":"","new_end_time":"","new_category":""}. ` +
	"Use ISO 8601 date (YYYY-MM-DD) and 24-hour HH:MM time in the user's locale. " +
	"If the user does not specify a time, leave start_time empty. " +
	"If deleting, populate event_id if provided; otherwise fill title/date fields as clues. " +
	"If rescheduling, fill both the original fields (title/date/start_time) so the existing meeting can be found, " +
	"and provide the new_* fields with updated information (leave new_* blank if unchanged). " +
	"Set category to 'work' for work/professional commitments and 'personal' for leisure plans like hobbies, " +
	"social events, or appointments. Use new_category when the rescheduled meeting should change category. " +
	"If no calendar action is needed, set action to 'none'."

// ExtractAction asks the model whether the user message requests a calendar
// change. A disabled client, a model answer that is not valid JSON, or an
// unknown action kind all yield (nil, nil): no instruction, not an error the
// chat flow should surface.
func (c *Client) ExtractAction(ctx context.Context, userMessage string, history []Message) (*Action, error) {
	if !c.Enabled() {
		return nil, nil
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: actionSystemPrompt})
	messages = append(messages, normalizeHistory(history)...)
	messages = append(messages, Message{Role: "user", Content: strings.TrimSpace(userMessage)})

	content, err := c.complete(ctx, messages, true)
	if err != nil {
		return nil, fmt.Errorf("plan calendar action: %w", err)
	}
	if content == "" {
		return nil, nil
	}

	var action Action
	if err := json.Unmarshal([]byte(content), &action); err != nil {
		c.log.Debugw("model returned invalid JSON for calendar action", "content", truncate(content, 200))
		return nil, nil
	}
	switch action.Action {
	case ActionCreate, ActionDelete, ActionReschedule:
		return &action, nil
	case ActionNone:
		return nil, nil
	default:
		return nil, nil
	}
}
