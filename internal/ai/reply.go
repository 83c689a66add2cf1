package ai

import (
	"context"
	"fmt"
	"strings"
)

const replySystemPrompt = "You are a warm, upbeat scheduling assistant. " +
	"Blend empathy with practical insight, highlight next steps or suggestions, " +
	"and mirror the user's mood without being overly formal. Keep answers concise " +
	"(2-4 sentences), avoid jargon unless the user invites it, and always end with " +
	"an optional question or invitation to continue the chat."

// GenerateReply produces the conversational answer to a user message. The
// optional calendarContext is injected as a second system message so the
// assistant can reference upcoming meetings. Any failure falls back to a
// templated reply; chat never surfaces transport errors to the user.
func (c *Client) GenerateReply(ctx context.Context, userMessage string, history []Message, calendarContext string) string {
	cleaned := strings.TrimSpace(userMessage)
	if cleaned == "" {
		return "Could you share a bit more so I can help?"
	}
	if !c.Enabled() {
		return fallbackReply(cleaned)
	}

	messages := make([]Message, 0, len(history)+3)
	messages = append(messages, Message{Role: "system", Content: replySystemPrompt})
	if calendarContext != "" {
		messages = append(messages, Message{Role: "system", Content: calendarContext})
	}
	messages = append(messages, normalizeHistory(history)...)
	messages = append(messages, Message{Role: "user", Content: cleaned})

	reply, err := c.complete(ctx, messages, false)
	if err != nil {
		c.log.Warnw("reply generation failed, using fallback", "err", err)
		return fallbackReply(cleaned)
	}
	if reply == "" {
		c.log.Warn("reply generation returned empty content, using fallback")
		return fallbackReply(cleaned)
	}
	return reply
}

// normalizeHistory drops turns with missing role or empty content.
func normalizeHistory(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if m.Role == "" || content == "" {
			continue
		}
		out = append(out, Message{Role: m.Role, Content: content})
	}
	return out
}

func fallbackReply(userMessage string) string {
	return fmt.Sprintf("✨ Thanks for the update! You mentioned: %q. How else can I support you?", userMessage)
}
