// Package model holds the domain types shared by the store, the HTTP API and
// the consultation engine.
package model

import (
	"time"

	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversational message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one persisted consultation: its transcript and extraction state.
type Session struct {
	ID        string        `json:"id"`
	Messages  []Message     `json:"messages"`
	State     profile.State `json:"state"`
	Ready     bool          `json:"ready_for_analysis"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UserText concatenates every user message, used as the grounding corpus.
func UserText(messages []Message, current string) string {
	text := current
	for _, m := range messages {
		if m.Role == RoleUser {
			text += " " + m.Content
		}
	}
	return text
}
