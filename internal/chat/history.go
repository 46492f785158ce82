// Package chat relays widget conversations to the LLM collaborator.
package chat

import "strings"

// Roles used by the widget history wire format.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one text fragment of a conversation turn.
type Part struct {
	Text string `json:"text"`
}

// Turn is one entry of the widget conversation history. The history sequence
// is append-only and owned by the client; the relay never mutates it.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Text flattens a turn's parts into one message string.
func (t Turn) Text() string {
	if len(t.Parts) == 1 {
		return t.Parts[0].Text
	}
	var b strings.Builder
	for _, part := range t.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// UserTurn builds one user history entry.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// ModelTurn builds one model history entry.
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{Text: text}}}
}
