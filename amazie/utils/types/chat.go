package types

import "github.com/iamham/amazie/amazie/catalog"

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	// Image is the uploaded picture as a data URI
	// (data:image/jpeg;base64,...) or bare base64.
	Image string `json:"image,omitempty"`
}

type ChatResponse struct {
	SessionID string            `json:"session_id"`
	Text      string            `json:"text"`
	Products  []catalog.Product `json:"products,omitempty"`
}

// For session/thread summary in the widget's history panel.
// LastActivity: RFC3339 string
type ChatSessionSummary struct {
	SessionID       string `json:"session_id"`
	LastMessage     string `json:"last_message"`
	LastMessageRole string `json:"last_message_role"`
	LastActivity    string `json:"last_activity"`
}
