package assistant

import "errors"

var (
	// ErrNotConfigured means the Gemini credential is missing or was
	// rejected while building the client. Surfaced distinctly so the
	// widget can tell the shopper to fix setup.
	ErrNotConfigured = errors.New("assistant: gemini api key missing or invalid")

	// ErrSessionNotInitialized is a sequencing error: SendTurn was called
	// before StartSession.
	ErrSessionNotInitialized = errors.New("assistant: chat session not initialized")

	// ErrEmptyMessage means neither text nor image was supplied.
	ErrEmptyMessage = errors.New("assistant: message has no text and no image")
)
