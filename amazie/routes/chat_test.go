package routes

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iamham/amazie/amazie/controllers"
	"github.com/iamham/amazie/amazie/services/assistant"
)

func TestWriteChatErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not configured", assistant.ErrNotConfigured, 503, "configuration_error"},
		{"empty message", assistant.ErrEmptyMessage, 400, "invalid_input"},
		{"invalid image", controllers.ErrInvalidImage, 400, "invalid_input"},
		{"session not initialized", assistant.ErrSessionNotInitialized, 500, "session_error"},
		{"anything else", errors.New("boom"), 500, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeChatError(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.wantCode) {
				t.Errorf("body %q missing code %q", rec.Body.String(), tc.wantCode)
			}
		})
	}
}

func TestChatErrorCodeWraps(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), assistant.ErrNotConfigured)
	if got := chatErrorCode(wrapped); got != "configuration_error" {
		t.Errorf("wrapped error code = %q", got)
	}
}
