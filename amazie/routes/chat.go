package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/iamham/amazie/amazie/config"
	"github.com/iamham/amazie/amazie/controllers"
	"github.com/iamham/amazie/amazie/middlewares"
	"github.com/iamham/amazie/amazie/services/assistant"
	"github.com/iamham/amazie/amazie/sources/psql/dao"
	"github.com/iamham/amazie/amazie/utils/types"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// POST /chat/ : one full turn
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			shopperID := r.Context().Value(middlewares.ShopperIDKey).(string)
			resp, err := ctrl.Chat(r.Context(), shopperID, req)
			if err != nil {
				writeChatError(w, err)
				return
			}
			json.NewEncoder(w).Encode(resp)
		})
		// GET /chat/sessions : the shopper's conversation threads
		gr.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
			shopperID := r.Context().Value(middlewares.ShopperIDKey).(string)
			sessions, err := ctrl.ListSessions(r.Context(), shopperID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(sessions)
		})
		// GET /chat/session/{session_id}/messages : full transcript
		gr.Get("/session/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			shopperID := r.Context().Value(middlewares.ShopperIDKey).(string)
			sessionID := chi.URLParam(r, "session_id")
			msgs, err := ctrl.GetMessagesForSession(r.Context(), shopperID, sessionID)
			if err != nil {
				if errors.Is(err, dao.ErrSessionNotFound) {
					http.Error(w, err.Error(), http.StatusNotFound)
				} else {
					http.Error(w, err.Error(), http.StatusInternalServerError)
				}
				return
			}
			json.NewEncoder(w).Encode(msgs)
		})
		// DELETE /chat/session/{session_id} : drop one thread
		gr.Delete("/session/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			shopperID := r.Context().Value(middlewares.ShopperIDKey).(string)
			sessionID := chi.URLParam(r, "session_id")
			if err := ctrl.DeleteSession(r.Context(), shopperID, sessionID); err != nil {
				if errors.Is(err, dao.ErrSessionNotFound) {
					http.Error(w, err.Error(), http.StatusNotFound)
				} else {
					http.Error(w, err.Error(), http.StatusInternalServerError)
				}
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// Websocket turn: the widget sends {token, chat_request}, receives a
	// thinking event while the turn is pending, then the reply.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token       string            `json:"token"`
			ChatRequest types.ChatRequest `json:"chat_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		shopperID, err := middlewares.ParseShopperToken(cfg, input.Token)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		conn.Write(ctx, websocket.MessageText, []byte(`{"type":"thinking"}`))

		resp, err := ctrl.Chat(ctx, shopperID, input.ChatRequest)
		if err != nil {
			payload, _ := json.Marshal(map[string]string{"type": "error", "error": chatErrorCode(err)})
			conn.Write(ctx, websocket.MessageText, payload)
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}
		payload, _ := json.Marshal(map[string]any{"type": "reply", "payload": resp})
		conn.Write(ctx, websocket.MessageText, payload)
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}

// writeChatError maps the caller-facing failures: configuration and
// sequencing mistakes are visible and distinguishable, everything else
// already arrived masked inside a normal reply.
func writeChatError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.Is(err, assistant.ErrNotConfigured):
		w.WriteHeader(http.StatusServiceUnavailable)
	case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, controllers.ErrInvalidImage):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]string{
		"error":   chatErrorCode(err),
		"message": err.Error(),
	})
}

func chatErrorCode(err error) string {
	switch {
	case errors.Is(err, assistant.ErrNotConfigured):
		return "configuration_error"
	case errors.Is(err, assistant.ErrEmptyMessage):
		return "invalid_input"
	case errors.Is(err, controllers.ErrInvalidImage):
		return "invalid_input"
	case errors.Is(err, assistant.ErrSessionNotInitialized):
		return "session_error"
	default:
		return "internal_error"
	}
}
