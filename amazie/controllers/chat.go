package controllers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/iamham/amazie/amazie/services/assistant"
	"github.com/iamham/amazie/amazie/sources/psql/dao"
	"github.com/iamham/amazie/amazie/sources/psql/models"
	"github.com/iamham/amazie/amazie/sources/storage"
	"github.com/iamham/amazie/amazie/utils/logging"
	"github.com/iamham/amazie/amazie/utils/types"
)

// ErrInvalidImage means the request carried an image payload that is not
// valid base64.
var ErrInvalidImage = errors.New("invalid image payload")

// turnRunner is the slice of assistant.Assistant the controller needs.
type turnRunner interface {
	StartSession(ctx context.Context) (*assistant.Session, error)
	SendTurn(ctx context.Context, s *assistant.Session, text string, imageData []byte) (*assistant.TurnResult, error)
}

type ChatController struct {
	assistant turnRunner
	chatDAO   *dao.ChatMessageDAO
	images    *storage.MinIOClient

	mu       sync.Mutex
	sessions map[string]*assistant.Session
}

// NewChatController wires the chat surface. a may be nil when the Gemini
// credential is absent; turns then fail with assistant.ErrNotConfigured
// instead of crashing at startup.
func NewChatController(a *assistant.Assistant, chatDAO *dao.ChatMessageDAO, images *storage.MinIOClient) *ChatController {
	c := &ChatController{
		chatDAO:  chatDAO,
		images:   images,
		sessions: make(map[string]*assistant.Session),
	}
	if a != nil {
		c.assistant = a
	}
	return c
}

// Chat runs one full turn for a shopper: decode the image, reuse or open
// the conversation session, run the tool-calling exchange, persist both
// sides and hand back the reply with any matched products.
func (c *ChatController) Chat(ctx context.Context, shopperID string, req types.ChatRequest) (*types.ChatResponse, error) {
	if c.assistant == nil {
		return nil, assistant.ErrNotConfigured
	}

	imageData, mimeType, err := decodeImagePayload(req.Image)
	if err != nil {
		return nil, err
	}
	if req.Message == "" && len(imageData) == 0 {
		return nil, assistant.ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.chatDAO.CreateSessionID()
	}
	sess, err := c.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var imageKey string
	if len(imageData) > 0 && c.images != nil {
		key, upErr := c.images.UploadChatImage(ctx, sessionID, imageData, mimeType)
		if upErr != nil {
			logging.ErrorLogger.Error("chat image archive failed", zap.Error(upErr))
		} else {
			imageKey = key
		}
	}

	if err := c.chatDAO.SaveMessage(ctx, &models.ChatMessage{
		SessionID: sessionID,
		ShopperID: shopperID,
		Role:      models.RoleUser,
		Text:      req.Message,
		ImageKey:  imageKey,
	}); err != nil {
		return nil, err
	}

	result, err := c.assistant.SendTurn(ctx, sess, req.Message, imageData)
	if err != nil {
		return nil, err
	}

	if err := c.chatDAO.SaveMessage(ctx, &models.ChatMessage{
		SessionID: sessionID,
		ShopperID: shopperID,
		Role:      models.RoleModel,
		Text:      result.Text,
		Products:  result.Products,
	}); err != nil {
		// The shopper already has the reply on screen; losing the
		// transcript row is the lesser failure.
		logging.ErrorLogger.Error("failed to persist model reply", zap.Error(err))
	}

	return &types.ChatResponse{
		SessionID: sessionID,
		Text:      result.Text,
		Products:  result.Products,
	}, nil
}

// session returns the live conversation handle for sessionID, opening
// one on first use. Handles persist for the process lifetime so the
// model keeps its conversational memory between turns.
func (c *ChatController) session(ctx context.Context, sessionID string) (*assistant.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess, ok := c.sessions[sessionID]; ok {
		return sess, nil
	}
	sess, err := c.assistant.StartSession(ctx)
	if err != nil {
		return nil, err
	}
	c.sessions[sessionID] = sess
	return sess, nil
}

func (c *ChatController) GetMessagesForSession(ctx context.Context, shopperID, sessionID string) ([]models.ChatMessage, error) {
	return c.chatDAO.GetSessionMessages(ctx, shopperID, sessionID)
}

func (c *ChatController) ListSessions(ctx context.Context, shopperID string) ([]types.ChatSessionSummary, error) {
	return c.chatDAO.ListSessions(ctx, shopperID)
}

func (c *ChatController) DeleteSession(ctx context.Context, shopperID, sessionID string) error {
	if err := c.chatDAO.DeleteSession(ctx, shopperID, sessionID); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
	return nil
}

// decodeImagePayload accepts a data URI (data:image/jpeg;base64,...) or
// bare base64 and returns the raw bytes plus the detected MIME type.
func decodeImagePayload(payload string) ([]byte, string, error) {
	if payload == "" {
		return nil, "", nil
	}
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		if _, rest, ok := strings.Cut(payload, ","); ok {
			encoded = rest
		}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", ErrInvalidImage
	}
	return data, http.DetectContentType(data), nil
}
