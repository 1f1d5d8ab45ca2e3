package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamham/amazie/amazie/sources/psql/models"
	"github.com/iamham/amazie/amazie/utils/types"
)

var ErrSessionNotFound = errors.New("session not found or forbidden")

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

func (dao *ChatMessageDAO) CreateSessionID() string {
	return uuid.New().String()
}

func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	return dao.DB.WithContext(ctx).Create(msg).Error
}

// GetSessionMessages returns a session's transcript in send order. The
// shopper id scopes the lookup so one shopper cannot read another's
// conversation.
func (dao *ChatMessageDAO) GetSessionMessages(ctx context.Context, shopperID, sessionID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("shopper_id = ? AND session_id = ?", shopperID, sessionID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrSessionNotFound
	}
	return msgs, nil
}

// ListSessions returns one summary per session, newest activity first.
func (dao *ChatMessageDAO) ListSessions(ctx context.Context, shopperID string) ([]types.ChatSessionSummary, error) {
	rows, err := dao.DB.WithContext(ctx).Raw(`
		SELECT session_id, text, role, created_at
		FROM chat_messages cm
		WHERE shopper_id = ?
		  AND created_at = (
			SELECT MAX(created_at) FROM chat_messages
			WHERE session_id = cm.session_id AND shopper_id = cm.shopper_id
		  )
		ORDER BY created_at DESC`, shopperID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []types.ChatSessionSummary
	for rows.Next() {
		var msg models.ChatMessage
		if err := dao.DB.ScanRows(rows, &msg); err != nil {
			return nil, err
		}
		sessions = append(sessions, types.ChatSessionSummary{
			SessionID:       msg.SessionID,
			LastMessage:     msg.Text,
			LastMessageRole: msg.Role,
			LastActivity:    msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return sessions, rows.Err()
}

func (dao *ChatMessageDAO) DeleteSession(ctx context.Context, shopperID, sessionID string) error {
	res := dao.DB.WithContext(ctx).
		Where("shopper_id = ? AND session_id = ?", shopperID, sessionID).
		Delete(&models.ChatMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
