package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Insert(ctx context.Context, msg *model.Message) error {
	const query = `
		INSERT INTO messages (id, tenant_id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.TenantID, msg.ConversationID, msg.Role, msg.Content, time.Unix(msg.CreatedAt, 0))
	return err
}

func (r *MessageRepo) ListByConversation(ctx context.Context, tenantID, conversationID string, limit int) ([]model.Message, error) {
	const query = `
		SELECT id, tenant_id, conversation_id, role, content, created_at
		FROM messages
		WHERE tenant_id = $1 AND conversation_id = $2
		ORDER BY created_at
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		var createdAt time.Time
		if err := rows.Scan(&msg.ID, &msg.TenantID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = createdAt.Unix()
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
