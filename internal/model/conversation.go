package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable entry in a conversation's append-only log.
type Message struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CreatedAt      int64  `json:"created_at"`
}
