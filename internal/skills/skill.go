package skills

import (
	"context"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
)

// Skill names form a closed set. Adding a skill means adding a case to
// Registry.Execute; there is no runtime registration.
const (
	NameKBSearch            = "kb.search"
	NameLeadsUpsert         = "leads.upsert"
	NameConversationsAppend = "conversations.appendMessage"
)

const (
	PermKBRead            = "kb:read"
	PermLeadWrite         = "lead:write"
	PermConversationWrite = "conversation:write"
)

// Storage is the only surface skills may touch. Production wires it to
// the postgres repos; tests use fakes.
type Storage interface {
	SearchKnowledge(ctx context.Context, tenantID, query string) ([]KnowledgeHit, error)
	UpsertLead(ctx context.Context, tenantID string, payload map[string]interface{}) (leadID string, err error)
	AppendConversationMessage(ctx context.Context, tenantID, conversationID, role, content string) (messageID string, err error)
}

type KnowledgeHit struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Snippet  string `json:"snippet"`
}

// Context carries the tenant scope and granted permissions for one
// skill invocation.
type Context struct {
	TenantID       string
	ConversationID string
	UserID         string
	Permissions    []string
}

func (c Context) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// ToolCallRecord is the audit entry produced for every skill invocation
// in an orchestrator run, success or not.
type ToolCallRecord struct {
	ToolName string      `json:"tool_name"`
	Input    interface{} `json:"input"`
	Output   interface{} `json:"output,omitempty"`
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
}

type Passage struct {
	Text string `json:"text"`
}

type KBSearchInput struct {
	Query string `json:"query"`
}

type KBSearchOutput struct {
	Passages  []Passage        `json:"passages"`
	Citations []model.Citation `json:"citations"`
}

type LeadsUpsertInput struct {
	LeadPayload map[string]interface{} `json:"lead_payload"`
}

type LeadsUpsertOutput struct {
	LeadID string `json:"lead_id"`
}

type AppendMessageInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AppendMessageOutput struct {
	MessageID string `json:"message_id"`
}
