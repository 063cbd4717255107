package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/agent"
	"github.com/vcenk/SmartRealtorAgent/internal/model"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
	"github.com/vcenk/SmartRealtorAgent/internal/repo"
)

const maxMessageChars = 4000

// TenantChecker answers whether a tenant id is provisioned. Satisfied
// by repo.TenantRepo.
type TenantChecker interface {
	Exists(ctx context.Context, tenantID string) (bool, error)
}

type ChatService struct {
	orchestrator *agent.Orchestrator
	storage      *AgentStorage
	messages     *repo.MessageRepo
	tenants      TenantChecker
}

func NewChatService(orchestrator *agent.Orchestrator, storage *AgentStorage, messages *repo.MessageRepo, tenants TenantChecker) *ChatService {
	return &ChatService{orchestrator: orchestrator, storage: storage, messages: messages, tenants: tenants}
}

// WidgetChat runs one turn for the public widget. The tenant id comes
// off the URL, so unlike Chat nothing has vouched for it yet: unknown
// or malformed ids are rejected before anything is written under them.
func (s *ChatService) WidgetChat(ctx context.Context, tenantID, conversationID, message string) (*agent.Response, string, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, "", fmt.Errorf("%w: tenant", apperr.ErrNotFound)
	}
	ok, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return nil, "", fmt.Errorf("check tenant: %w", err)
	}
	if !ok {
		return nil, "", fmt.Errorf("%w: tenant", apperr.ErrNotFound)
	}
	return s.Chat(ctx, tenantID, conversationID, message)
}

// Chat runs one turn. A missing conversation id starts a new
// conversation; the id used is always returned so the client can keep
// the thread going.
func (s *ChatService) Chat(ctx context.Context, tenantID, conversationID, message string) (*agent.Response, string, error) {
	if tenantID == "" {
		return nil, "", fmt.Errorf("%w: tenant id is required", apperr.ErrInvalid)
	}
	if message == "" {
		return nil, "", fmt.Errorf("%w: message is required", apperr.ErrInvalid)
	}
	if len(message) > maxMessageChars {
		message = message[:maxMessageChars]
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	resp, err := s.orchestrator.Run(ctx, agent.Request{
		TenantID:       tenantID,
		ConversationID: conversationID,
		UserMessage:    message,
	})
	if err != nil {
		return nil, "", err
	}

	// The user turn was logged through the skill; the reply is ours,
	// not a tool invocation, so it goes straight to storage.
	if _, err := s.storage.AppendConversationMessage(ctx, tenantID, conversationID, model.RoleAssistant, resp.AssistantMessage); err != nil {
		logutil.GetLogger(ctx).Warn("failed to log assistant reply",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}
	return resp, conversationID, nil
}

func (s *ChatService) ListMessages(ctx context.Context, tenantID, conversationID string, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	return s.messages.ListByConversation(ctx, tenantID, conversationID, limit)
}
