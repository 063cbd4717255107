package skills

import (
	"context"
	"fmt"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
)

func (in AppendMessageInput) validate() error {
	if in.Role != model.RoleUser && in.Role != model.RoleAssistant {
		return fmt.Errorf("role must be user or assistant")
	}
	if in.Content == "" {
		return fmt.Errorf("content must not be empty")
	}
	return nil
}

func (out AppendMessageOutput) validate() error {
	if out.MessageID == "" {
		return fmt.Errorf("message id must be present")
	}
	return nil
}

func (r *Registry) execAppendMessage(ctx context.Context, in AppendMessageInput, sctx Context) (AppendMessageOutput, error) {
	messageID, err := r.store.AppendConversationMessage(ctx, sctx.TenantID, sctx.ConversationID, in.Role, in.Content)
	if err != nil {
		return AppendMessageOutput{}, err
	}
	return AppendMessageOutput{MessageID: messageID}, nil
}
