package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcenk/SmartRealtorAgent/internal/skills"
)

type fakeStorage struct {
	hits      []skills.KnowledgeHit
	searchErr error
	leadErr   error

	leadPayloads []map[string]interface{}
	messages     []string
}

func (f *fakeStorage) SearchKnowledge(ctx context.Context, tenantID, query string) ([]skills.KnowledgeHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeStorage) UpsertLead(ctx context.Context, tenantID string, payload map[string]interface{}) (string, error) {
	if f.leadErr != nil {
		return "", f.leadErr
	}
	f.leadPayloads = append(f.leadPayloads, payload)
	return "lead-1", nil
}

func (f *fakeStorage) AppendConversationMessage(ctx context.Context, tenantID, conversationID, role, content string) (string, error) {
	f.messages = append(f.messages, content)
	return "msg-1", nil
}

func newTestOrchestrator(store *fakeStorage) *Orchestrator {
	return NewOrchestrator(skills.NewRegistry(store))
}

func TestOrchestrator_BuyerLeadCapturesLead(t *testing.T) {
	store := &fakeStorage{
		hits: []skills.KnowledgeHit{
			{SourceID: "s1", Title: "First-time buyers", Snippet: "We help buyers with financing and tours."},
		},
	}
	o := newTestOrchestrator(store)
	resp, err := o.Run(context.Background(), Request{
		TenantID:       "tenant-a",
		ConversationID: "conv-1",
		UserMessage:    "I want to buy a house in Westside",
	})
	require.NoError(t, err)

	require.Equal(t, "We help buyers with financing and tours.", resp.AssistantMessage)
	require.Len(t, resp.LeadUpdates, 1)
	require.Equal(t, "lead-1", resp.LeadUpdates[0].LeadID)
	require.Len(t, store.leadPayloads, 1)
	require.Equal(t, "qualifying", store.leadPayloads[0]["stage"])

	names := make([]string, 0, len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		require.True(t, call.Success)
		names = append(names, call.ToolName)
	}
	require.Equal(t, []string{skills.NameKBSearch, skills.NameLeadsUpsert, skills.NameConversationsAppend}, names)
	require.Len(t, resp.Citations, 1)
	require.Equal(t, "s1", resp.Citations[0].SourceID)
}

func TestOrchestrator_FactualQuestionWithoutEvidenceFallsBack(t *testing.T) {
	store := &fakeStorage{}
	o := newTestOrchestrator(store)
	resp, err := o.Run(context.Background(), Request{
		TenantID:       "tenant-a",
		ConversationID: "conv-2",
		UserMessage:    "What are the hoa fees for this unit?",
	})
	require.NoError(t, err)
	require.Equal(t, FallbackMessage, resp.AssistantMessage)
	require.Empty(t, resp.Citations)
	require.Empty(t, resp.LeadUpdates)
}

func TestOrchestrator_SearchFailureStillAnswers(t *testing.T) {
	store := &fakeStorage{searchErr: errors.New("db down")}
	o := newTestOrchestrator(store)
	resp, err := o.Run(context.Background(), Request{
		TenantID:       "tenant-a",
		ConversationID: "conv-3",
		UserMessage:    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, DefaultMessage, resp.AssistantMessage)

	require.NotEmpty(t, resp.ToolCalls)
	require.Equal(t, skills.NameKBSearch, resp.ToolCalls[0].ToolName)
	require.False(t, resp.ToolCalls[0].Success)
	require.NotEmpty(t, resp.ToolCalls[0].Error)
}

func TestOrchestrator_LeadUpsertFailureKeepsReply(t *testing.T) {
	store := &fakeStorage{leadErr: errors.New("insert failed")}
	o := newTestOrchestrator(store)
	resp, err := o.Run(context.Background(), Request{
		TenantID:       "tenant-a",
		ConversationID: "conv-4",
		UserMessage:    "I want to sell my place",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AssistantMessage)
	require.Len(t, resp.LeadUpdates, 1)
	require.Empty(t, resp.LeadUpdates[0].LeadID)
}

func TestOrchestrator_UserMessageLogged(t *testing.T) {
	store := &fakeStorage{}
	o := newTestOrchestrator(store)
	_, err := o.Run(context.Background(), Request{
		TenantID:       "tenant-a",
		ConversationID: "conv-5",
		UserMessage:    "good morning",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"good morning"}, store.messages)
}
