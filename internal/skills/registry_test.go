package skills

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

type recordingStore struct {
	searched bool
	upserted bool
	appended bool
	snippet  string
}

func (s *recordingStore) SearchKnowledge(ctx context.Context, tenantID, query string) ([]KnowledgeHit, error) {
	s.searched = true
	snippet := s.snippet
	if snippet == "" {
		snippet = "text"
	}
	return []KnowledgeHit{{SourceID: "s1", Title: "doc", Snippet: snippet}}, nil
}

func (s *recordingStore) UpsertLead(ctx context.Context, tenantID string, payload map[string]interface{}) (string, error) {
	s.upserted = true
	return "lead-1", nil
}

func (s *recordingStore) AppendConversationMessage(ctx context.Context, tenantID, conversationID, role, content string) (string, error) {
	s.appended = true
	return "msg-1", nil
}

func fullContext() Context {
	return Context{
		TenantID:       "tenant-a",
		ConversationID: "conv-1",
		Permissions:    []string{PermKBRead, PermLeadWrite, PermConversationWrite},
	}
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry(&recordingStore{})
	_, err := r.Execute(context.Background(), "kb.delete", mustJSON(t, map[string]string{}), fullContext())
	require.ErrorIs(t, err, apperr.ErrUnknownTool)
}

func TestRegistry_PermissionDeniedBeforeExecution(t *testing.T) {
	store := &recordingStore{}
	r := NewRegistry(store)
	sctx := fullContext()
	sctx.Permissions = []string{PermKBRead}

	_, err := r.Execute(context.Background(), NameLeadsUpsert, mustJSON(t, LeadsUpsertInput{
		LeadPayload: map[string]interface{}{"name": "Dana"},
	}), sctx)
	require.ErrorIs(t, err, apperr.ErrPermissionDenied)
	require.False(t, store.upserted)
}

func TestRegistry_InputValidation(t *testing.T) {
	store := &recordingStore{}
	r := NewRegistry(store)

	_, err := r.Execute(context.Background(), NameKBSearch, mustJSON(t, KBSearchInput{Query: "x"}), fullContext())
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	require.False(t, store.searched)

	_, err = r.Execute(context.Background(), NameLeadsUpsert, mustJSON(t, LeadsUpsertInput{}), fullContext())
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRegistry_RejectsUnknownFields(t *testing.T) {
	r := NewRegistry(&recordingStore{})
	raw := json.RawMessage(`{"query":"valid question","extra":"field"}`)
	_, err := r.Execute(context.Background(), NameKBSearch, raw, fullContext())
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRegistry_AppendRequiresConversation(t *testing.T) {
	store := &recordingStore{}
	r := NewRegistry(store)
	sctx := fullContext()
	sctx.ConversationID = ""

	_, err := r.Execute(context.Background(), NameConversationsAppend, mustJSON(t, AppendMessageInput{
		Role:    "user",
		Content: "hi",
	}), sctx)
	require.ErrorIs(t, err, apperr.ErrPermissionDenied)
	require.False(t, store.appended)
}

func TestRegistry_AppendRejectsBadRole(t *testing.T) {
	r := NewRegistry(&recordingStore{})
	_, err := r.Execute(context.Background(), NameConversationsAppend, mustJSON(t, AppendMessageInput{
		Role:    "system",
		Content: "hi",
	}), fullContext())
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRegistry_SuccessPaths(t *testing.T) {
	store := &recordingStore{}
	r := NewRegistry(store)
	sctx := fullContext()

	out, err := r.Execute(context.Background(), NameKBSearch, mustJSON(t, KBSearchInput{Query: "hoa fees"}), sctx)
	require.NoError(t, err)
	kb, ok := out.(KBSearchOutput)
	require.True(t, ok)
	require.Len(t, kb.Passages, 1)
	require.Len(t, kb.Citations, 1)

	out, err = r.Execute(context.Background(), NameLeadsUpsert, mustJSON(t, LeadsUpsertInput{
		LeadPayload: map[string]interface{}{"name": "Dana"},
	}), sctx)
	require.NoError(t, err)
	require.Equal(t, "lead-1", out.(LeadsUpsertOutput).LeadID)

	out, err = r.Execute(context.Background(), NameConversationsAppend, mustJSON(t, AppendMessageInput{
		Role:    "user",
		Content: "hi there",
	}), sctx)
	require.NoError(t, err)
	require.Equal(t, "msg-1", out.(AppendMessageOutput).MessageID)
	require.True(t, store.searched)
	require.True(t, store.upserted)
	require.True(t, store.appended)
}

func TestRegistry_KBSearchCapsCitationSnippet(t *testing.T) {
	store := &recordingStore{snippet: strings.Repeat("a", 500)}
	r := NewRegistry(store)

	out, err := r.Execute(context.Background(), NameKBSearch, mustJSON(t, KBSearchInput{Query: "hoa fees"}), fullContext())
	require.NoError(t, err)
	kb := out.(KBSearchOutput)
	require.Len(t, kb.Citations, 1)
	require.Len(t, kb.Citations[0].Snippet, 200)
	// The passage keeps the full text; only the citation is trimmed.
	require.Len(t, kb.Passages[0].Text, 500)
}

func TestRegistry_ListIsClosedSet(t *testing.T) {
	r := NewRegistry(&recordingStore{})
	require.Equal(t, []string{NameKBSearch, NameLeadsUpsert, NameConversationsAppend}, r.List())
}
