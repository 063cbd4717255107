package service

import (
	"context"
	"time"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	"github.com/vcenk/SmartRealtorAgent/internal/rag"
	"github.com/vcenk/SmartRealtorAgent/internal/repo"
	"github.com/vcenk/SmartRealtorAgent/internal/skills"
)

// AgentStorage backs the skill registry with postgres. It is the only
// bridge between skills and the data layer; widening the skills.Storage
// surface means widening what every skill can reach, so additions go
// through that interface first.
type AgentStorage struct {
	retriever *rag.Retriever
	leads     *repo.LeadRepo
	messages  *repo.MessageRepo
}

func NewAgentStorage(retriever *rag.Retriever, leads *repo.LeadRepo, messages *repo.MessageRepo) *AgentStorage {
	return &AgentStorage{retriever: retriever, leads: leads, messages: messages}
}

func (s *AgentStorage) SearchKnowledge(ctx context.Context, tenantID, query string) ([]skills.KnowledgeHit, error) {
	passages, err := s.retriever.Retrieve(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}
	hits := make([]skills.KnowledgeHit, 0, len(passages))
	for _, p := range passages {
		hits = append(hits, skills.KnowledgeHit{
			SourceID: p.Chunk.SourceID,
			Title:    p.Chunk.Title,
			URL:      p.Chunk.URL,
			Snippet:  p.Chunk.Snippet,
		})
	}
	return hits, nil
}

func (s *AgentStorage) UpsertLead(ctx context.Context, tenantID string, payload map[string]interface{}) (string, error) {
	lead := &model.Lead{
		ID:        newID(),
		TenantID:  tenantID,
		Payload:   payload,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.leads.Insert(ctx, lead); err != nil {
		return "", err
	}
	return lead.ID, nil
}

func (s *AgentStorage) AppendConversationMessage(ctx context.Context, tenantID, conversationID, role, content string) (string, error) {
	msg := &model.Message{
		ID:             newID(),
		TenantID:       tenantID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().Unix(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}
