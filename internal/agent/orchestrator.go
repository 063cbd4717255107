package agent

import (
	"context"
	"encoding/json"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	"github.com/vcenk/SmartRealtorAgent/internal/skills"
)

const (
	// Returned when policy disallows a generated answer.
	FallbackMessage = "I want to make sure I stay accurate. Could you share more details so I can answer with verified sources?"
	// Returned when there is nothing retrieved to answer with.
	DefaultMessage = "Thanks for your question. I can help once you share a little more detail."
)

type Request struct {
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	UserMessage    string `json:"user_message"`
}

type LeadUpdate struct {
	LeadID string                 `json:"lead_id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type Response struct {
	AssistantMessage string                  `json:"assistant_message"`
	ToolCalls        []skills.ToolCallRecord `json:"tool_calls"`
	Citations        []model.Citation        `json:"citations"`
	LeadUpdates      []LeadUpdate            `json:"lead_updates"`
}

// Orchestrator composes intent routing, retrieval, policy evaluation
// and skill execution into one auditable request/response cycle. It is
// stateless and safe for concurrent use.
type Orchestrator struct {
	registry *skills.Registry
}

func NewOrchestrator(registry *skills.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Run executes one chat turn. Individual skill failures are recorded in
// the tool call trail and never abort the turn; the caller always gets
// a reply.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Response, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("tenant_id", req.TenantID),
		zap.String("conversation_id", req.ConversationID),
	)

	route := RouteIntent(req.UserMessage)
	logger.Debug("intent routed",
		zap.String("intent", string(route.Intent)),
		zap.Float64("confidence", route.Confidence),
	)

	state := NewConversationState()
	resp := &Response{
		ToolCalls:   []skills.ToolCallRecord{},
		Citations:   []model.Citation{},
		LeadUpdates: []LeadUpdate{},
	}
	sctx := skills.Context{
		TenantID:       req.TenantID,
		ConversationID: req.ConversationID,
		Permissions:    []string{skills.PermKBRead, skills.PermLeadWrite, skills.PermConversationWrite},
	}

	var kbResults skills.KBSearchOutput
	kbOut, err := o.callSkill(ctx, resp, skills.NameKBSearch, skills.KBSearchInput{Query: req.UserMessage}, sctx)
	if err != nil {
		logger.Warn("kb search failed, continuing with empty citations", zap.Error(err))
	} else {
		kbResults = kbOut.(skills.KBSearchOutput)
		resp.Citations = append(resp.Citations, kbResults.Citations...)
	}

	hasFactualClaims := route.Intent == IntentFAQ || route.Intent == IntentListingQuestion
	decision := EvaluatePolicy(PolicyInput{
		Intent:           route.Intent,
		HasCitations:     len(resp.Citations) > 0,
		HasFactualClaims: hasFactualClaims,
		KBResultsCount:   len(kbResults.Passages),
	})

	if decision.RequireLeadCapture {
		// NEW leads move straight into qualification on a lead intent.
		if err := state.Transition(StateEngaged); err != nil {
			return nil, err
		}
		if err := state.Transition(StateQualifying); err != nil {
			return nil, err
		}
		leadUpdate := LeadUpdate{
			Fields: map[string]interface{}{"stage": "qualifying", "intent": string(route.Intent)},
		}
		payload := map[string]interface{}{"stage": "qualifying", "source": "chat"}
		out, err := o.callSkill(ctx, resp, skills.NameLeadsUpsert, skills.LeadsUpsertInput{LeadPayload: payload}, sctx)
		if err != nil {
			logger.Warn("lead upsert failed", zap.Error(err))
		} else {
			leadUpdate.LeadID = out.(skills.LeadsUpsertOutput).LeadID
		}
		resp.LeadUpdates = append(resp.LeadUpdates, leadUpdate)
	}

	if _, err := o.callSkill(ctx, resp, skills.NameConversationsAppend, skills.AppendMessageInput{
		Role:    model.RoleUser,
		Content: req.UserMessage,
	}, sctx); err != nil {
		logger.Warn("conversation append failed", zap.Error(err))
	}

	switch {
	case decision.UseFallback:
		resp.AssistantMessage = FallbackMessage
	case len(kbResults.Passages) > 0:
		resp.AssistantMessage = kbResults.Passages[0].Text
	default:
		resp.AssistantMessage = DefaultMessage
	}
	return resp, nil
}

// callSkill executes one skill through the registry and appends its
// audit record, success or failure, to the response trail.
func (o *Orchestrator) callSkill(ctx context.Context, resp *Response, name string, input interface{}, sctx skills.Context) (interface{}, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	out, err := o.registry.Execute(ctx, name, raw, sctx)
	record := skills.ToolCallRecord{
		ToolName: name,
		Input:    input,
		Success:  err == nil,
	}
	if err != nil {
		record.Error = err.Error()
	} else {
		record.Output = out
	}
	resp.ToolCalls = append(resp.ToolCalls, record)
	return out, err
}
