package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vcenk/SmartRealtorAgent/internal/agent"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/errcode"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/response"
	"github.com/vcenk/SmartRealtorAgent/internal/service"
)

// Replies stream as plain text in fixed-size chunks; the structured
// parts of the turn (citations, tool audit trail) ride ahead of the
// body as headers so the widget can render them before the text lands.
const streamChunkSize = 16

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// Chat serves the authenticated console; the tenant comes from the JWT.
func (h *ChatHandler) Chat(c *gin.Context) {
	h.run(c, getTenantID(c), false)
}

// WidgetChat serves the embeddable widget. It is public; the tenant is
// part of the route, the rate limiter fronts it, and the service
// rejects tenants that were never provisioned.
func (h *ChatHandler) WidgetChat(c *gin.Context) {
	h.run(c, c.Param("tenant"), true)
}

func (h *ChatHandler) run(c *gin.Context, tenantID string, public bool) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	var (
		resp           *agent.Response
		conversationID string
		err            error
	)
	if public {
		resp, conversationID, err = h.chat.WidgetChat(c.Request.Context(), tenantID, req.ConversationID, req.Message)
	} else {
		resp, conversationID, err = h.chat.Chat(c.Request.Context(), tenantID, req.ConversationID, req.Message)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	// JSON-encoded values are newline-free, so they are header-safe.
	citations, _ := json.Marshal(resp.Citations)
	toolCalls, _ := json.Marshal(resp.ToolCalls)
	leadUpdates, _ := json.Marshal(resp.LeadUpdates)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Conversation-Id", conversationID)
	c.Header("X-Citations", string(citations))
	c.Header("X-Tool-Calls", string(toolCalls))
	c.Header("X-Lead-Updates", string(leadUpdates))
	c.Status(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	message := []byte(resp.AssistantMessage)
	for start := 0; start < len(message); start += streamChunkSize {
		end := start + streamChunkSize
		if end > len(message) {
			end = len(message)
		}
		if _, err := c.Writer.Write(message[start:end]); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Messages lists a conversation's log, oldest first.
func (h *ChatHandler) Messages(c *gin.Context) {
	messages, err := h.chat.ListMessages(c.Request.Context(), getTenantID(c), c.Param("id"), 0)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, messages)
}
