package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vcenk/SmartRealtorAgent/internal/pkg/response"
	"github.com/vcenk/SmartRealtorAgent/internal/skills"
)

type SkillHandler struct {
	registry *skills.Registry
}

func NewSkillHandler(registry *skills.Registry) *SkillHandler {
	return &SkillHandler{registry: registry}
}

// List reports the executable skill set plus declared integration
// stubs, for the console's capabilities view.
func (h *SkillHandler) List(c *gin.Context) {
	response.Success(c, gin.H{
		"skills":       h.registry.List(),
		"integrations": skills.IntegrationStubs(),
	})
}
