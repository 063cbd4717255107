package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vcenk/SmartRealtorAgent/internal/pkg/response"
	"github.com/vcenk/SmartRealtorAgent/internal/service"
)

type LeadHandler struct {
	leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	leads, err := h.leads.List(c.Request.Context(), getTenantID(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, leads)
}
