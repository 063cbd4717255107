package service

import (
	"context"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	"github.com/vcenk/SmartRealtorAgent/internal/repo"
)

type LeadService struct {
	leads *repo.LeadRepo
}

func NewLeadService(leads *repo.LeadRepo) *LeadService {
	return &LeadService{leads: leads}
}

func (s *LeadService) List(ctx context.Context, tenantID string, limit int) ([]model.Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.leads.ListByTenant(ctx, tenantID, limit)
}
