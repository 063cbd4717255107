package skills

import (
	"context"
	"fmt"
)

func (in LeadsUpsertInput) validate() error {
	if len(in.LeadPayload) == 0 {
		return fmt.Errorf("lead payload must not be empty")
	}
	return nil
}

func (out LeadsUpsertOutput) validate() error {
	if out.LeadID == "" {
		return fmt.Errorf("lead id must be present")
	}
	return nil
}

func (r *Registry) execLeadsUpsert(ctx context.Context, in LeadsUpsertInput, sctx Context) (LeadsUpsertOutput, error) {
	leadID, err := r.store.UpsertLead(ctx, sctx.TenantID, in.LeadPayload)
	if err != nil {
		return LeadsUpsertOutput{}, err
	}
	return LeadsUpsertOutput{LeadID: leadID}, nil
}
