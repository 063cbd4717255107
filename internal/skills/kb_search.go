package skills

import (
	"context"
	"fmt"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
)

func (in KBSearchInput) validate() error {
	if len(in.Query) < 2 {
		return fmt.Errorf("query must be at least 2 characters")
	}
	return nil
}

func (out KBSearchOutput) validate() error {
	if out.Passages == nil || out.Citations == nil {
		return fmt.Errorf("passages and citations must be present")
	}
	for i, c := range out.Citations {
		if c.SourceID == "" {
			return fmt.Errorf("citation %d missing source id", i)
		}
	}
	return nil
}

func (r *Registry) execKBSearch(ctx context.Context, in KBSearchInput, sctx Context) (KBSearchOutput, error) {
	rows, err := r.store.SearchKnowledge(ctx, sctx.TenantID, in.Query)
	if err != nil {
		return KBSearchOutput{}, err
	}
	out := KBSearchOutput{
		Passages:  make([]Passage, 0, len(rows)),
		Citations: make([]model.Citation, 0, len(rows)),
	}
	for _, row := range rows {
		out.Passages = append(out.Passages, Passage{Text: row.Snippet})
		out.Citations = append(out.Citations, model.NewCitation(row.SourceID, row.Title, row.URL, row.Snippet))
	}
	return out, nil
}
