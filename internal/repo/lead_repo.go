package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
)

type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Insert appends a new qualification snapshot. Leads are never updated
// in place.
func (r *LeadRepo) Insert(ctx context.Context, lead *model.Lead) error {
	payload, err := json.Marshal(lead.Payload)
	if err != nil {
		return err
	}
	const query = `INSERT INTO leads (id, tenant_id, payload, created_at) VALUES ($1, $2, $3, $4)`
	_, err = r.db.ExecContext(ctx, query, lead.ID, lead.TenantID, payload, time.Unix(lead.CreatedAt, 0))
	return err
}

func (r *LeadRepo) ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Lead, error) {
	const query = `
		SELECT id, tenant_id, payload, created_at
		FROM leads
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var leads []model.Lead
	for rows.Next() {
		var lead model.Lead
		var payload []byte
		var createdAt time.Time
		if err := rows.Scan(&lead.ID, &lead.TenantID, &payload, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &lead.Payload); err != nil {
			return nil, err
		}
		lead.CreatedAt = createdAt.Unix()
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
