package repo

import (
	"context"
	"database/sql"
)

type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

// Exists reports whether a tenant has been provisioned. The public
// widget route gates on this before any tenant-scoped write happens.
func (r *TenantRepo) Exists(ctx context.Context, tenantID string) (bool, error) {
	const query = `SELECT 1 FROM tenants WHERE id = $1`
	var one int
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
