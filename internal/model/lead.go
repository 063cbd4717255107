package model

// Lead is a qualification snapshot written by the lead-capture skill.
// Inserts are append-only; every capture creates a new row.
type Lead struct {
	ID        string                 `json:"id"`
	TenantID  string                 `json:"tenant_id"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt int64                  `json:"created_at"`
}
