package dbutil

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalize_RebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM leads WHERE tenant_id = ? AND created_at > ?", []interface{}{"t1", 100})
	require.Equal(t, "SELECT id FROM leads WHERE tenant_id = $1 AND created_at > $2", query)
	require.Equal(t, []interface{}{"t1", 100}, args)
}

func TestFinalize_ConvertsMysqlLimit(t *testing.T) {
	query, args := Finalize(
		"SELECT id FROM knowledge_sources WHERE tenant_id = ? ORDER BY updated_at DESC LIMIT ?,?",
		[]interface{}{"t1", uint(10), uint(5)},
	)
	require.Equal(t, "SELECT id FROM knowledge_sources WHERE tenant_id = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3", query)
	// gendry emits offset,count; postgres wants count first.
	require.Equal(t, []interface{}{"t1", uint(5), uint(10)}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(errors.New("plain error")))
	require.False(t, IsConflict(nil))
}
