package store

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDedupKeyFromID(t *testing.T) {
	body := []byte(`{"id":"evt_123","type":"x"}`)
	assert.Equal(t, "evt_123", computeDedupKey(body))
}

func TestComputeDedupKeyFromHash(t *testing.T) {
	got := computeDedupKey([]byte(`{"notId":"x"}`))
	// hex-encoded first 8 bytes -> 16 hex chars
	b, err := hex.DecodeString(got)
	require.NoError(t, err)
	assert.Len(t, b, 8)
	assert.Equal(t, got, computeDedupKey([]byte(`{"notId":"x"}`)))
}

func TestSchemaCoversTables(t *testing.T) {
	for _, table := range []string{"loads", "plans", "solver_config", "subscriptions", "webhook_deliveries"} {
		assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
}

func TestSchemaLoadIDsAre64Bit(t *testing.T) {
	start := strings.Index(schemaSQL, "CREATE TABLE IF NOT EXISTS loads ")
	require.GreaterOrEqual(t, start, 0)
	table := schemaSQL[start : start+strings.Index(schemaSQL[start:], ");")]
	assert.Regexp(t, `(?m)^\s*id\s+bigint\s+NOT NULL,`, table)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}
