package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"person", "service-config"}, registry().Names())
}

func TestServiceConfigSchema(t *testing.T) {
	s := serviceConfigSchema()

	res := s.Validate(map[string]any{
		"id":     "123e4567-e89b-42d3-a456-426614174000",
		"name":   "billing-api",
		"host":   "api.example.com",
		"port":   "8443",
		"mode":   "prod",
		"admins": []any{"ops@example.com"},
		"tls":    map[string]any{"enabled": 1},
	})
	require.True(t, res.OK(), "%v", res.Issues)
	v := res.Value.(map[string]any)
	assert.Equal(t, float64(8443), v["port"])
	assert.Equal(t, map[string]any{"enabled": true}, v["tls"])

	res = s.Validate(map[string]any{
		"name": "Billing",
		"host": "localhost",
		"port": 0,
		"mode": "qa",
	})
	require.False(t, res.OK())
	var ptrs []string
	for _, it := range res.Issues {
		ptrs = append(ptrs, it.Pointer())
	}
	// the mode union reports one literal mismatch per alternative
	assert.Equal(t, []string{"/name", "/port", "/mode", "/mode", "/mode"}, ptrs)
}
