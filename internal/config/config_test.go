package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPolicyDefaultsWhenNoFile(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, compliance.DefaultPolicy(), policy)

	policy, err = LoadPolicy("/nonexistent/policy.yaml")
	require.NoError(t, err)
	assert.Equal(t, compliance.DefaultPolicy(), policy)
}

func TestLoadPolicyFromFile(t *testing.T) {
	path := writePolicy(t, `
alerts:
  dcco_breach_days: 60
  dcco_critical_days: 120
  cost_overrun_trigger_pct: 5
  cost_overrun_critical_pct: 12.5
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 60, policy.DCCOBreachDays)
	assert.Equal(t, 120, policy.DCCOCriticalDays)
	assert.Equal(t, 5.0, policy.CostOverrunTriggerPct)
	assert.Equal(t, 12.5, policy.CostOverrunCriticalPct)
}

func TestLoadPolicyPartialFileKeepsDefaults(t *testing.T) {
	path := writePolicy(t, `
alerts:
  dcco_critical_days: 200
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 90, policy.DCCOBreachDays)
	assert.Equal(t, 200, policy.DCCOCriticalDays)
	assert.Equal(t, 10.0, policy.CostOverrunTriggerPct)
}

func TestLoadPolicyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"critical below breach", "alerts:\n  dcco_breach_days: 90\n  dcco_critical_days: 30\n"},
		{"zero breach days", "alerts:\n  dcco_breach_days: 0\n"},
		{"critical pct below trigger", "alerts:\n  cost_overrun_trigger_pct: 10\n  cost_overrun_critical_pct: 5\n"},
		{"malformed yaml", "alerts: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.content))
			assert.Error(t, err)
		})
	}
}
