// Package config loads the compliance policy configuration.
package config

import (
	"fmt"
	"os"

	"github.com/infracomply/compliance-backend/internal/compliance"
	"gopkg.in/yaml.v2"
)

// PolicyConfig represents the YAML structure of the policy file
type PolicyConfig struct {
	Alerts compliance.Policy `yaml:"alerts"`
}

// LoadPolicy reads the alert policy from the YAML file at path. A missing
// path (or empty string) yields the default policy; a file that exists but
// fails to parse or validate is an error rather than a silent fallback,
// since thresholds drive regulatory alerting.
func LoadPolicy(path string) (compliance.Policy, error) {
	if path == "" {
		return compliance.DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return compliance.DefaultPolicy(), nil
		}
		return compliance.Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	config := PolicyConfig{Alerts: compliance.DefaultPolicy()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return compliance.Policy{}, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	if err := validatePolicy(config.Alerts); err != nil {
		return compliance.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}

	return config.Alerts, nil
}

func validatePolicy(p compliance.Policy) error {
	if p.DCCOBreachDays <= 0 {
		return fmt.Errorf("dcco_breach_days must be positive, got %d", p.DCCOBreachDays)
	}
	if p.DCCOCriticalDays < p.DCCOBreachDays {
		return fmt.Errorf("dcco_critical_days (%d) must not be below dcco_breach_days (%d)",
			p.DCCOCriticalDays, p.DCCOBreachDays)
	}
	if p.CostOverrunTriggerPct <= 0 {
		return fmt.Errorf("cost_overrun_trigger_pct must be positive, got %g", p.CostOverrunTriggerPct)
	}
	if p.CostOverrunCriticalPct < p.CostOverrunTriggerPct {
		return fmt.Errorf("cost_overrun_critical_pct (%g) must not be below cost_overrun_trigger_pct (%g)",
			p.CostOverrunCriticalPct, p.CostOverrunTriggerPct)
	}
	return nil
}
