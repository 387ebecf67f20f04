package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/quill/workflow"
)

const (
	EnvEngineRetryBudget    = "QUILL_ENGINE_RETRY_BUDGET"
	EnvEngineStepTimeout    = "QUILL_ENGINE_STEP_TIMEOUT"
	EnvEngineBrandThreshold = "QUILL_ENGINE_BRAND_THRESHOLD"
)

// EngineConfig holds workflow engine parameters: retry budgets, step
// timeouts, and quality gate tuning.
type EngineConfig struct {
	RetryBudget            int               `toml:"retry_budget"`
	StepTimeout            string            `toml:"step_timeout"`
	ResearchMinSources     int               `toml:"research_min_sources"`
	ResearchMinCredibility float64           `toml:"research_min_credibility"`
	BrandThreshold         float64           `toml:"brand_threshold"`
	GateModes              map[string]string `toml:"gate_modes"`
}

// StepTimeoutDuration returns StepTimeout as a time.Duration.
func (c *EngineConfig) StepTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StepTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.RetryBudget != 0 {
		c.RetryBudget = overlay.RetryBudget
	}
	if overlay.StepTimeout != "" {
		c.StepTimeout = overlay.StepTimeout
	}
	if overlay.ResearchMinSources != 0 {
		c.ResearchMinSources = overlay.ResearchMinSources
	}
	if overlay.ResearchMinCredibility != 0 {
		c.ResearchMinCredibility = overlay.ResearchMinCredibility
	}
	if overlay.BrandThreshold != 0 {
		c.BrandThreshold = overlay.BrandThreshold
	}
	if len(overlay.GateModes) > 0 {
		if c.GateModes == nil {
			c.GateModes = make(map[string]string)
		}
		for gate, mode := range overlay.GateModes {
			c.GateModes[gate] = mode
		}
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.RetryBudget == 0 {
		c.RetryBudget = workflow.MaxRetryBudget
	}
	if c.StepTimeout == "" {
		c.StepTimeout = "2m"
	}
	if c.ResearchMinSources == 0 {
		c.ResearchMinSources = 2
	}
	if c.ResearchMinCredibility == 0 {
		c.ResearchMinCredibility = 0.7
	}
	if c.BrandThreshold == 0 {
		c.BrandThreshold = 0.7
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineRetryBudget); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetryBudget = n
		}
	}
	if v := os.Getenv(EnvEngineStepTimeout); v != "" {
		c.StepTimeout = v
	}
	if v := os.Getenv(EnvEngineBrandThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BrandThreshold = f
		}
	}
}

func (c *EngineConfig) validate() error {
	if c.RetryBudget < 0 || c.RetryBudget > workflow.MaxRetryBudget {
		return fmt.Errorf("retry_budget must be between 0 and %d", workflow.MaxRetryBudget)
	}
	if _, err := time.ParseDuration(c.StepTimeout); err != nil {
		return fmt.Errorf("invalid step_timeout: %w", err)
	}
	if c.ResearchMinCredibility < 0 || c.ResearchMinCredibility > 1 {
		return fmt.Errorf("research_min_credibility must be between 0 and 1")
	}
	if c.BrandThreshold < 0 || c.BrandThreshold > 1 {
		return fmt.Errorf("brand_threshold must be between 0 and 1")
	}
	for gate, mode := range c.GateModes {
		if mode != "strict" && mode != "advisory" {
			return fmt.Errorf("gate %s: mode must be strict or advisory, got %q", gate, mode)
		}
	}
	return nil
}
