// internal/workers/chat/respond-to-message/config.go
package respondtomessage

import (
	"time"

	"medibot/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
	MaxRetries    int
}

// LoadConfig reads the worker section for TaskType, falling back to defaults.
func LoadConfig(cfg *config.Config) *Config {
	if cfg == nil {
		return &Config{Timeout: 30 * time.Second, MaxJobsActive: 5, MaxRetries: 3}
	}
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       config.GetDuration(wcfg.Timeout),
		MaxJobsActive: wcfg.MaxJobsActive,
		MaxRetries:    wcfg.MaxRetries,
	}
}
