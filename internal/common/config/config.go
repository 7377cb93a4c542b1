// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Knowledge KnowledgeConfig         `mapstructure:"knowledge"`
	Emergency EmergencyConfig         `mapstructure:"emergency"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Server    ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Disabled       bool   `mapstructure:"disabled"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Sections ---

// KnowledgeConfig locates the symptom and topic tables.
// The format of each file follows its extension (.json, .yaml, .yml).
type KnowledgeConfig struct {
	SymptomsFile string `mapstructure:"symptoms_file"`
	TopicsFile   string `mapstructure:"topics_file"`
	Watch        bool   `mapstructure:"watch"`
	DebounceMs   int    `mapstructure:"debounce_ms"`
}

// EmergencyConfig overrides the built-in emergency vocabulary.
// Empty values keep the defaults.
type EmergencyConfig struct {
	Keywords []string            `mapstructure:"keywords"`
	Tiers    map[string][]string `mapstructure:"tiers"` // critical, high, medium
	Contacts []EmergencyContact  `mapstructure:"contacts"`
}

// EmergencyContact is a region and its emergency number. Viper lowercases map
// keys, so contacts are a list.
type EmergencyContact struct {
	Region string `mapstructure:"region"`
	Number string `mapstructure:"number"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health/metrics HTTP listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
