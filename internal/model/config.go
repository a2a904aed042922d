package model

type Config struct {
	Project ProjectConfig `yaml:"project"`
	Batcher BatcherConfig `yaml:"batcher"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
}

type ProjectConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type BatcherConfig struct {
	DebounceSec float64 `yaml:"debounce_sec"`
}

type LimitsConfig struct {
	// MaxWalkDays caps the forward/backward calendar walk so that a
	// calendar with no worked day cannot make it diverge.
	MaxWalkDays int `yaml:"max_walk_days"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults; zero fields in a loaded
// config fall back to these.
func DefaultConfig() Config {
	return Config{
		Batcher: BatcherConfig{DebounceSec: 2.0},
		Limits:  LimitsConfig{MaxWalkDays: 7300},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ApplyDefaults fills unset fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Batcher.DebounceSec <= 0 {
		c.Batcher.DebounceSec = def.Batcher.DebounceSec
	}
	if c.Limits.MaxWalkDays <= 0 {
		c.Limits.MaxWalkDays = def.Limits.MaxWalkDays
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}
