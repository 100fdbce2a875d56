package config

import (
	"time"

	"github.com/weftworks/weft/pkg/logger"
)

// Config carries the engine's runtime settings. Values come from defaults
// overridden by WEFT_-prefixed environment variables.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Runtime RuntimeConfig `koanf:"runtime"`
}

type LogConfig struct {
	Level logger.LogLevel `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool            `koanf:"json"`
}

type RuntimeConfig struct {
	// TaskConcurrency bounds how many tasks of one job run execute at once.
	TaskConcurrency int `koanf:"task_concurrency" validate:"gte=1,lte=64"`
	// Conversation retry knobs.
	RetryAttempts    int           `koanf:"retry_attempts"     validate:"gte=0,lte=100"`
	RetryBackoffBase time.Duration `koanf:"retry_backoff_base"`
	RetryBackoffMax  time.Duration `koanf:"retry_backoff_max"`
	// DBWrite target collection.
	RecordCollection string `koanf:"record_collection"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: logger.InfoLevel,
		},
		Runtime: RuntimeConfig{
			TaskConcurrency:  4,
			RetryAttempts:    2,
			RetryBackoffBase: 500 * time.Millisecond,
			RetryBackoffMax:  30 * time.Second,
			RecordCollection: "workflow_records",
		},
	}
}
