package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// BackendConfig tunes the simulated backend's fault injection: the random
// failure probability and artificial latency window applied to every
// mutating endpoint. A non-zero seed makes a run reproducible.
type BackendConfig struct {
	FailureRate float64       `mapstructure:"failure_rate"`
	MinLatency  time.Duration `mapstructure:"min_latency"`
	MaxLatency  time.Duration `mapstructure:"max_latency"`
	Seed        int64         `mapstructure:"seed"`
}

func (config BackendConfig) validate() error {

	if config.FailureRate < 0 || config.FailureRate > 1 {
		return fmt.Errorf("failure_rate must be within [0, 1]")
	}

	if config.MaxLatency < config.MinLatency {
		return fmt.Errorf("max_latency must not be less than min_latency")
	}

	return nil
}

func (config BackendConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("backend.failure_rate", "BACKEND_FAILURE_RATE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("backend.seed", "BACKEND_SEED"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
