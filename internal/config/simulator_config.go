package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type SimulatorConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	MutationsPerSecond float32       `mapstructure:"mutations_per_second"`
	ErrorClearAfter    time.Duration `mapstructure:"error_clear_after"`
	RefreshSchedule    string        `mapstructure:"refresh_schedule"`
}

func (config SimulatorConfig) validate() error {

	if config.Enabled && config.MutationsPerSecond <= 0 {
		return fmt.Errorf("mutations_per_second must be positive when the simulator is enabled")
	}

	return nil
}

func (config SimulatorConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("simulator.enabled", "SIMULATOR_ENABLED"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("simulator.mutations_per_second", "SIMULATOR_MUTATIONS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
