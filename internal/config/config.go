package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger      LoggerConfig    `mapstructure:"logger"`
	DB          DBConfig        `mapstructure:"db"`
	Backend     BackendConfig   `mapstructure:"backend"`
	Simulator   SimulatorConfig `mapstructure:"simulator"`
	MetricsPort int             `mapstructure:"metrics_port"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("CONFIG_PATH"); value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("metrics_port", 8080)

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	db, logger, backend, simulator := DBConfig{}, LoggerConfig{}, BackendConfig{}, SimulatorConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := backend.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("BackendConfig: %w", err))
	}

	if err := simulator.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("SimulatorConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Backend.validate(); err != nil {
		errs = append(errs, fmt.Errorf("BackendConfig: %w", err))
	}

	if err := config.Simulator.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SimulatorConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
