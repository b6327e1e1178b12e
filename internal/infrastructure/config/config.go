package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "nemoctl/internal/shared/config"
)

type Config struct {
	API    sharedConfig.APIConfig    `mapstructure:"api"`
	Logger sharedConfig.LoggerConfig `mapstructure:"logger"`
	Data   sharedConfig.DataConfig   `mapstructure:"data"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A local .env file is applied first so the legacy NEMO_TOKEN convention
// from the original scripts keeps working.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; the token may come from the real environment.
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// The toolset can run entirely from environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// NEMO_TOKEN is what the original .env files carry; prefer it when the
	// structured key is unset.
	if config.API.Token == "" {
		config.API.Token = v.GetString("token")
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks the parts of the configuration every command needs.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api.token is required: set NEMO_TOKEN in the environment or a .env file")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://nemo-plan.stanford.edu/api")
	// Registering the key makes the NEMO_API_TOKEN env override visible to
	// Unmarshal even when no config file sets it.
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.create_delay", "500ms")
	v.SetDefault("api.retry.attempts", 3)
	v.SetDefault("api.retry.base_delay", "1s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("data.dir", "./data")
}
