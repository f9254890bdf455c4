package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LISTQUERY_SERVER_PORT.
const EnvPrefix = "LISTQUERY"

var validate = validator.New()

// Config is the configuration of the go-listquery CLI.
type Config struct {
	Server *Server      `validate:"required"`
	Store  *Store       `validate:"required"`
	Client *Client      `validate:"required"`
	Logger *Logger      `validate:"required"`
	Viper  *viper.Viper `validate:"-"`
}

// Load reads configuration from configPath, or from listquery.yaml in the
// working directory when empty. A missing default file is not an error;
// defaults and environment variables still apply. A .env file in the
// working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("listquery")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.listquery")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: getServerConfig(v),
		Store:  getStoreConfig(v),
		Client: getClientConfig(v),
		Logger: getLoggerConfig(v),
		Viper:  v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values against their constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.latency", "0s")

	v.SetDefault("store.table", "products")
	v.SetDefault("store.seed_count", 100)
	v.SetDefault("store.faker_seed", 0)
	v.SetDefault("store.snapshot_file", "")
	v.SetDefault("store.save_interval", "0s")
	v.SetDefault("store.max_page_size", 1000)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.table", "products")
	v.SetDefault("client.page_size", 20)
	v.SetDefault("client.pagination", "offset")
	v.SetDefault("client.cache_ttl", "5m")
	v.SetDefault("client.search_debounce", "500ms")
	v.SetDefault("client.timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
}
