package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultCacheTTL       = 5 * time.Minute
	defaultRequestTimeout = 30 * time.Second
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetDexAPIURL() string {
	url := c.config.GetString("DEX_API_URL")
	if len(url) == 0 {
		url = c.config.GetString("dex.api_url")
	}

	return url
}

func (c *Config) GetDexAPIKey() string {
	key := c.config.GetString("DEX_API_KEY")
	if len(key) == 0 {
		key = c.config.GetString("dex.api_key")
	}

	return key
}

func (c *Config) GetCacheTTL() time.Duration {
	seconds := c.config.GetInt("CACHE_TTL_SECONDS")
	if seconds == 0 {
		seconds = c.config.GetInt("cache.ttl_seconds")
	}
	if seconds <= 0 {
		return defaultCacheTTL
	}

	return time.Duration(seconds) * time.Second
}

func (c *Config) GetRequestTimeout() time.Duration {
	seconds := c.config.GetInt("REQUEST_TIMEOUT_SECONDS")
	if seconds == 0 {
		seconds = c.config.GetInt("dex.request_timeout_seconds")
	}
	if seconds <= 0 {
		return defaultRequestTimeout
	}

	return time.Duration(seconds) * time.Second
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
