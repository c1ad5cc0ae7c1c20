package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"learnpilot/internal/common"
)

type Settings struct {
	ServerPort     int
	MetricsPort    int
	DataPath       string
	DatasetPath    string
	ModelName      string
	Seed           int64
	Trees          int
	MaxDepth       int
	TestFraction   float64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ChatbotLLMURL  string
	ChatbotTimeout time.Duration
	LogLevel       string
}

type ConfigFile struct {
	Server struct {
		Port         int    `yaml:"port"`
		MetricsPort  int    `yaml:"metricsPort"`
		ReadTimeout  string `yaml:"readTimeout"`
		WriteTimeout string `yaml:"writeTimeout"`
	} `yaml:"server"`

	Data struct {
		Path        string `yaml:"path"`
		DatasetPath string `yaml:"datasetPath"`
	} `yaml:"data"`

	Model struct {
		Name         string  `yaml:"name"`
		Seed         int64   `yaml:"seed"`
		Trees        int     `yaml:"trees"`
		MaxDepth     int     `yaml:"maxDepth"`
		TestFraction float64 `yaml:"testFraction"`
	} `yaml:"model"`

	Chatbot struct {
		LLMURL  string `yaml:"llmURL"`
		Timeout string `yaml:"timeout"`
	} `yaml:"chatbot"`

	System struct {
		LogLevel string `yaml:"logLevel"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	readTimeout, err := time.ParseDuration(config.Server.ReadTimeout)
	if err != nil {
		readTimeout = 10 * time.Second
	}

	writeTimeout, err := time.ParseDuration(config.Server.WriteTimeout)
	if err != nil {
		writeTimeout = 30 * time.Second
	}

	chatbotTimeout, err := time.ParseDuration(config.Chatbot.Timeout)
	if err != nil {
		chatbotTimeout = 5 * time.Second
	}

	settings := Settings{
		ServerPort:     getIntFromEnvOrConfig(common.EnvServerPort, config.Server.Port, common.DefaultServerPort),
		MetricsPort:    getIntFromEnvOrConfig(common.EnvMetricsPort, config.Server.MetricsPort, common.DefaultMetricsPort),
		DataPath:       getEnvOrDefault(common.EnvDataPath, orDefault(config.Data.Path, common.DefaultDataPath)),
		DatasetPath:    getEnvOrDefault(common.EnvDatasetPath, orDefault(config.Data.DatasetPath, common.DefaultDatasetPath)),
		ModelName:      getEnvOrDefault(common.EnvModelName, orDefault(config.Model.Name, common.DefaultModelName)),
		Seed:           getInt64FromEnvOrConfig(common.EnvTrainSeed, config.Model.Seed, common.DefaultTrainSeed),
		Trees:          getIntFromEnvOrConfig(common.EnvTrees, config.Model.Trees, common.DefaultTrees),
		MaxDepth:       getIntFromEnvOrConfig(common.EnvMaxDepth, config.Model.MaxDepth, common.DefaultMaxDepth),
		TestFraction:   getFloatFromEnvOrConfig(common.EnvTestFraction, config.Model.TestFraction, common.DefaultTestFraction),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		ChatbotLLMURL:  getEnvOrDefault(common.EnvChatbotLLMURL, config.Chatbot.LLMURL),
		ChatbotTimeout: chatbotTimeout,
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, orDefault(config.System.LogLevel, "info")),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ServerPort:     getIntOrDefault(common.EnvServerPort, common.DefaultServerPort),
		MetricsPort:    getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		DataPath:       getEnvOrDefault(common.EnvDataPath, common.DefaultDataPath),
		DatasetPath:    getEnvOrDefault(common.EnvDatasetPath, common.DefaultDatasetPath),
		ModelName:      getEnvOrDefault(common.EnvModelName, common.DefaultModelName),
		Seed:           getInt64OrDefault(common.EnvTrainSeed, common.DefaultTrainSeed),
		Trees:          getIntOrDefault(common.EnvTrees, common.DefaultTrees),
		MaxDepth:       getIntOrDefault(common.EnvMaxDepth, common.DefaultMaxDepth),
		TestFraction:   getFloatOrDefault(common.EnvTestFraction, common.DefaultTestFraction),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		ChatbotLLMURL:  os.Getenv(common.EnvChatbotLLMURL), // optional
		ChatbotTimeout: getDurationOrDefault(common.EnvChatbotTimeout, 5*time.Second),
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, "info"),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getInt64FromEnvOrConfig(key string, configValue, defaultValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.ServerPort < common.MinPort || settings.ServerPort > common.MaxPort {
		return fmt.Errorf("server port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.ServerPort)
	}
	if settings.MetricsPort < common.MinPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.MetricsPort)
	}
	if settings.ServerPort == settings.MetricsPort {
		return fmt.Errorf("server port and metrics port must differ, both are %d", settings.ServerPort)
	}

	if settings.DataPath == "" {
		return fmt.Errorf("data path cannot be empty")
	}
	if settings.DatasetPath == "" {
		return fmt.Errorf("dataset path cannot be empty")
	}
	if settings.ModelName == "" {
		return fmt.Errorf("model name cannot be empty")
	}

	if settings.Trees < common.MinTrees || settings.Trees > common.MaxTrees {
		return fmt.Errorf("trees must be between %d and %d, got %d", common.MinTrees, common.MaxTrees, settings.Trees)
	}
	if settings.MaxDepth < common.MinTreeDepth || settings.MaxDepth > common.MaxTreeDepth {
		return fmt.Errorf("max depth must be between %d and %d, got %d", common.MinTreeDepth, common.MaxTreeDepth, settings.MaxDepth)
	}
	if settings.TestFraction < common.MinTestFraction || settings.TestFraction > common.MaxTestFraction {
		return fmt.Errorf("test fraction must be between %g and %g, got %g", common.MinTestFraction, common.MaxTestFraction, settings.TestFraction)
	}

	if settings.ReadTimeout < time.Second || settings.ReadTimeout > time.Minute {
		return fmt.Errorf("read timeout must be between 1s and 1m, got %v", settings.ReadTimeout)
	}
	if settings.WriteTimeout < time.Second || settings.WriteTimeout > 5*time.Minute {
		return fmt.Errorf("write timeout must be between 1s and 5m, got %v", settings.WriteTimeout)
	}
	if settings.ChatbotTimeout < time.Second || settings.ChatbotTimeout > time.Minute {
		return fmt.Errorf("chatbot timeout must be between 1s and 1m, got %v", settings.ChatbotTimeout)
	}

	return nil
}
