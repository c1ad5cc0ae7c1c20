package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpilot/internal/common"
)

// clearEnv blanks every key Load reads so host state cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		common.EnvConfigFile, common.EnvServerPort, common.EnvMetricsPort,
		common.EnvDataPath, common.EnvDatasetPath, common.EnvModelName,
		common.EnvTrainSeed, common.EnvTrees, common.EnvMaxDepth,
		common.EnvTestFraction, common.EnvChatbotLLMURL, common.EnvChatbotTimeout,
		common.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, common.DefaultServerPort, settings.ServerPort)
	assert.Equal(t, common.DefaultMetricsPort, settings.MetricsPort)
	assert.Equal(t, common.DefaultDataPath, settings.DataPath)
	assert.Equal(t, common.DefaultDatasetPath, settings.DatasetPath)
	assert.Equal(t, common.DefaultModelName, settings.ModelName)
	assert.Equal(t, int64(common.DefaultTrainSeed), settings.Seed)
	assert.Equal(t, common.DefaultTrees, settings.Trees)
	assert.Equal(t, common.DefaultMaxDepth, settings.MaxDepth)
	assert.Equal(t, common.DefaultTestFraction, settings.TestFraction)
	assert.Equal(t, 10*time.Second, settings.ReadTimeout)
	assert.Equal(t, 30*time.Second, settings.WriteTimeout)
	assert.Empty(t, settings.ChatbotLLMURL)
	assert.Equal(t, 5*time.Second, settings.ChatbotTimeout)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(common.EnvServerPort, "9000")
	t.Setenv(common.EnvMetricsPort, "9100")
	t.Setenv(common.EnvTrees, "50")
	t.Setenv(common.EnvTestFraction, "0.3")
	t.Setenv(common.EnvTrainSeed, "7")
	t.Setenv(common.EnvChatbotLLMURL, "http://localhost:11434/api/chat")
	t.Setenv(common.EnvChatbotTimeout, "8s")
	t.Setenv(common.EnvLogLevel, "debug")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, settings.ServerPort)
	assert.Equal(t, 9100, settings.MetricsPort)
	assert.Equal(t, 50, settings.Trees)
	assert.Equal(t, 0.3, settings.TestFraction)
	assert.Equal(t, int64(7), settings.Seed)
	assert.Equal(t, "http://localhost:11434/api/chat", settings.ChatbotLLMURL)
	assert.Equal(t, 8*time.Second, settings.ChatbotTimeout)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(common.EnvTrees, "lots")
	t.Setenv(common.EnvChatbotTimeout, "soon")

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, common.DefaultTrees, settings.Trees)
	assert.Equal(t, 5*time.Second, settings.ChatbotTimeout)
}

func TestLoad_YAMLConfig(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  port: 8080
  metricsPort: 9091
  readTimeout: 15s
  writeTimeout: 45s
data:
  path: /var/lib/learnpilot
  datasetPath: /var/lib/learnpilot/students.csv
model:
  name: classroom-v2
  seed: 99
  trees: 200
  maxDepth: 12
  testFraction: 0.25
chatbot:
  llmURL: http://llm:8080/complete
  timeout: 10s
system:
  logLevel: warn
`), 0o644))
	t.Setenv(common.EnvConfigFile, configPath)

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, settings.ServerPort)
	assert.Equal(t, 9091, settings.MetricsPort)
	assert.Equal(t, 15*time.Second, settings.ReadTimeout)
	assert.Equal(t, 45*time.Second, settings.WriteTimeout)
	assert.Equal(t, "/var/lib/learnpilot", settings.DataPath)
	assert.Equal(t, "classroom-v2", settings.ModelName)
	assert.Equal(t, int64(99), settings.Seed)
	assert.Equal(t, 200, settings.Trees)
	assert.Equal(t, 12, settings.MaxDepth)
	assert.Equal(t, 0.25, settings.TestFraction)
	assert.Equal(t, "http://llm:8080/complete", settings.ChatbotLLMURL)
	assert.Equal(t, 10*time.Second, settings.ChatbotTimeout)
	assert.Equal(t, "warn", settings.LogLevel)
}

func TestLoad_EnvWinsOverYAML(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  port: 8080
model:
  trees: 200
`), 0o644))
	t.Setenv(common.EnvConfigFile, configPath)
	t.Setenv(common.EnvServerPort, "8500")

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8500, settings.ServerPort)
	assert.Equal(t, 200, settings.Trees)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(common.EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [not a map"), 0o644))
	t.Setenv(common.EnvConfigFile, configPath)

	_, err := Load()
	require.Error(t, err)
}

func TestValidateSettings(t *testing.T) {
	clearEnv(t)

	cases := []struct {
		name string
		env  map[string]string
	}{
		{"port too low", map[string]string{common.EnvServerPort: "80"}},
		{"ports collide", map[string]string{common.EnvServerPort: "9090"}},
		{"too many trees", map[string]string{common.EnvTrees: "5000"}},
		{"zero depth", map[string]string{common.EnvMaxDepth: "0"}},
		{"fraction too large", map[string]string{common.EnvTestFraction: "0.9"}},
		{"fraction too small", map[string]string{common.EnvTestFraction: "0.01"}},
		{"chatbot timeout too long", map[string]string{common.EnvChatbotTimeout: "5m"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
