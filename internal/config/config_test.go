package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/llm"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", conf.Log.Level)
	assert.Equal(t, "sqlite", conf.Storage.Backend)
	assert.Equal(t, time.Second, conf.Interview.Tick)
	assert.Equal(t, "127.0.0.1:8090", conf.API.Addr)
	assert.Equal(t, 8, conf.API.CacheMB)
	assert.True(t, conf.Metrics.Enabled)
	assert.Empty(t, conf.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: DEBUG
storage:
  backend: file
  dir: /tmp/interview
interview:
  planFile: plan.yaml
  tick: 10ms
api:
  addr: ":9000"
llm:
  provider: anthropic
  rps: 2
`), 0o644))
	t.Setenv("INTERVIEW_API_ADDR", ":9100")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "file", conf.Storage.Backend)
	assert.Equal(t, "/tmp/interview", conf.Storage.Dir)
	assert.Equal(t, "plan.yaml", conf.Interview.PlanFile)
	assert.Equal(t, 10*time.Millisecond, conf.Interview.Tick)
	assert.Equal(t, ":9100", conf.API.Addr, "env wins over file")
	assert.Equal(t, path, conf.Path)

	llmCfg := conf.ApplyLLM(llm.DefaultConfig())
	assert.Equal(t, "anthropic", llmCfg.Provider)
	assert.Equal(t, 2.0, llmCfg.RequestsPerSecond)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INTERVIEW_STORAGE_PROBE=1\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("INTERVIEW_STORAGE_PROBE") })

	_, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "1", os.Getenv("INTERVIEW_STORAGE_PROBE"))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Storage:   StorageConfig{Backend: "sqlite"},
		Interview: InterviewConfig{Tick: time.Second},
		API:       APIConfig{Addr: ":8090"},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := map[string]func(*Config){
		"bad level":        func(c *Config) { c.Log.Level = "verbose" },
		"bad backend":      func(c *Config) { c.Storage.Backend = "s3" },
		"file without dir": func(c *Config) { c.Storage.Backend = "file" },
		"empty addr":       func(c *Config) { c.API.Addr = "" },
		"bad provider":     func(c *Config) { c.LLM.Provider = "llama" },
		"negative cache":   func(c *Config) { c.API.CacheMB = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
