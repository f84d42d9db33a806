// Package config loads application settings from an optional config.yaml,
// a .env file and INTERVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hanuman1123/interviewAIAgent/internal/llm"
)

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required|in:sqlite,file"`
	DBPath  string `mapstructure:"dbPath"`
	Dir     string `mapstructure:"dir"`
}

type InterviewConfig struct {
	PlanFile string `mapstructure:"planFile"`

	// Tick is the real time standing for one countdown second.
	Tick time.Duration `mapstructure:"tick" validate:"required"`
}

type APIConfig struct {
	Addr     string        `mapstructure:"addr" validate:"required"`
	CacheMB  int           `mapstructure:"cacheMB" validate:"min:0"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LLMConfig struct {
	Provider          string        `mapstructure:"provider" validate:"in:gemini,anthropic,openai,openrouter,vertex,mock"`
	RequestsPerSecond float64       `mapstructure:"rps" validate:"min:0"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Config is the full application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Interview InterviewConfig `mapstructure:"interview"`
	API       APIConfig       `mapstructure:"api"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	LLM       LLMConfig       `mapstructure:"llm"`

	// Path is the config file that was read, if any.
	Path string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("interview.tick", time.Second)
	v.SetDefault("api.addr", "127.0.0.1:8090")
	v.SetDefault("api.cacheMB", 8)
	v.SetDefault("api.cacheTTL", 5*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("llm.timeout", 90*time.Second)
}

// bindings maps config keys to their environment variables.
var bindings = map[string]string{
	"log.level":          "INTERVIEW_LOG_LEVEL",
	"log.file":           "INTERVIEW_LOG_FILE",
	"log.json":           "INTERVIEW_LOG_JSON",
	"storage.backend":    "INTERVIEW_STORAGE",
	"storage.dbPath":     "INTERVIEW_DB",
	"storage.dir":        "INTERVIEW_STATE_DIR",
	"interview.planFile": "INTERVIEW_PLAN_FILE",
	"interview.tick":     "INTERVIEW_TICK",
	"api.addr":           "INTERVIEW_API_ADDR",
	"api.cacheMB":        "INTERVIEW_CACHE_MB",
	"api.cacheTTL":       "INTERVIEW_CACHE_TTL",
	"metrics.enabled":    "INTERVIEW_METRICS_ENABLED",
	"llm.provider":       "INTERVIEW_LLM_PROVIDER",
	"llm.rps":            "INTERVIEW_LLM_RPS",
	"llm.timeout":        "INTERVIEW_LLM_TIMEOUT",
}

// Load reads configuration. path names an explicit config file; when
// empty, config.yaml is looked up in the working directory and the user
// config directory, and its absence is not an error. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "interview-agent"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	conf.Path = v.ConfigFileUsed()
	conf.Log.Level = strings.ToLower(conf.Log.Level)

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.Storage.Backend == "file" && c.Storage.Dir == "" {
		return fmt.Errorf("invalid config: storage.dir is required for the file backend")
	}
	return nil
}

// ApplyLLM overlays the configured provider settings on an LLM config
// built from the environment.
func (c *Config) ApplyLLM(cfg llm.Config) llm.Config {
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	if c.LLM.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = c.LLM.RequestsPerSecond
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	return cfg
}
