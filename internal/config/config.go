// Package config loads quizmind settings from defaults, an optional config
// file and QUIZMIND_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. QUIZMIND_STORE_DSN.
const EnvPrefix = "QUIZMIND"

type Config struct {
	LLM      llm.Config     `mapstructure:"llm"`
	Store    StoreConfig    `mapstructure:"store"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	User     UserConfig     `mapstructure:"user"`
	Log      LogConfig      `mapstructure:"log"`
	Recall   RecallConfig   `mapstructure:"recall"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
}

type StoreConfig struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	// Empty selects the default sqlite database file.
	DSN string `mapstructure:"dsn"`
}

type QuizConfig struct {
	TotalQuestions    int           `mapstructure:"total_questions"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	DefaultTopic      string        `mapstructure:"default_topic"`
	DefaultDifficulty string        `mapstructure:"default_difficulty"`
}

// UserConfig identifies the player. An empty ID plays anonymously and
// nothing is persisted.
type UserConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`

	// Stderr sends logs to stderr instead of File. Set by --verbose.
	Stderr bool `mapstructure:"stderr"`
}

// RecallConfig enables cross-session question memory when RedisAddr is
// set.
type RecallConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	Prefix    string        `mapstructure:"prefix"`
	Size      int           `mapstructure:"size"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type DispatchConfig struct {
	Buffer      int           `mapstructure:"buffer"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Store: StoreConfig{
			Driver: store.DriverSQLite,
		},
		Quiz: QuizConfig{
			TotalQuestions:    quiz.DefaultTotalQuestions,
			FetchTimeout:      20 * time.Second,
			DefaultTopic:      string(quiz.TopicGeneralKnowledge),
			DefaultDifficulty: string(quiz.Medium),
		},
		Log: LogConfig{
			Level: "info",
		},
		Recall: RecallConfig{
			Prefix: "quizmind",
			Size:   50,
			TTL:    30 * 24 * time.Hour,
		},
		Dispatch: DispatchConfig{
			Buffer:      256,
			TaskTimeout: 10 * time.Second,
		},
	}
}

// Load reads the config file at file on top of the defaults and applies
// environment overrides. A missing file is not an error. When no LLM key
// is configured, the vendor *_API_KEY variables are probed.
func Load(file string) (Config, error) {
	cfg := Default()

	v := viper.New()
	m := make(map[string]any)
	if err := mapstructure.Decode(cfg, &m); err != nil {
		return cfg, fmt.Errorf("mapstructure: %w", err)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return cfg, fmt.Errorf("merge config map: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		if _, err := os.Stat(file); err == nil {
			v.SetConfigFile(file)
			if err := v.MergeInConfig(); err != nil {
				return cfg, fmt.Errorf("read config from file %s: %w", file, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		if discovered, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = discovered
		}
	}

	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Store.Driver == store.DriverPostgres && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the postgres driver")
	}
	if c.Quiz.TotalQuestions <= 0 {
		return fmt.Errorf("quiz.total_questions must be positive, got %d", c.Quiz.TotalQuestions)
	}
	if c.Quiz.DefaultTopic != "" {
		if _, err := quiz.ParseTopic(c.Quiz.DefaultTopic); err != nil {
			return fmt.Errorf("quiz.default_topic: %w", err)
		}
	}
	if c.Quiz.DefaultDifficulty != "" {
		if _, err := quiz.ParseDifficulty(c.Quiz.DefaultDifficulty); err != nil {
			return fmt.Errorf("quiz.default_difficulty: %w", err)
		}
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/quizmind/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizmind", "config.yaml"), nil
}

// SaveUser writes the user section into file, keeping whatever else the
// file already holds. Defaults and environment values are not written.
func SaveUser(file string, user UserConfig) error {
	v := viper.New()
	v.SetConfigFile(file)
	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config from file %s: %w", file, err)
		}
	}

	v.Set("user.id", user.ID)
	v.Set("user.name", user.Name)

	if err := store.EnsureDir(file); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("write config %s: %w", file, err)
	}
	return nil
}
