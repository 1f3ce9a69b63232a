package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/careerlens/internal/llama"
)

// BaseURLEnv overrides llama.base_url when set.
const BaseURLEnv = "LLAMA_BASE_URL"

// Config is the root configuration for careerlens.
type Config struct {
	Llama   LlamaConfig
	Tasks   TasksConfig
	History HistoryConfig
}

// LlamaConfig describes the inference server.
type LlamaConfig struct {
	BaseURL       string        `validate:"required,url,startswith=http"`
	APIKey        string        // optional, expanded from env var by Load
	Model         string        // empty = ask the server, see FallbackModel
	FallbackModel string        `validate:"required"`
	Timeout       time.Duration `validate:"gt=0"`
}

// TasksConfig controls prompt language and per-task sampling overrides.
type TasksConfig struct {
	Language         string `validate:"required"`
	CVAnalysis       SamplingConfig
	AnswerEvaluation SamplingConfig
	FollowUp         SamplingConfig
	ReportSummary    SamplingConfig
}

// SamplingConfig overrides a task template's sampling. Nil fields keep the
// template default.
type SamplingConfig struct {
	Temperature *float64 `yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `yaml:"max_tokens" validate:"omitempty,gt=0"`
}

// Options converts the override into completion options.
func (s SamplingConfig) Options() llama.Options {
	return llama.Options{Temperature: s.Temperature, MaxTokens: s.MaxTokens}
}

// HistoryConfig controls the local record of task runs.
type HistoryConfig struct {
	Enabled   bool
	Path      string        `validate:"required_if=Enabled true"`
	Retention time.Duration `validate:"gt=0"`
}

const (
	defaultLanguage         = "English"
	defaultHistoryPath      = "careerlens.db"
	defaultHistoryRetention = 30 * 24 * time.Hour
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Llama   rawLlamaConfig   `yaml:"llama"`
	Tasks   rawTasksConfig   `yaml:"tasks"`
	History rawHistoryConfig `yaml:"history"`
}

type rawLlamaConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	FallbackModel string `yaml:"fallback_model"`
	Timeout       string `yaml:"timeout"`
}

type rawTasksConfig struct {
	Language         string         `yaml:"language"`
	CVAnalysis       SamplingConfig `yaml:"cv_analysis"`
	AnswerEvaluation SamplingConfig `yaml:"answer_evaluation"`
	FollowUp         SamplingConfig `yaml:"follow_up"`
	ReportSummary    SamplingConfig `yaml:"report_summary"`
}

type rawHistoryConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, applies defaults and
// environment overrides, validates it, and returns Config. When allowMissing
// is true a nonexistent file yields the defaults.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		data = nil
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout, err := parseDuration("llama.timeout", raw.Llama.Timeout, llama.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	retention, err := parseDuration("history.retention", raw.History.Retention, defaultHistoryRetention)
	if err != nil {
		return nil, err
	}

	baseURL := raw.Llama.BaseURL
	if env := os.Getenv(BaseURLEnv); env != "" {
		baseURL = env
	}

	cfg := &Config{
		Llama: LlamaConfig{
			BaseURL:       strings.TrimRight(orDefault(baseURL, llama.DefaultBaseURL), "/"),
			APIKey:        raw.Llama.APIKey,
			Model:         raw.Llama.Model,
			FallbackModel: orDefault(raw.Llama.FallbackModel, llama.DefaultFallbackModel),
			Timeout:       timeout,
		},
		Tasks: TasksConfig{
			Language:         orDefault(raw.Tasks.Language, defaultLanguage),
			CVAnalysis:       raw.Tasks.CVAnalysis,
			AnswerEvaluation: raw.Tasks.AnswerEvaluation,
			FollowUp:         raw.Tasks.FollowUp,
			ReportSummary:    raw.Tasks.ReportSummary,
		},
		History: HistoryConfig{
			Enabled:   raw.History.Enabled == nil || *raw.History.Enabled,
			Path:      orDefault(raw.History.Path, defaultHistoryPath),
			Retention: retention,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		// Report yaml key names in validation errors.
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

func validate(cfg *Config) error {
	if err := getValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
