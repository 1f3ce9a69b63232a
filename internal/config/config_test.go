package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/careerlens/internal/llama"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	t.Setenv("TEST_LLAMA_KEY", "sk-local")
	path := writeConfig(t, `
llama:
  base_url: http://10.0.0.5:8080/
  api_key: ${TEST_LLAMA_KEY}
  model: qwen2.5-7b-instruct
  timeout: 45s
tasks:
  language: Spanish
  answer_evaluation:
    temperature: 0.2
  follow_up:
    max_tokens: 120
history:
  enabled: false
  retention: 48h
`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Llama.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("BaseURL = %q", cfg.Llama.BaseURL)
	}
	if cfg.Llama.APIKey != "sk-local" {
		t.Errorf("APIKey = %q, want env expansion", cfg.Llama.APIKey)
	}
	if cfg.Llama.Model != "qwen2.5-7b-instruct" {
		t.Errorf("Model = %q", cfg.Llama.Model)
	}
	if cfg.Llama.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.Llama.Timeout)
	}
	if cfg.Tasks.Language != "Spanish" {
		t.Errorf("Language = %q", cfg.Tasks.Language)
	}
	if cfg.Tasks.AnswerEvaluation.Temperature == nil || *cfg.Tasks.AnswerEvaluation.Temperature != 0.2 {
		t.Errorf("AnswerEvaluation.Temperature = %v", cfg.Tasks.AnswerEvaluation.Temperature)
	}
	if cfg.Tasks.AnswerEvaluation.MaxTokens != nil {
		t.Error("unset max_tokens must stay nil")
	}
	if opts := cfg.Tasks.FollowUp.Options(); opts.MaxTokens == nil || *opts.MaxTokens != 120 {
		t.Errorf("FollowUp options = %+v", opts)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.Retention != 48*time.Hour {
		t.Errorf("Retention = %v", cfg.History.Retention)
	}
}

func TestLoad_MissingFileAllowed(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Llama.BaseURL != llama.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Llama.BaseURL)
	}
	if cfg.Llama.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", cfg.Llama.Timeout)
	}
	if cfg.Llama.FallbackModel != llama.DefaultFallbackModel {
		t.Errorf("FallbackModel = %q", cfg.Llama.FallbackModel)
	}
	if cfg.Tasks.Language != "English" {
		t.Errorf("Language = %q", cfg.Tasks.Language)
	}
	if !cfg.History.Enabled || cfg.History.Path != "careerlens.db" {
		t.Errorf("History = %+v", cfg.History)
	}
}

func TestLoad_MissingFileNotAllowed(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"), false)
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv(BaseURLEnv, "http://gpu-box:1234")
	path := writeConfig(t, "llama:\n  base_url: http://127.0.0.1:9999\n")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Llama.BaseURL != "http://gpu-box:1234" {
		t.Errorf("BaseURL = %q, want env value", cfg.Llama.BaseURL)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "llama: [broken")
	if _, err := Load(path, false); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	cases := map[string]string{
		"bad timeout":       "llama:\n  timeout: soon\n",
		"negative timeout":  "llama:\n  timeout: -5s\n",
		"non-http base url": "llama:\n  base_url: ftp://host\n",
		"temperature > 2":   "tasks:\n  cv_analysis:\n    temperature: 3\n",
		"zero max tokens":   "tasks:\n  report_summary:\n    max_tokens: 0\n",
		"bad retention":     "history:\n  retention: 1 week\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(content)); err == nil {
				t.Fatal("Parse: expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CAREERLENS_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAREERLENS_TEST_VAR", "")
	os.Unsetenv("CAREERLENS_TEST_VAR")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("CAREERLENS_TEST_VAR"); got != "from-file" {
		t.Errorf("CAREERLENS_TEST_VAR = %q", got)
	}
}
