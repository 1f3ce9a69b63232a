package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/ai"
	"github.com/amishk599/careerlens/internal/config"
	"github.com/amishk599/careerlens/internal/llama"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/progress"
	"github.com/amishk599/careerlens/internal/store"
)

const configEnv = "CAREERLENS_CONFIG"

var (
	cfgPath string
	envFile string
	format  string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "careerlens",
	Short: "Career coaching on a local LLM",
	Long: "careerlens analyzes CVs, evaluates interview answers and drafts follow-up questions\n" +
		"using a local OpenAI-compatible server such as LM Studio or llama.cpp.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch format {
		case formatText, formatJSON, formatYAML:
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERLENS_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CAREERLENS_CONFIG env var > "./config.yaml".
// Only the implicit default may be missing.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	allowMissing := false
	if path == "" {
		if env := os.Getenv(configEnv); env != "" {
			path = env
		} else {
			path = "config.yaml"
			allowMissing = true
		}
	}
	return config.Load(path, allowMissing)
}

// setupLogger logs to stderr so json and yaml output on stdout stays parseable.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// app bundles what every task command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	probe   *llama.Probe
	service *ai.Service
	runs    model.RunStore
	close   func()
}

// setupApp loads config and wires client, probe, resolver, gateway, service
// and history store. Callers must defer a.close().
func setupApp(logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("config loaded",
		"base_url", cfg.Llama.BaseURL,
		"model", cfg.Llama.Model,
		"timeout", cfg.Llama.Timeout.String(),
		"language", cfg.Tasks.Language,
		"history", cfg.History.Enabled,
	)

	client := llama.NewClient(cfg.Llama.BaseURL, cfg.Llama.APIKey, cfg.Llama.Timeout)
	probe := llama.NewProbe(client, logger)
	resolver := llama.NewModelResolver(probe, cfg.Llama.FallbackModel, logger)
	gateway := llama.NewGateway(client, resolver, logger)
	service := ai.NewService(gateway, cfg.Tasks.Language, tuning(cfg), logger)

	runs, closeRuns, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		probe:   probe,
		service: service,
		runs:    runs,
		close:   closeRuns,
	}, nil
}

func tuning(cfg *config.Config) ai.Tuning {
	return ai.Tuning{
		Default:          llama.Options{Model: cfg.Llama.Model},
		CVAnalysis:       cfg.Tasks.CVAnalysis.Options(),
		AnswerEvaluation: cfg.Tasks.AnswerEvaluation.Options(),
		FollowUp:         cfg.Tasks.FollowUp.Options(),
		ReportSummary:    cfg.Tasks.ReportSummary.Options(),
	}
}

// openStore returns the SQLite history, or a NopStore when history is disabled.
func openStore(cfg *config.Config, logger *slog.Logger) (model.RunStore, func(), error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	logger.Debug("history enabled", "path", cfg.History.Path)
	return sqlStore, func() { sqlStore.Close() }, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// withSpinner runs fn behind an inline spinner on stderr in text mode, and
// directly otherwise.
func withSpinner[T any](ctx context.Context, label string, fn func(ctx context.Context) T) (T, error) {
	if format != formatText {
		return fn(ctx), nil
	}
	return progress.Run(ctx, os.Stderr, label, fn)
}
