package cmd

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmind/internal/app"
	"github.com/abhisek/quizmind/internal/config"
	"github.com/abhisek/quizmind/internal/dispatch"
	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/logging"
	"github.com/abhisek/quizmind/internal/questiongen"
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/recall"
	"github.com/abhisek/quizmind/internal/screens"
	"github.com/abhisek/quizmind/internal/session"
)

// runApp builds the dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()

	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	if err != nil {
		return fmt.Errorf("LLM provider not configured (set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY): %w", err)
	}

	var gen questiongen.Generator = questiongen.New(provider, questiongen.DefaultConfig())
	if cfg.Recall.RedisAddr != "" {
		client, err := recall.Connect(ctx, []string{cfg.Recall.RedisAddr}, cfg.Recall.Password)
		if err != nil {
			logger.Warn("recall disabled", "addr", cfg.Recall.RedisAddr, "error", err)
		} else {
			defer client.Close()
			gen = questiongen.WithRecall(gen, recall.NewRedisStore(recall.Config{
				Redis:  client,
				Prefix: cfg.Recall.Prefix,
				Size:   cfg.Recall.Size,
				TTL:    cfg.Recall.TTL,
			}), logger)
		}
	}

	queue := dispatch.New(dispatch.Options{
		Buffer:      cfg.Dispatch.Buffer,
		TaskTimeout: cfg.Dispatch.TaskTimeout,
		Logger:      logger,
	})
	defer queue.Close()

	deps := &screens.Deps{
		Session: session.Config{
			Generator:      gen,
			Repo:           st.SessionRepo(),
			Queue:          queue,
			TotalQuestions: cfg.Quiz.TotalQuestions,
			FetchTimeout:   cfg.Quiz.FetchTimeout,
			Logger:         logger,
		},
		Sessions: st.SessionRepo(),
		User:     cfg.User,
		Logger:   logger,
	}
	// Validate has already accepted both values.
	deps.DefaultTopic, _ = quiz.ParseTopic(cfg.Quiz.DefaultTopic)
	deps.DefaultDifficulty, _ = quiz.ParseDifficulty(cfg.Quiz.DefaultDifficulty)
	deps.SaveProfile = profileSaver(deps, cfgPath, logger)

	logger.Info("starting", "version", version, "provider", cfg.LLM.Provider, "store", cfg.Store.Driver)
	return app.Run(ctx, deps)
}

// profileSaver persists the player's name, assigning an id on first save.
func profileSaver(deps *screens.Deps, path string, logger *slog.Logger) func(string) (config.UserConfig, error) {
	return func(name string) (config.UserConfig, error) {
		u := deps.User
		u.Name = name
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if err := config.SaveUser(path, u); err != nil {
			logger.Error("save profile failed", "path", path, "error", err)
			return config.UserConfig{}, err
		}
		return u, nil
	}
}
