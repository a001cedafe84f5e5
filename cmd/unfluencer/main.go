package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sspacecoding/unfluencer/internal/brain"
	"github.com/sspacecoding/unfluencer/internal/config"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
	"github.com/sspacecoding/unfluencer/internal/imaging"
	"github.com/sspacecoding/unfluencer/internal/logging"
	"github.com/sspacecoding/unfluencer/internal/orchestrator"
	"github.com/sspacecoding/unfluencer/internal/prompt"
	"github.com/sspacecoding/unfluencer/internal/session"
	"github.com/sspacecoding/unfluencer/internal/sites/instagram"
	"github.com/sspacecoding/unfluencer/internal/storage"
	"github.com/sspacecoding/unfluencer/internal/ui/console"
	"github.com/sspacecoding/unfluencer/internal/ui/telegram"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New()
	ctx := context.Background()

	log.Info("starting unfluencer")
	start := time.Now()

	var store ports.Storage
	if cfg.Storage.DatabaseURL != "" {
		pg, err := storage.NewPostgresStorage(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			log.Warn("postgres unavailable, falling back to file storage", "err", err)
		} else {
			log.Info("activity log: postgres")
			store = pg
		}
	}
	if store == nil {
		js, err := storage.NewJSONStorage(cfg.Storage.ActivityPath)
		if err != nil {
			log.Warn("activity log disabled", "err", err)
		} else {
			log.Info("activity log: json file", "path", cfg.Storage.ActivityPath)
			store = js
		}
	}

	var client ports.SocialClient
	if cfg.Instagram.UseMocks {
		log.Info("using mock instagram client")
		client = instagram.NewMockClient()
	} else {
		client = instagram.New(instagram.WithBaseURL(cfg.Instagram.BaseURL))
	}

	var replyBrain ports.Brain
	if b, err := brain.NewGeminiBrain(ctx, cfg.Inference.APIKey, cfg.Inference.KeyFile, log); err != nil {
		// The run goes on: every generation attempt will surface this error.
		log.Error("inference client disabled for this run", "err", err)
		replyBrain = brain.Disabled{Err: err}
	} else {
		log.Info("inference client initialized")
		replyBrain = b
	}

	var ui ports.Interaction
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tg, err := telegram.NewTelegramUI(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("telegram unavailable, using console", "err", err)
		} else {
			log.Info("operator channel: telegram")
			ui = tg
		}
	}
	if ui == nil {
		ui = console.New(os.Stdin, os.Stdout)
	}

	template, err := prompt.LoadTemplate(cfg.Prompt.File)
	if err != nil {
		log.Error("failed to load prompt template", "path", cfg.Prompt.File, "err", err)
		return
	}

	sess := session.NewManager(client, cfg.Instagram.SessionFile, log)
	creds := session.Credentials{Username: cfg.Instagram.Username, Password: cfg.Instagram.Password}
	if err := sess.Ensure(ctx, creds); err != nil {
		log.Error("login failed, check credentials", "err", err)
		return
	}

	var targets []orchestrator.Target
	if cfg.Instagram.PostURL != "" {
		targets = append(targets, orchestrator.Target{PostURL: cfg.Instagram.PostURL})
	}
	for _, acc := range cfg.Instagram.Accounts {
		if acc = strings.TrimSpace(acc); acc != "" {
			targets = append(targets, orchestrator.Target{Account: acc})
		}
	}
	if len(targets) == 0 {
		log.Error("nothing to do: set INSTAGRAM_POST_URL or INSTAGRAM_ACCOUNTS")
		return
	}

	orch := orchestrator.New(client, replyBrain, ui, store, imaging.NewFetcher(log), template,
		orchestrator.Options{
			CommentPageSize: cfg.Instagram.CommentPageSize,
			ScanLimit:       cfg.Instagram.ScanLimit,
			AnalyzeImage:    cfg.Inference.AnalyzeImage,
		}, log, os.Stdout)

	orch.Run(ctx, targets)

	log.Info("run finished", "elapsed", time.Since(start).String())
}
