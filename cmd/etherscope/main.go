package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/analyzer"
	"github.com/etherscope-bot/pkg/bot"
	"github.com/etherscope-bot/pkg/cache"
	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/dashboard"
	"github.com/etherscope-bot/pkg/db"
	"github.com/etherscope-bot/pkg/explorer"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	color.Cyan("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	color.Cyan("🔭 EtherScope - Web3 Wallet Intelligence Bot")
	color.Cyan("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if err := cfg.Validate(); err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			color.Red("❌ %s", cfgErr.Msg)
		}
		log.Fatal().Err(err).Msg("configuration validation failed")
	}
	color.Green("✅ Configuration validated")
	fmt.Printf("   Environment: %s\n", cfg.Environment)
	fmt.Printf("   Blockchain Provider: %s\n", cfg.APIProvider)
	fmt.Printf("   Cache Enabled: %v\n", cfg.CacheEnabled)

	store, err := db.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer store.Close()

	resultCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL, cfg.CacheMaxSize)
	client := explorer.New(cfg)
	svc := analyzer.NewService(client, resultCache, store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigCh; log.Info().Msg("shutting down..."); cancel() }()

	// Sweep expired cache entries so memory does not only shrink on reads.
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		if removed := resultCache.CleanupExpired(); removed > 0 {
			log.Info().Int("removed", removed).Msg("🧹 cache cleanup")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("cron setup failed")
	}
	c.Start()
	defer c.Stop()

	errCh := make(chan error, 2)
	dash := dashboard.New(store, resultCache, cfg, cfg.DashboardPort)
	go func() { errCh <- dash.Run() }()

	b := bot.New(cfg, svc)
	go func() { errCh <- b.Run(ctx) }()

	color.Green("🚀 Bot is now running and listening for messages")
	fmt.Println("   /start   - Show welcome message")
	fmt.Println("   /analyze <wallet_address> - Analyze a wallet")
	fmt.Println("   /health  - Check bot status")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("fatal error")
		}
	}
	log.Info().Msg("goodbye 👋")
}
