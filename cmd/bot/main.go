package main

import (
	"context"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tgshopai/tgshop-backend/internal/assistant"
	"github.com/tgshopai/tgshop-backend/internal/bot"
	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/internal/orders"
	"github.com/tgshopai/tgshop-backend/internal/users"
	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
	"github.com/tgshopai/tgshop-backend/pkg/metrics"
	"github.com/tgshopai/tgshop-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.Bot.Token == "" {
		logg.Error(context.Background(), "TGSHOP_BOT_TOKEN is required", nil)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledger := metrics.NewLedgerMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient)
	router := bot.NewRouter(
		users.NewRepository(dbClient),
		catalogRepo,
		orders.NewRepository(dbClient, ledger),
		assistant.NewService(dbClient, catalogRepo),
		logg,
	)

	metricsAddr := ":" + cfg.Bot.MetricsPort
	logg.Info(logg.WithField(context.Background(), "addr", metricsAddr), "starting metrics server")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveCtx := logg.WithField(context.Background(), "addr", metricsAddr)
			logg.Error(serveCtx, "metrics server stopped unexpectedly", err)
		}
	}()

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logg.Error(context.Background(), "failed to connect to telegram", err)
		os.Exit(1)
	}
	api.Debug = cfg.Bot.Debug

	ctx := logg.WithField(context.Background(), "bot_username", api.Self.UserName)
	logg.Info(ctx, "bot authorized, starting long polling")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = cfg.Bot.PollTimeout

	for update := range api.GetUpdatesChan(updateConfig) {
		if update.Message == nil || update.Message.From == nil {
			continue
		}

		msg := bot.Message{
			ExternalID:  update.Message.From.ID,
			DisplayName: displayName(update.Message.From),
			Text:        update.Message.Text,
		}

		reply := router.Handle(context.Background(), msg)
		if reply == "" {
			continue
		}

		out := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
		if _, err := api.Send(out); err != nil {
			sendCtx := logg.WithField(context.Background(), "chat_id", update.Message.Chat.ID)
			logg.Error(sendCtx, "failed to send reply", err)
		}
	}
}

func displayName(from *tgbotapi.User) string {
	if from.UserName != "" {
		return from.UserName
	}
	if from.LastName != "" {
		return from.FirstName + " " + from.LastName
	}
	return from.FirstName
}
