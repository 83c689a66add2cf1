package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ScheduleAssistantBot/internal/agent"
	"ScheduleAssistantBot/internal/ai"
	"ScheduleAssistantBot/internal/api"
	"ScheduleAssistantBot/internal/bot"
	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/config"
	"ScheduleAssistantBot/internal/database"
	"ScheduleAssistantBot/internal/reminder"
	"ScheduleAssistantBot/internal/scheduler"
	"ScheduleAssistantBot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	if err := database.AutoMigrate(); err != nil {
		logger.Fatalw("database migration failed", "err", err)
	}
	store := database.NewStore()

	calendarSvc := calendar.NewService(store, logger)
	if err := calendarSvc.EnsureDefaultCategories(); err != nil {
		logger.Warnw("failed to seed default categories", "err", err)
	}

	sessions, err := storage.NewMemoryStorage()
	if err != nil {
		logger.Fatalw("failed to init session storage", "err", err)
	}
	go monitorStorage(sessions, logger)

	aiClient := ai.NewClient(ai.Config{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.Model,
	}, logger)

	tg, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatalw("failed to create bot", "err", err)
	}
	logger.Infow("authorized on telegram", "account", tg.Self.UserName)

	updateHandler := bot.NewUpdateHandler(tg, sessions, calendarSvc, aiClient, store, logger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := tg.GetUpdatesChan(u)
	go updateHandler.HandleUpdates(updates)

	sweeper := reminder.NewSweeper(store, bot.NewTelegramNotifier(tg), cfg.ReminderLookahead, logger)
	ingestAgent := agent.NewAgent(store, calendarSvc, aiClient, logger)

	jobs := scheduler.New(ingestAgent, sweeper, cfg.AgentPollInterval, cfg.ReminderPollInterval, logger)
	jobs.Start()

	apiServer := api.NewServer(calendarSvc, cfg.StaticDir, logger)
	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: apiServer.Router(),
	}
	go func() {
		logger.Infow("calendar api listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	tg.StopReceivingUpdates()
	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorw("http shutdown failed", "err", err)
	}
	logger.Info("stopped")
}

func monitorStorage(s *storage.MemoryStorage, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		stats := s.GetStats()
		logger.Infow("session storage stats",
			"history_size", stats["history_size"],
			"active_chats", stats["active_chats"],
		)
	}
}
