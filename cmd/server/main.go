package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-attendance/internal/config"
	"qr-attendance/internal/database"
	"qr-attendance/internal/handler"
	"qr-attendance/internal/report"
	"qr-attendance/internal/repository"
	"qr-attendance/internal/service"
	httptransport "qr-attendance/internal/transport/http"
	"qr-attendance/pkg/clock"
	"qr-attendance/pkg/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.Get()
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get database instance")
	}

	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	ledger := service.NewLedger(attendanceRepo, clock.NewSystem(cfg.Location))
	generator := report.NewGenerator(cfg.ReportTitle, cfg.Location, report.XLSXEncoder{})

	server := httptransport.NewServer(ledger, generator, cfg, cfg.StaticDir)
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			logrus.WithError(err).Fatal("HTTP server stopped")
		}
	}()

	// Telegram-бот поднимается, только если задан токен
	var client *telegram.Client
	if cfg.TelegramEnabled() {
		client, err = telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create Telegram client")
		}
		logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

		botHandler := handler.NewHandler(client.Bot, ledger, generator, cfg.BaseAdminChatID)
		go botHandler.HandleUpdates(client.Updates())
	}

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logrus.Info("Attendance service started. Press Ctrl+C to stop.")
	<-stop

	if client != nil {
		client.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("Error shutting down HTTP server")
	}

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Attendance service stopped gracefully")
}
