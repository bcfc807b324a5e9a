package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/app"
	"github.com/Freeeeeet/booking_portal/internal/auth"
	"github.com/Freeeeeet/booking_portal/internal/config"
	"github.com/Freeeeeet/booking_portal/internal/controller/httpapi"
	"github.com/Freeeeeet/booking_portal/internal/controller/telegram"
	"github.com/Freeeeeet/booking_portal/internal/notify"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting booking portal",
		"environment", cfg.Environment,
		"storage", cfg.Storage,
		"timezone", cfg.Timezone,
		"student_cancel_mode", cfg.StudentCancelMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Portal stopped with error", zap.Error(err))
	}
	logger.Info("Portal stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	stores, closeStores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	var tg *bot.Bot
	if cfg.TelegramToken != "" {
		tg, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("TELEGRAM_TOKEN is not set, bot and telegram notifications are disabled")
	}

	notifiers := notify.Multi{emailNotifier(cfg, logger)}
	if tg != nil {
		notifiers = append(notifiers, telegram.NewNotifier(tg, stores.Accounts, cfg.Location(), logger))
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(stores.Accounts, stores.Tokens, issuer, logger)
	appointments := service.NewAppointmentService(stores, notifiers, service.AppointmentOptions{
		Location:       cfg.Location(),
		CancelByStatus: cfg.StudentCancelMode == config.CancelModeStatus,
	}, logger)

	deps := httpapi.Deps{
		Auth:         authSvc,
		Directory:    service.NewDirectoryService(stores.Teachers, logger),
		Approval:     service.NewApprovalService(stores.Students, notifiers, logger),
		Availability: service.NewAvailabilityService(stores.Availabilities, logger),
		Appointments: appointments,
	}

	server := httpapi.NewServer(httpapi.Options{
		Address:        cfg.HTTPAddr,
		RequestTimeout: cfg.RequestTimeout,
		Debug:          !cfg.IsProduction(),
	}, deps, logger)

	scheduler := app.NewScheduler(appointments, authSvc, cfg.DigestInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if tg != nil {
		controller := telegram.NewController(tg, authSvc, appointments, logger)
		if err := controller.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands were not registered", zap.Error(err))
		}
		go controller.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// emailNotifier письма через Resend, без ключа только логирование
func emailNotifier(cfg *config.Config, logger *zap.Logger) service.Notifier {
	var sender notify.Sender
	if cfg.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom, logger)
	} else {
		sender = notify.NewNoopSender(logger)
	}
	return notify.NewEmailNotifier(sender, cfg.Location())
}
