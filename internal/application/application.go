package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/config"
	"github.com/mavi-suporte/helpdesk-service/internal/database"
	"github.com/mavi-suporte/helpdesk-service/internal/handler"
	"github.com/mavi-suporte/helpdesk-service/internal/kafka"
	"github.com/mavi-suporte/helpdesk-service/internal/logging"
	"github.com/mavi-suporte/helpdesk-service/internal/metrics"
	"github.com/mavi-suporte/helpdesk-service/internal/middleware"
	"github.com/mavi-suporte/helpdesk-service/internal/notify"
	"github.com/mavi-suporte/helpdesk-service/internal/router"
	"github.com/mavi-suporte/helpdesk-service/internal/security"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"go.uber.org/zap"
)

// API wires the helpdesk service together and runs the HTTP server.
type API struct {
	cfg      *config.Config
	logger   *zap.Logger
	httpSrv  *http.Server
	producer *kafka.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	st, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	keys, err := security.NewKeyManager(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	ticketSvc := service.NewTicketService(st, logger)
	authSvc := service.NewAuthService(keys, st, logger)
	productSvc := service.NewProductService(st, logger)
	auditSvc := service.NewAuditService(st, logger)
	dispatcher := notify.NewDispatcher(logger, buildChannels(cfg)...)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, logger)
	m := metrics.New()

	ticketHandler := handler.NewTicketHandler(ticketSvc, dispatcher, producer, auditSvc, m, logger)
	authHandler := handler.NewAuthHandler(authSvc, logger)
	adminHandler := handler.NewAdminHandler(productSvc, auditSvc, logger)
	authMW := middleware.NewAuthMiddleware(authSvc, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(ticketHandler, authHandler, adminHandler, authMW, m),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		logger:   logger,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

func buildStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		return store.NewMemoryStore(), nil
	}
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return store.NewGormStore(db), nil
}

func buildChannels(cfg *config.Config) []notify.Channel {
	var channels []notify.Channel
	if cfg.SMTP.Host != "" && cfg.SMTP.From != "" {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Password))
	}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.ToNumber != "" {
		channels = append(channels, notify.NewSMSChannel(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.ToNumber))
	}
	if cfg.WhatsApp.GatewayURL != "" && cfg.WhatsApp.ToNumber != "" {
		channels = append(channels, notify.NewWhatsAppChannel(cfg.WhatsApp.GatewayURL, cfg.WhatsApp.ToNumber))
	}
	return channels
}

// Run blocks until ctx is cancelled, then shuts the server down gracefully.
func (a *API) Run(ctx context.Context) error {
	a.logger.Info("HTTP server listening",
		zap.String("addr", a.httpSrv.Addr),
		zap.String("store", a.cfg.StoreDriver),
		zap.String("env", a.cfg.AppEnv))

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		a.logger.Warn("kafka close", zap.Error(err))
	}
	_ = a.logger.Sync()
	return nil
}
