package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/birddigital/twilio-softphone/pkg/config"
	"github.com/birddigital/twilio-softphone/pkg/phone"
	"github.com/birddigital/twilio-softphone/pkg/telephony"
)

type server struct {
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func newServer(cfg config.Config, logger *slog.Logger) (*server, error) {
	callerID, err := resolveCallerID(cfg, logger)
	if err != nil {
		return nil, err
	}

	creds := cfg.Credentials()
	if missing := creds.Missing(); len(missing) > 0 {
		logger.Warn("twilio credentials incomplete, token requests will fail",
			"event", "config_incomplete",
			"missing", missing)
	}

	var (
		registerer prometheus.Registerer
		gatherer   prometheus.Gatherer
	)
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registerer, gatherer = reg, reg
	}

	handlers := telephony.NewCallHandlers(telephony.Options{
		Credentials: creds,
		CallerID:    callerID,
		TokenTTL:    cfg.Twilio.TokenTTL,
		Metrics:     telephony.NewMetrics(registerer),
		Logger:      logger,
	})

	return &server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           telephony.NewRouter(handlers, logger, gatherer),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		},
	}, nil
}

// resolveCallerID normalizes the configured caller ID to E.164. Outside
// strict mode a missing or unparseable number is logged and passed through.
func resolveCallerID(cfg config.Config, logger *slog.Logger) (string, error) {
	raw := cfg.Twilio.PhoneNumber
	if raw == "" {
		if cfg.Voice.RequireCallerID {
			return "", errors.New("missing TWILIO_PHONE_NUMBER")
		}
		logger.Warn("TWILIO_PHONE_NUMBER not configured, calls will dial without a caller ID",
			"event", "caller_id_missing")
		return "", nil
	}

	normalized, err := phone.NormalizeE164(raw, cfg.Voice.DefaultRegion)
	if err != nil {
		if cfg.Voice.RequireCallerID {
			return "", fmt.Errorf("invalid TWILIO_PHONE_NUMBER: %w", err)
		}
		logger.Warn("caller ID is not a dialable number, using it unchanged",
			"event", "caller_id_invalid",
			"caller_id", raw,
			"error", err.Error())
		return raw, nil
	}
	if normalized != raw {
		logger.Info("normalized caller ID",
			"event", "caller_id_normalized",
			"from", raw,
			"to", normalized)
	}
	return normalized, nil
}

func (s *server) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		s.logger.Error("server failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http shutdown failed", "error", err)
	}
	return runErr
}
