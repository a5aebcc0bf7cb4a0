package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"signalhook/src/database"
	"signalhook/src/handler"
	"signalhook/src/model"
	"signalhook/src/security"
	"signalhook/src/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"
)

// NewRouter wires the ingestion endpoint on top of the given stores.
func NewRouter(stores *store.Stores, config *Config, securityConfig security.Config) http.Handler {
	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	receive := handler.ReceiveWebhookHandler(stores.Configs, stores.Signals,
		handler.WithPassphraseRedaction(securityConfig.RedactPassphrase))
	r.With(LimitBody(config.MaxBodyBytes)).HandleFunc("/receive-webhook", receive)
	r.With(LimitBody(config.MaxBodyBytes)).HandleFunc("/receive-webhook/*", receive)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, model.CodeRouteNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, model.CodeMethodNotAllowed, "Method not allowed")
	})

	return r
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(model.ErrorResponse(code, message)); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// StartServer serves handler until SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(config *Config, h http.Handler) error {
	addr := ":" + config.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		logger.WithError(err).Error("Server crashed")
		return err
	case <-stop:
	}

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
		return err
	}
	return nil
}

// Run opens the configured store and serves until a shutdown signal arrives.
func Run(ctx context.Context) error {
	stores, err := store.Open(ctx, database.GetConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.WithError(err).Error("failed to close store")
		}
	}()

	config := GetConfig()
	return StartServer(config, NewRouter(stores, config, security.GetConfig()))
}
