package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"signalhook/src/model"
	"signalhook/src/requestctx"
	"signalhook/src/security"

	logger "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type configFinder interface {
	GetByID(ctx context.Context, id string) (*model.WebhookConfig, error)
}

type signalRecorder interface {
	Insert(ctx context.Context, signal *model.WebhookSignal) error
}

type receiveOptions struct {
	redactPassphrase bool
	now              func() time.Time
}

type ReceiveOption func(*receiveOptions)

// WithPassphraseRedaction drops the passphrase from the stored payload.
func WithPassphraseRedaction(redact bool) ReceiveOption {
	return func(o *receiveOptions) { o.redactPassphrase = redact }
}

func WithClock(now func() time.Time) ReceiveOption {
	return func(o *receiveOptions) { o.now = now }
}

// ReceiveWebhookHandler authenticates an alert against the configuration named by
// the last path segment and appends it to the signal store.
func ReceiveWebhookHandler(configs configFinder, signals signalRecorder, opts ...ReceiveOption) http.HandlerFunc {
	options := receiveOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		configID := configIDFromPath(r.URL.EscapedPath())
		log := logger.WithFields(map[string]interface{}{
			"handler":    "receive_webhook",
			"config_id":  configID,
			"request_id": requestctx.GetRequestID(r.Context()),
		})

		defer func() {
			if rec := recover(); rec != nil {
				log.WithError(fmt.Errorf("%v", rec)).Error("panic while processing webhook")
				writeJSON(w, http.StatusInternalServerError, model.ErrorResponse(model.CodeServerError, fmt.Sprint(rec)))
			}
		}()

		if r.Method != http.MethodPost {
			log.WithField("method", r.Method).Warn("rejected webhook: method not allowed")
			writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse(model.CodeMethodNotAllowed, "Only POST allowed"))
			return
		}

		signal, err := model.DecodeInboundSignal(r.Body)
		if err != nil {
			log.WithError(err).Warn("rejected webhook: unreadable body")
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse(model.CodeServerError, err.Error()))
			return
		}

		log = log.WithFields(map[string]interface{}{
			"ticker": signal.Ticker(),
			"action": signal.Action(),
		})
		log.WithField("payload", security.SanitizePayload(map[string]any(signal))).Debug("webhook received")

		if missing := signal.MissingFields(); len(missing) > 0 {
			log.WithField("missing", missing).Warn("rejected webhook: missing required fields")
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse(model.CodeInvalidPayload, "Missing required fields"))
			return
		}

		config, err := configs.GetByID(r.Context(), configID)
		if err != nil || config == nil {
			entry := log
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Warn("rejected webhook: configuration not found")
			writeJSON(w, http.StatusNotFound, model.ErrorResponse(model.CodeConfigNotFound, "Webhook configuration not found"))
			return
		}

		passphrase, ok := signal.Passphrase()
		if !ok || !security.TokensMatch(config.SecurityToken, passphrase) {
			log.Warn("rejected webhook: invalid passphrase")
			writeJSON(w, http.StatusUnauthorized, model.ErrorResponse(model.CodeUnauthorized, "Invalid passphrase"))
			return
		}

		stored := signal
		if options.redactPassphrase {
			stored = signal.Without(model.FieldPassphrase)
		}
		payload, err := stored.JSON()
		if err != nil {
			log.WithError(err).Error("failed to encode webhook payload")
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse(model.CodeServerError, err.Error()))
			return
		}

		receivedAt := options.now().UTC()
		record := &model.WebhookSignal{
			ConfigID:    configID,
			Payload:     datatypes.JSON(payload),
			Fingerprint: security.Fingerprint(configID, receivedAt, payload),
			ReceivedAt:  receivedAt,
		}

		if err := signals.Insert(r.Context(), record); err != nil {
			log.WithError(err).Error("failed to store webhook signal")
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse(model.CodeDBError, err.Error()))
			return
		}

		log.WithField("fingerprint", record.Fingerprint).Info("webhook processed")
		writeJSON(w, http.StatusOK, model.APIResponse{Status: model.StatusSuccess, Message: "Webhook processed"})
	}
}

// configIDFromPath returns the final segment of the escaped path as-is.
func configIDFromPath(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}
