package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fastprodman/payproc/internal/pricing"
	"github.com/fastprodman/payproc/internal/providers/coinbase"
	"github.com/fastprodman/payproc/internal/providers/paypal"
)

// ReconcileService is the lifecycle engine the handlers drive.
type ReconcileService interface {
	CreatePending(ctx context.Context, externalID string, playerID uint64) error
	CompleteFromPending(ctx context.Context, externalID string, quotedTotal string) (string, error)
	CreateAndComplete(ctx context.Context, externalID string, playerID uint64, quotedAmount string) (string, error)
}

// PayPalVerifier reports whether PayPal vouches for an inbound event. An
// error means verification is indeterminate; callers reject (fail closed).
type PayPalVerifier interface {
	VerifyWebhookSignature(ctx context.Context, header http.Header, rawBody []byte) (bool, error)
}

// CoinbaseVerifier checks the HMAC signature over the raw body.
type CoinbaseVerifier interface {
	Verify(rawBody []byte, signature string) bool
}

// HandlerProvider exposes the webhook HTTP handlers.
type HandlerProvider struct {
	svc      ReconcileService
	paypal   PayPalVerifier
	coinbase CoinbaseVerifier
	appEnv   string
}

func NewHandler(svc ReconcileService, pp PayPalVerifier, cb CoinbaseVerifier, appEnv string) *HandlerProvider {
	return &HandlerProvider{svc: svc, paypal: pp, coinbase: cb, appEnv: appEnv}
}

// --- Helpers ---

// Providers retry on 5xx and (mostly) give up on 4xx, so the mapping is:
// rejected = 403 (permanent, no retry wanted), transient = 500 (redeliver).
// Bodies carry nothing; everything useful goes to the log.
func (h *HandlerProvider) writeResult(w http.ResponseWriter, status int) {
	if status == http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}

	w.WriteHeader(status)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	return io.ReadAll(r.Body)
}

// isRejection classifies errors that redelivery cannot fix.
func isRejection(err error) bool {
	return errors.Is(err, pricing.ErrUnknownPrice)
}

// --- Handlers ---

// CreatePayPalPaymentHandler handles POST /payment/create/paypal/, the
// client announcing intent to pay. App-level fields only, no signature.
func (h *HandlerProvider) CreatePayPalPaymentHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	var req struct {
		PaymentID string `json:"paymentId"`
		PlayerID  uint64 `json:"playerId"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.PaymentID == "" || req.PlayerID == 0 {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	err = h.svc.CreatePending(r.Context(), req.PaymentID, req.PlayerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "create payment failed",
			"payment", req.PaymentID, "player", req.PlayerID, "provider", "paypal", "error", err)
		h.writeResult(w, http.StatusInternalServerError)
		return
	}

	h.writeResult(w, http.StatusOK)
}

// CompletePayPalPaymentHandler handles POST /payment/complete/paypal/, the
// settlement webhook. Signature is verified against PayPal before any state
// is touched.
func (h *HandlerProvider) CompletePayPalPaymentHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil || len(body) == 0 || r.Header.Get(paypal.SignatureHeader) == "" {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	ok, err := h.paypal.VerifyWebhookSignature(r.Context(), r.Header, body)
	if err != nil {
		slog.WarnContext(r.Context(), "paypal verification indeterminate",
			"provider", "paypal", "step", "verify", "error", err)
		h.writeResult(w, http.StatusForbidden)
		return
	}
	if !ok {
		slog.WarnContext(r.Context(), "paypal signature rejected", "provider", "paypal", "step", "verify")
		h.writeResult(w, http.StatusForbidden)
		return
	}

	var event struct {
		Resource struct {
			ParentPayment string `json:"parent_payment"`
			Amount        struct {
				Total string `json:"total"`
			} `json:"amount"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(body, &event); err != nil ||
		event.Resource.ParentPayment == "" || event.Resource.Amount.Total == "" {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	externalID := event.Resource.ParentPayment
	total := event.Resource.Amount.Total

	_, err = h.svc.CompleteFromPending(r.Context(), externalID, total)
	if err != nil {
		if isRejection(err) {
			slog.ErrorContext(r.Context(), "completion rejected",
				"payment", externalID, "provider", "paypal", "step", "pricing", "error", err)
			h.writeResult(w, http.StatusForbidden)
			return
		}

		slog.ErrorContext(r.Context(), "completion failed",
			"payment", externalID, "provider", "paypal", "step", "reconcile", "error", err)
		h.writeResult(w, http.StatusInternalServerError)
		return
	}

	h.writeResult(w, http.StatusOK)
}

// CoinbasePaymentHandler handles POST /payment/coinbase/, the crypto rail.
// Coinbase never announces intent, so creation and completion are one unit.
func (h *HandlerProvider) CoinbasePaymentHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil || len(body) == 0 {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	signature := r.Header.Get(coinbase.SignatureHeader)
	if signature == "" || !h.coinbase.Verify(body, signature) {
		slog.WarnContext(r.Context(), "coinbase signature rejected", "provider", "coinbase", "step", "verify")
		h.writeResult(w, http.StatusForbidden)
		return
	}

	var event coinbase.Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	data := event.Event.Data
	if data.Code == "" || data.Pricing.Local.Amount == "" || data.Metadata.Custom == "" {
		h.writeResult(w, http.StatusForbidden)
		return
	}

	playerID, env, err := coinbase.SplitCustomMetadata(data.Metadata.Custom)
	if err != nil {
		slog.WarnContext(r.Context(), "coinbase metadata rejected",
			"payment", data.Code, "provider", "coinbase", "step", "metadata", "error", err)
		h.writeResult(w, http.StatusForbidden)
		return
	}

	// Events tagged for another deployment are acknowledged untouched;
	// rejecting them would only trigger a provider retry storm.
	if !strings.EqualFold(env, h.appEnv) {
		slog.InfoContext(r.Context(), "cross-environment event ignored",
			"payment", data.Code, "provider", "coinbase", "event_env", env)
		h.writeResult(w, http.StatusOK)
		return
	}

	_, err = h.svc.CreateAndComplete(r.Context(), data.Code, playerID, data.Pricing.Local.Amount)
	if err != nil {
		if isRejection(err) {
			slog.ErrorContext(r.Context(), "completion rejected",
				"payment", data.Code, "provider", "coinbase", "step", "pricing", "error", err)
			h.writeResult(w, http.StatusForbidden)
			return
		}

		slog.ErrorContext(r.Context(), "completion failed",
			"payment", data.Code, "provider", "coinbase", "step", "reconcile", "error", err)
		h.writeResult(w, http.StatusInternalServerError)
		return
	}

	h.writeResult(w, http.StatusOK)
}
