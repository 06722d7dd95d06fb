package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all webhook endpoints registered.
// Paths keep their trailing slash: that is how they are registered with the
// providers.
func NewRouter(svc ReconcileService, pp PayPalVerifier, cb CoinbaseVerifier, appEnv string) http.Handler {
	h := NewHandler(svc, pp, cb, appEnv)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/payment/create/paypal/", h.CreatePayPalPaymentHandler)
	r.Post("/payment/complete/paypal/", h.CompletePayPalPaymentHandler)
	r.Post("/payment/coinbase/", h.CoinbasePaymentHandler)

	return r
}
