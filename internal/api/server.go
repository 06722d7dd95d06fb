package api

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer creates a configured *http.Server for the payment API.
func NewServer(port uint16, svc ReconcileService, pp PayPalVerifier, cb CoinbaseVerifier, appEnv string) *http.Server {
	mux := NewRouter(svc, pp, cb, appEnv)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
