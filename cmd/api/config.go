package main

import (
	"log/slog"
	"time"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"4000"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// AppEnv must match the environment tag providers stamp on events
	// ("prod", "dev"); events tagged otherwise are acknowledged untouched.
	AppEnv string `env:"APP_ENV"`

	PostgresDSN string `env:"PG_DSN"`

	PayPal   paypalConfig
	Coinbase coinbaseConfig
}

type paypalConfig struct {
	APIBase     string `env:"PAYPAL_API_BASE" envDefault:"https://api-m.paypal.com"`
	ClientID    string `env:"PAYPAL_CLIENT_ID"`
	Secret      string `env:"PAYPAL_SECRET"`
	CallbackURL string `env:"PAYPAL_CALLBACK_URL"`
}

type coinbaseConfig struct {
	SharedSecret string `env:"COINBASE_SHARED_SECRET"`
}
