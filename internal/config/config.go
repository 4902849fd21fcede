package config

import "os"

// Config carries the environment-level settings the app needs at startup.
// Secrets stay in the environment; nothing here is persisted.
type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	PaypalClientID      string
	PaypalClientSecret  string
	PaypalLive          bool
	FrontendURL         string
}

func Load() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	return Config{
		Addr:                addr,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PaypalClientID:      os.Getenv("PAYPAL_CLIENT_ID"),
		PaypalClientSecret:  os.Getenv("PAYPAL_CLIENT_SECRET"),
		PaypalLive:          os.Getenv("PAYPAL_LIVE") == "1",
		FrontendURL:         frontend,
	}
}
