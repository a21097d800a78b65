package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBUrl     string
	JWTSecret string
	DomainURL string

	StripeSecretKey     string
	StripeWebhookSecret string

	PayoutProviderURL string
	PayoutProviderKey string

	AWSBucketName string
	AWSRegion     string

	// PlatformFeeRate is the fraction of gross revenue the platform keeps
	// on every charge (subscription, content sale, tip).
	PlatformFeeRate float64

	// SettlementHold is how long a completed transaction must age before
	// its funds become withdrawable.
	SettlementHold time.Duration
}

const (
	defaultFeeRate  = 0.15
	defaultHoldDays = 15
)

func LoadConfig() *Config {
	return &Config{
		DBUrl:               os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		DomainURL:           os.Getenv("DOMAIN_URL"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PayoutProviderURL:   os.Getenv("PAYOUT_PROVIDER_URL"),
		PayoutProviderKey:   os.Getenv("PAYOUT_PROVIDER_KEY"),
		AWSBucketName:       os.Getenv("AWS_BUCKET_NAME"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		PlatformFeeRate:     envFloat("PLATFORM_FEE_RATE", defaultFeeRate),
		SettlementHold:      time.Duration(envInt("SETTLEMENT_HOLD_DAYS", defaultHoldDays)) * 24 * time.Hour,
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v >= 1 {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
