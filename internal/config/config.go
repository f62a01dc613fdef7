package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

// Config carries process-level settings sourced from the environment.
type Config struct {
	ServiceName string
	Env         string
	Addr        string

	// OTLP trace endpoint; tracing stays no-op when empty.
	OtelEndpoint string

	// Payment gateway simulation. FailureRate is the injected random failure
	// probability in [0,1]; 0 keeps captures deterministic.
	PaymentFailureRate    float64
	PaymentGatewayLatency time.Duration

	// SeedCatalog loads the demo product set on startup.
	SeedCatalog bool
}

func Load() Config {
	return Config{
		ServiceName:           getenvDefault("SERVICE_NAME", "orderapi"),
		Env:                   getenvDefault("ENV", "dev"),
		Addr:                  getenvDefault("ADDR", ":8080"),
		OtelEndpoint:          os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		PaymentFailureRate:    clampRate(cast.ToFloat64(os.Getenv("PAYMENT_FAILURE_RATE"))),
		PaymentGatewayLatency: gatewayLatency(),
		SeedCatalog:           cast.ToBool(getenvDefault("SEED_CATALOG", "true")),
	}
}

func gatewayLatency() time.Duration {
	v := os.Getenv("PAYMENT_GATEWAY_LATENCY")
	if v == "" {
		return 100 * time.Millisecond
	}
	return cast.ToDuration(v)
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
