package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/postgres"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/redisclient"
)

// StorefrontConfig holds the service-level settings
type StorefrontConfig struct {
	HTTPPort       int    `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	Currency       string `yaml:"currency" env:"CURRENCY" env-default:"INR"`
	ShippingCost   int64  `yaml:"shipping_cost" env:"SHIPPING_COST" env-default:"99"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	RateLimitRequests int           `yaml:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS" env-default:"10"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// RazorpayConfig carries the gateway credential pair and the webhook secret.
// All of them may be empty at startup; absence surfaces as an error on the
// first call that needs them.
type RazorpayConfig struct {
	KeyID         string `yaml:"key_id" env:"KEY_ID"`
	KeySecret     string `yaml:"key_secret" env:"KEY_SECRET"`
	WebhookSecret string `yaml:"webhook_secret" env:"WEBHOOK_SECRET"`
}

type AdminConfig struct {
	Username  string        `yaml:"username" env:"USERNAME" env-default:"admin"`
	Password  string        `yaml:"password" env:"PASSWORD"`
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"12h"`
}

type Config struct {
	Storefront StorefrontConfig   `yaml:"storefront" env-prefix:"STOREFRONT_"`
	Razorpay   RazorpayConfig     `yaml:"razorpay" env-prefix:"RAZORPAY_"`
	Admin      AdminConfig        `yaml:"admin" env-prefix:"ADMIN_"`
	Postgres   postgres.Config    `yaml:"postgres" env-prefix:"POSTGRES_"`
	Redis      redisclient.Config `yaml:"redis" env-prefix:"REDIS_"`
}

func TryRead() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{},
			fmt.Errorf("failed to read env variables: %w", err)
	}
	return cfg, nil
}
