/**
 * @description
 * This package handles configuration management for the payment-service. It
 * uses the Viper library to read configuration from environment variables
 * (plus an optional .env file for local development), providing a
 * centralized way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the payment-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort             string `mapstructure:"SERVER_PORT"`
	DatabaseURL            string `mapstructure:"DATABASE_URL"`
	RedisURL               string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix         string `mapstructure:"REDIS_KEY_PREFIX"`
	RabbitMQURL            string `mapstructure:"RABBITMQ_URL"`
	EventExchange          string `mapstructure:"EVENT_EXCHANGE"`
	ClerkJWKSURL           string `mapstructure:"CLERK_JWKS_URL"`
	InternalAPIKey         string `mapstructure:"INTERNAL_API_KEY"`
	WalletUsageCapPercent  int64  `mapstructure:"WALLET_USAGE_CAP_PERCENT"`
	CashbackRatePercent    int64  `mapstructure:"CASHBACK_RATE_PERCENT"`
	IdempotencyTTLMinutes  int    `mapstructure:"IDEMPOTENCY_TTL_MINUTES"`
	RentReminderSchedule   string `mapstructure:"RENT_REMINDER_SCHEDULE"`
	RentReminderDaysBefore int    `mapstructure:"RENT_REMINDER_DAYS_BEFORE"`
	VendorSearchMaxKm      float64 `mapstructure:"VENDOR_SEARCH_MAX_KM"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values. The wallet cap and cashback rate default to the
	// product's launch rates; exposing them here keeps a rate change an
	// environment edit rather than a deploy.
	viper.SetDefault("SERVER_PORT", "8084")
	viper.SetDefault("REDIS_KEY_PREFIX", "rentpe:payments")
	viper.SetDefault("EVENT_EXCHANGE", "rentpe.events")
	viper.SetDefault("WALLET_USAGE_CAP_PERCENT", 10)
	viper.SetDefault("CASHBACK_RATE_PERCENT", 2)
	viper.SetDefault("IDEMPOTENCY_TTL_MINUTES", 1440)
	viper.SetDefault("RENT_REMINDER_SCHEDULE", "0 9 * * *") // At 09:00 every day.
	viper.SetDefault("RENT_REMINDER_DAYS_BEFORE", 3)
	viper.SetDefault("VENDOR_SEARCH_MAX_KM", 25.0)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_KEY_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("CLERK_JWKS_URL")
	_ = viper.BindEnv("INTERNAL_API_KEY")
	_ = viper.BindEnv("WALLET_USAGE_CAP_PERCENT")
	_ = viper.BindEnv("CASHBACK_RATE_PERCENT")
	_ = viper.BindEnv("IDEMPOTENCY_TTL_MINUTES")
	_ = viper.BindEnv("RENT_REMINDER_SCHEDULE")
	_ = viper.BindEnv("RENT_REMINDER_DAYS_BEFORE")
	_ = viper.BindEnv("VENDOR_SEARCH_MAX_KM")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	// Coerce the business rates into sane ranges rather than failing boot.
	if config.WalletUsageCapPercent < 0 {
		log.Printf("level=warn component=config msg=\"negative wallet usage cap configured; coercing to zero\" cap_percent=%d", config.WalletUsageCapPercent)
		config.WalletUsageCapPercent = 0
	}
	if config.WalletUsageCapPercent > 100 {
		log.Printf("level=warn component=config msg=\"wallet usage cap too high; capping at 100\" cap_percent=%d", config.WalletUsageCapPercent)
		config.WalletUsageCapPercent = 100
	}
	if config.CashbackRatePercent < 0 {
		log.Printf("level=warn component=config msg=\"negative cashback rate configured; coercing to zero\" rate_percent=%d", config.CashbackRatePercent)
		config.CashbackRatePercent = 0
	}
	if config.CashbackRatePercent > 100 {
		log.Printf("level=warn component=config msg=\"cashback rate too high; capping at 100\" rate_percent=%d", config.CashbackRatePercent)
		config.CashbackRatePercent = 100
	}

	if config.IdempotencyTTLMinutes <= 0 {
		config.IdempotencyTTLMinutes = 1440
	}
	if config.RentReminderDaysBefore <= 0 {
		config.RentReminderDaysBefore = 3
	}
	if config.VendorSearchMaxKm <= 0 {
		config.VendorSearchMaxKm = 25.0
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisKeyPrefix = strings.TrimSpace(config.RedisKeyPrefix)
	if config.RedisKeyPrefix == "" {
		config.RedisKeyPrefix = "rentpe:payments"
	}

	return
}
