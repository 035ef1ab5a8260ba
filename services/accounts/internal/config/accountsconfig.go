package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type AccountsConfig struct {
	JWTSecret      []byte
	AccessTokenTTL time.Duration
}

func LoadAccounts() (AccountsConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return AccountsConfig{}, errors.New("JWT_SECRET is required")
	}

	accessTTL := parseDurationWithDefault(os.Getenv("ACCESS_TOKEN_TTL"), 24*time.Hour)

	return AccountsConfig{JWTSecret: []byte(secret), AccessTokenTTL: accessTTL}, nil
}

func parseDurationWithDefault(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
