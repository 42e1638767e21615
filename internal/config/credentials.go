package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingUserAgent is returned when no user agent is configured; Reddit
// rejects unidentified clients.
var ErrMissingUserAgent = errors.New("REDDIT_USER_AGENT is required")

// Credentials holds the Reddit API credential material sourced from the
// environment.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string
}

// LoadCredentials reads credentials from a .env file (if present) and the
// process environment.
func LoadCredentials() (*Credentials, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	creds := &Credentials{
		ClientID:     strings.TrimSpace(os.Getenv("REDDIT_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(os.Getenv("REDDIT_CLIENT_SECRET")),
		UserAgent:    strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT")),
		Username:     strings.TrimSpace(os.Getenv("REDDIT_USERNAME")),
		Password:     strings.TrimSpace(os.Getenv("REDDIT_PASSWORD")),
	}

	if creds.UserAgent == "" {
		return nil, ErrMissingUserAgent
	}

	return creds, nil
}

// HasAppAuth reports whether app-only (client credentials) auth is possible.
func (c *Credentials) HasAppAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// HasUserAuth reports whether password-grant auth is possible.
func (c *Credentials) HasUserAuth() bool {
	return c.HasAppAuth() && c.Username != "" && c.Password != ""
}
