package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port              int    `envconfig:"PORT" default:"8080"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL       string `envconfig:"DATABASE_URL" required:"true"`
	Version           string `envconfig:"VERSION" default:"dev"`
	JWTSecret         string `envconfig:"JWT_SECRET" required:"true"`
	GithubClientID    string `envconfig:"GITHUB_CLIENT_ID" default:""`
	GithubSecret      string `envconfig:"GITHUB_CLIENT_SECRET" default:""`
	GithubRedirectURL string `envconfig:"GITHUB_REDIRECT_URL" default:""`
	RatePerMinute     int    `envconfig:"RATE_PER_MINUTE" default:"120"`
	RateBurst         int    `envconfig:"RATE_BURST" default:"120"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
