package config

import "time"

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs and verifies issued tokens (HS256). Required.
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenTTL bounds both the JWT and the server-side session record.
	TokenTTL time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// ResetBaseURL prefixes the password reset link mailed to users.
	ResetBaseURL string `env:"RESET_BASE_URL" envDefault:"http://localhost:8000/reset-password"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenTTL < time.Minute {
		a.TokenTTL = time.Minute
	}
}
