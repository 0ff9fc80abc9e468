package config

import "strings"

// MailConfig contains outbound SMTP configuration for transactional mail
// (password reset links). When Host is empty the application falls back to a
// log-only mailer, which is the expected setup for local development.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"     envDefault:""`
	Port     int    `env:"SMTP_PORT"     envDefault:"587"`
	Username string `env:"SMTP_USERNAME" envDefault:""`
	Password string `env:"SMTP_PASSWORD" envDefault:""`
	From     string `env:"MAIL_FROM"     envDefault:"no-reply@inkwell.local"`
}

// Sanitize applies guardrails to mail configuration values.
func (m *MailConfig) Sanitize() {
	m.Host = strings.TrimSpace(m.Host)
	m.From = strings.TrimSpace(m.From)
	if m.Port <= 0 || m.Port > 65535 {
		m.Port = 587
	}
}

// DeliveryEnabled returns true when real SMTP delivery is configured.
func (m *MailConfig) DeliveryEnabled() bool {
	return m.Host != ""
}
