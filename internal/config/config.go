// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package config builds the application configuration from CLI flags, the
// environment and an optional TOML file.
package config

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Voting   VotingConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	CookieName      string
	CookieSecure    bool
	SessionHashKey  string // 32-byte hex string for HMAC signing
	SessionDuration int    // hours
	// AutoVerifyOTP skips the login second factor entirely. It exists for
	// local development and must stay off in production deployments.
	AutoVerifyOTP     bool
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapName     string
}

type VotingConfig struct {
	CodeLength    int
	CodeTTL       time.Duration
	InvitationTTL time.Duration
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Auth: AuthConfig{
			CookieName:        cmd.String("session-cookie-name"),
			CookieSecure:      cmd.Bool("session-cookie-secure"),
			SessionHashKey:    cmd.String("session-hash-key"),
			SessionDuration:   int(cmd.Int("session-duration")),
			AutoVerifyOTP:     cmd.Bool("auto-verify-otp"),
			BootstrapEmail:    cmd.String("bootstrap-admin-email"),
			BootstrapPassword: cmd.String("bootstrap-admin-password"),
			BootstrapName:     cmd.String("bootstrap-admin-name"),
		},
		Voting: VotingConfig{
			CodeLength:    int(cmd.Int("vote-code-length")),
			CodeTTL:       time.Duration(cmd.Int("vote-code-ttl")) * time.Minute,
			InvitationTTL: time.Duration(cmd.Int("invitation-ttl")) * 24 * time.Hour,
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Value:   "http://localhost:8080",
			Usage:   "Base URL for links in outgoing email",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/unityvote.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing email",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Unity Vote Admin",
			Usage:   "Display name for outgoing email",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS when talking to the SMTP server",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("auth.cookie_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "session-cookie-secure",
			Usage:   "HTTPS only session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_SECURE"), toml.TOML("auth.cookie_secure", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session cookie hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("auth.hash_key", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-duration",
			Value:   24,
			Usage:   "Session lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_DURATION"), toml.TOML("auth.session_duration", configFile)),
		},
		&cli.BoolFlag{
			Name:    "auto-verify-otp",
			Usage:   "Skip the login OTP and create a session directly (development only)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AUTO_VERIFY_OTP"), toml.TOML("auth.auto_verify_otp", configFile)),
		},
		&cli.StringFlag{
			Name:    "bootstrap-admin-email",
			Usage:   "Email of the admin account created when none exists",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BOOTSTRAP_ADMIN_EMAIL"), toml.TOML("auth.bootstrap_email", configFile)),
		},
		&cli.StringFlag{
			Name:    "bootstrap-admin-password",
			Usage:   "Password of the bootstrap admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BOOTSTRAP_ADMIN_PASSWORD"), toml.TOML("auth.bootstrap_password", configFile)),
		},
		&cli.StringFlag{
			Name:    "bootstrap-admin-name",
			Value:   "Administrator",
			Usage:   "Display name of the bootstrap admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BOOTSTRAP_ADMIN_NAME"), toml.TOML("auth.bootstrap_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "vote-code-length",
			Value:   6,
			Usage:   "Number of digits in verification codes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("VOTE_CODE_LENGTH"), toml.TOML("voting.code_length", configFile)),
		},
		&cli.IntFlag{
			Name:    "vote-code-ttl",
			Value:   10,
			Usage:   "Verification code lifetime in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("VOTE_CODE_TTL"), toml.TOML("voting.code_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "invitation-ttl",
			Value:   7,
			Usage:   "Invitation lifetime in days",
			Sources: cli.NewValueSourceChain(cli.EnvVar("INVITATION_TTL"), toml.TOML("voting.invitation_ttl", configFile)),
		},
	}
}
