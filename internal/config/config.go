package config

import (
	"fmt"

	"github.com/scriptink/writofest-api/internal/registration"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabasePath   string `mapstructure:"DATABASE_PATH"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	RegistrationPolicy  string   `mapstructure:"REGISTRATION_POLICY"`
	RegistrationSchema  string   `mapstructure:"REGISTRATION_SCHEMA"`
	RequiredFields      []string `mapstructure:"REQUIRED_FIELDS"`
	RegistrationsClosed bool     `mapstructure:"REGISTRATIONS_CLOSED"`

	EnableCORS         bool     `mapstructure:"ENABLE_CORS"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel           string   `mapstructure:"LOG_LEVEL"`
	LogFormat          string   `mapstructure:"LOG_FORMAT"`

	EmailHost     string `mapstructure:"EMAIL_HOST"`
	EmailPort     int    `mapstructure:"EMAIL_PORT"`
	EmailUser     string `mapstructure:"EMAIL_USER"`
	EmailPass     string `mapstructure:"EMAIL_PASS"`
	EmailFromName string `mapstructure:"EMAIL_FROM_NAME"`

	EventName     string `mapstructure:"EVENT_NAME"`
	EventDate     string `mapstructure:"EVENT_DATE"`
	EventVenue    string `mapstructure:"EVENT_VENUE"`
	EventGroupURL string `mapstructure:"EVENT_GROUP_URL"`

	DiscordClientID               string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
}

var defaults = map[string]any{
	"PORT":                 "3000",
	"DATABASE_PATH":        "writofest.db",
	"DB_MAX_OPEN_CONNS":    10,
	"DB_MAX_IDLE_CONNS":    5,
	"REGISTRATION_POLICY":  string(registration.PolicyUpsert),
	"REGISTRATION_SCHEMA":  registration.SchemaFull.Name,
	"REQUIRED_FIELDS":      []string{},
	"REGISTRATIONS_CLOSED": false,
	"ENABLE_CORS":          true,
	"CORS_ALLOWED_ORIGINS": []string{"*"},
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "text",
	"EMAIL_PORT":           465,
	"EMAIL_FROM_NAME":      "ScriptInk",
	"EVENT_NAME":           "WritoFest 2K25",
	"EVENT_DATE":           "November 15, 2025",
	"EVENT_VENUE":          "Media Centre, SIT",
	"DISCORD_REDIRECT_URL": "http://127.0.0.1:3000/auth/discord/callback",
}

var envKeys = []string{
	"DATABASE_URL",
	"EMAIL_HOST",
	"EMAIL_USER",
	"EMAIL_PASS",
	"EVENT_GROUP_URL",
	"DISCORD_CLIENT_ID",
	"DISCORD_CLIENT_SECRET",
	"DISCORD_GUILD_ID",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
	"JWT_SECRET",
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for _, k := range envKeys {
		v.BindEnv(k)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if _, err := config.Registration(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Registration resolves the named policy and required-field set.
func (c *Config) Registration() (registration.Options, error) {
	policy, err := registration.ParsePolicy(c.RegistrationPolicy)
	if err != nil {
		return registration.Options{}, err
	}
	if c.RegistrationsClosed {
		policy = registration.PolicyClosed
	}

	var schema registration.Schema
	if len(c.RequiredFields) > 0 {
		schema, err = registration.CustomSchema(c.RequiredFields)
	} else {
		schema, err = registration.ParseSchema(c.RegistrationSchema)
	}
	if err != nil {
		return registration.Options{}, err
	}

	return registration.Options{Policy: policy, Schema: schema}, nil
}
