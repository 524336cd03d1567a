package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSessionSecret is the documented development secret. Production refuses it.
const DefaultSessionSecret = "dev-secret-key"

var ErrInsecureSecret = errors.New("session secret must be set to a non-default value in production")

// Duration decodes TOML strings such as "15m" or "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Web       WebConfig       `toml:"web"`
	OAuth     OAuthConfig     `toml:"oauth"`
	Discord   DiscordConfig   `toml:"discord"`
	Sessions  SessionsConfig  `toml:"sessions"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Store     StoreConfig     `toml:"store"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type WebConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Environment    string   `toml:"environment"`
	SessionSecret  string   `toml:"session_secret"`
	SessionTTL     Duration `toml:"session_ttl"`
	CookieName     string   `toml:"cookie_name"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// PublicReads leaves the read endpoints open to anonymous visitors.
	PublicReads bool `toml:"public_reads"`
	// TrustProxy makes the client IP come from X-Forwarded-For.
	TrustProxy bool `toml:"trust_proxy"`
}

type OAuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
	// RedirectURL overrides the callback URL derived from the request host.
	RedirectURL     string `toml:"redirect_url"`
	AuthURL         string `toml:"auth_url"`
	TokenURL        string `toml:"token_url"`
	APIBase         string `toml:"api_base"`
	LoginPath       string `toml:"login_path"`
	SuccessRedirect string `toml:"success_redirect"`
}

type DiscordConfig struct {
	BotToken string   `toml:"bot_token"`
	Timeout  Duration `toml:"timeout"`
}

type SessionsConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	KeyPrefix     string `toml:"key_prefix"`
}

type RateLimitConfig struct {
	GeneralLimit  int      `toml:"general_limit"`
	GeneralWindow Duration `toml:"general_window"`
	AuthLimit     int      `toml:"auth_limit"`
	AuthWindow    Duration `toml:"auth_window"`
	// MaxClients bounds how many client IPs each limiter tracks.
	MaxClients int `toml:"max_clients"`
}

type StoreConfig struct {
	SeedDemoData bool `toml:"seed_demo_data"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          5000,
			Environment:   "development",
			SessionSecret: DefaultSessionSecret,
			SessionTTL:    Duration{7 * 24 * time.Hour},
			CookieName:    "orbital_session",
			PublicReads:   true,
		},
		OAuth: OAuthConfig{
			Scopes:          []string{"identify", "guilds"},
			AuthURL:         "https://discord.com/oauth2/authorize",
			TokenURL:        "https://discord.com/api/oauth2/token",
			APIBase:         "https://discord.com/api/v10",
			LoginPath:       "/login",
			SuccessRedirect: "/",
		},
		Discord: DiscordConfig{
			Timeout: Duration{10 * time.Second},
		},
		Sessions: SessionsConfig{
			Backend:   "memory",
			KeyPrefix: "orbital:session:",
		},
		RateLimit: RateLimitConfig{
			GeneralLimit:  100,
			GeneralWindow: Duration{15 * time.Minute},
			AuthLimit:     5,
			AuthWindow:    Duration{15 * time.Minute},
			MaxClients:    10000,
		},
		Store: StoreConfig{SeedDemoData: true},
	}
}

// LoadConfig reads the TOML file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Warn("Config file not found, using defaults", slog.String("path", path))
		case err != nil:
			return nil, fmt.Errorf("failed to open config: %w", err)
		default:
			defer file.Close()
			if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("APP_ENV", &c.Web.Environment)
	str("SESSION_SECRET", &c.Web.SessionSecret)
	str("DISCORD_CLIENT_ID", &c.OAuth.ClientID)
	str("DISCORD_CLIENT_SECRET", &c.OAuth.ClientSecret)
	str("DISCORD_REDIRECT_URL", &c.OAuth.RedirectURL)
	str("DISCORD_BOT_TOKEN", &c.Discord.BotToken)

	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Sessions.RedisAddr = v
		c.Sessions.Backend = "redis"
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Web.Port = port
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Web.Environment, "production")
}

// Validate returns an error for settings the server must not start with and logs
// warnings for ones that only disable features.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Web.SessionSecret == "" || c.Web.SessionSecret == DefaultSessionSecret) {
		return ErrInsecureSecret
	}
	if c.Web.SessionSecret == "" {
		return errors.New("session secret must not be empty")
	}
	if c.Web.SessionTTL.Duration <= 0 {
		return errors.New("web.session_ttl must be positive")
	}
	switch c.Sessions.Backend {
	case "memory":
	case "redis":
		if c.Sessions.RedisAddr == "" {
			return errors.New("sessions.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown sessions.backend %q", c.Sessions.Backend)
	}
	for _, origin := range c.Web.AllowedOrigins {
		if origin == "*" {
			return errors.New("web.allowed_origins cannot be a wildcard when cookies are sent")
		}
	}
	if c.RateLimit.GeneralLimit <= 0 || c.RateLimit.AuthLimit <= 0 {
		return errors.New("rate limits must be positive")
	}

	if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
		slog.Warn("Discord OAuth credentials missing, login will fail",
			slog.Bool("client_id_set", c.OAuth.ClientID != ""),
			slog.Bool("client_secret_set", c.OAuth.ClientSecret != ""))
	}
	if c.Discord.BotToken == "" {
		slog.Warn("No bot token configured, serving local data until one is set")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}
