package config

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *Config
	Debug       bool
	Environment string
	Version     string
}

// NewWebAppConfig creates a new web app configuration
func NewWebAppConfig(cfg *Config, version string) *WebAppConfig {
	return &WebAppConfig{
		Config:      cfg,
		Debug:       !cfg.IsProduction(),
		Environment: cfg.Web.Environment,
		Version:     version,
	}
}

// GetWebConfig returns the web configuration
func (w *WebAppConfig) GetWebConfig() WebConfig {
	return w.Config.Web
}

// GetOAuthConfig returns the OAuth configuration
func (w *WebAppConfig) GetOAuthConfig() OAuthConfig {
	return w.Config.OAuth
}

// GetRateLimitConfig returns the rate limit configuration
func (w *WebAppConfig) GetRateLimitConfig() RateLimitConfig {
	return w.Config.RateLimit
}
