package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Surge     SurgeConfig     `yaml:"surge"`
	Vercel    VercelConfig    `yaml:"vercel"`
	GitHub    GitHubConfig    `yaml:"github"`
	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Environment  string `yaml:"environment"`
	EditorOrigin string `yaml:"editor_origin"`
}

type DeployConfig struct {
	RootDir        string `yaml:"root_dir"`
	CommandTimeout int    `yaml:"command_timeout"`
	MaxOutputSize  int    `yaml:"max_output_size"`
}

type SurgeConfig struct {
	CLIPath         string `yaml:"cli_path"`
	DomainSuffix    string `yaml:"domain_suffix"`
	CookieName      string `yaml:"cookie_name"`
	HealthURL       string `yaml:"health_url"`
	IdentityTimeout int    `yaml:"identity_timeout"`
	TokenTimeout    int    `yaml:"token_timeout"`
	LoginTimeout    int    `yaml:"login_timeout"`
}

type VercelConfig struct {
	APIBase string `yaml:"api_base"`
}

type GitHubConfig struct {
	APIBase string `yaml:"api_base"`
	Token   string `yaml:"token"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RateLimitConfig struct {
	Window string `yaml:"window"`
	Max    int    `yaml:"max"`
}

// IsProduction reports whether the server runs with the production
// environment flag, which gates the Secure attribute on session cookies.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *SurgeConfig) GetIdentityTimeout() time.Duration {
	return time.Duration(c.IdentityTimeout) * time.Second
}

func (c *SurgeConfig) GetTokenTimeout() time.Duration {
	return time.Duration(c.TokenTimeout) * time.Second
}

func (c *SurgeConfig) GetLoginTimeout() time.Duration {
	return time.Duration(c.LoginTimeout) * time.Second
}

func (c *DeployConfig) GetCommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

func (c *RateLimitConfig) GetWindow() time.Duration {
	d, err := time.ParseDuration(c.Window)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	setDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5174
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = "development"
	}
	if cfg.Server.EditorOrigin == "" {
		cfg.Server.EditorOrigin = "http://localhost:5173"
	}
	if cfg.Deploy.RootDir == "" {
		cfg.Deploy.RootDir = "./deployments"
	}
	if cfg.Deploy.CommandTimeout == 0 {
		cfg.Deploy.CommandTimeout = 120
	}
	if cfg.Deploy.MaxOutputSize == 0 {
		cfg.Deploy.MaxOutputSize = 1048576
	}
	if cfg.Surge.CLIPath == "" {
		cfg.Surge.CLIPath = "surge"
	}
	if cfg.Surge.DomainSuffix == "" {
		cfg.Surge.DomainSuffix = "surge.sh"
	}
	if cfg.Surge.CookieName == "" {
		cfg.Surge.CookieName = "surge_token"
	}
	if cfg.Surge.HealthURL == "" {
		cfg.Surge.HealthURL = "https://surge.systems/healthcheck"
	}
	if cfg.Surge.IdentityTimeout == 0 {
		cfg.Surge.IdentityTimeout = 5
	}
	if cfg.Surge.TokenTimeout == 0 {
		cfg.Surge.TokenTimeout = 10
	}
	if cfg.Surge.LoginTimeout == 0 {
		cfg.Surge.LoginTimeout = 15
	}
	if cfg.Vercel.APIBase == "" {
		cfg.Vercel.APIBase = "https://api.vercel.com"
	}
	if cfg.GitHub.APIBase == "" {
		cfg.GitHub.APIBase = "https://api.github.com"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/wui.db"
	}
	if cfg.RateLimit.Window == "" {
		cfg.RateLimit.Window = "15m"
	}
	if cfg.RateLimit.Max == 0 {
		cfg.RateLimit.Max = 5
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GH_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("SURGE_CLI_PATH"); v != "" {
		cfg.Surge.CLIPath = v
	}
	if v := os.Getenv("WUI_ENV"); v != "" {
		cfg.Server.Environment = v
	}
}
