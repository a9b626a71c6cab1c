package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultOwner       = "CrazySloths"
	DefaultReadme      = "README.md"
	DefaultStartMarker = "<!-- SKILLS:START -->"
	DefaultEndMarker   = "<!-- SKILLS:END -->"
	DefaultBadgeURL    = "https://skillicons.dev/icons"
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultConfigName is looked up in the working directory when no
	// config file is given explicitly.
	DefaultConfigName = ".skillbadge"

	envPrefix = "SKILLBADGE"
)

// Config is the full skillbadge configuration.
type Config struct {
	Owner       string        `mapstructure:"owner"`
	Readme      string        `mapstructure:"readme"`
	Markers     MarkerConfig  `mapstructure:"markers"`
	Badge       BadgeConfig   `mapstructure:"badge"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Skills      SkillTable    `mapstructure:"skills"`
}

// MarkerConfig holds the README region sentinels.
type MarkerConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// BadgeConfig controls the generated image tag.
type BadgeConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from defaults, an optional YAML file, SKILLBADGE_*
// environment variables and finally overrides, in increasing precedence.
//
// An explicit configFile must exist. With an empty configFile,
// .skillbadge.yaml in the working directory is used when present.
func Load(configFile string, overrides map[string]any) (*Config, error) {
	table, err := DefaultSkillTable()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("owner", DefaultOwner)
	v.SetDefault("readme", DefaultReadme)
	v.SetDefault("markers.start", DefaultStartMarker)
	v.SetDefault("markers.end", DefaultEndMarker)
	v.SetDefault("badge.base_url", DefaultBadgeURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("skills.dependencies", table.defaultsMap())
	v.SetDefault("skills.composer", table.Composer)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Readme == "" {
		return fmt.Errorf("readme path is required")
	}
	if c.Markers.Start == "" || c.Markers.End == "" {
		return fmt.Errorf("markers.start and markers.end must not be empty")
	}
	if c.Markers.Start == c.Markers.End {
		return fmt.Errorf("markers.start and markers.end must differ")
	}
	if c.Badge.BaseURL == "" {
		return fmt.Errorf("badge.base_url is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid http_timeout: %s", c.HTTPTimeout)
	}
	return c.Skills.Validate()
}
