package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type Config struct {
	Network  networkConfig  `toml:"network" mapstructure:"network"`
	Service  serviceConfig  `toml:"service" mapstructure:"service"`
	Template templateConfig `toml:"template" mapstructure:"template"`
	Log      logConfig      `toml:"log" mapstructure:"log"`
	Roots    []rootConfig   `toml:"roots" mapstructure:"roots"`

	configDir string
}

type networkConfig struct {
	Host      string  `toml:"host" mapstructure:"host"`
	Port      int     `toml:"port" mapstructure:"port"`
	RateLimit float64 `toml:"rate_limit" mapstructure:"rate_limit"`
	Burst     int     `toml:"burst" mapstructure:"burst"`
}

type serviceConfig struct {
	TemplateIndex bool   `toml:"template_index" mapstructure:"template_index"`
	JSONAPI       bool   `toml:"json_api" mapstructure:"json_api"`
	Limit         int    `toml:"limit" mapstructure:"limit"`
	Chroot        bool   `toml:"chroot" mapstructure:"chroot"`
	Security      string `toml:"security" mapstructure:"security"`
}

type templateConfig struct {
	IndexFile string `toml:"index_file" mapstructure:"index_file"`
	ErrorFile string `toml:"error_file" mapstructure:"error_file"`
}

type logConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	File  string `toml:"file" mapstructure:"file"`
}

type rootConfig struct {
	Prefix string `toml:"prefix" mapstructure:"prefix"`
	Path   string `toml:"path" mapstructure:"path"`
}

var cfg *Config

// C returns the process-wide configuration. Init must have run first.
func C() *Config {
	return cfg
}

// ConfigDir is the directory of the loaded config file. Template paths
// are resolved relative to it.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// IndexFilePath returns the absolute path of the index template.
func (c *Config) IndexFilePath() string {
	return filepath.Join(c.configDir, c.Template.IndexFile)
}

// ErrorFilePath returns the absolute path of the error template.
func (c *Config) ErrorFilePath() string {
	return filepath.Join(c.configDir, c.Template.ErrorFile)
}

func setDefaults() {
	viper.SetDefault("network.host", "127.0.0.1")
	viper.SetDefault("network.port", 8080)
	viper.SetDefault("network.rate_limit", 0)
	viper.SetDefault("network.burst", 0)

	viper.SetDefault("service.template_index", true)
	viper.SetDefault("service.json_api", false)
	viper.SetDefault("service.limit", 1000)
	viper.SetDefault("service.chroot", false)
	viper.SetDefault("service.security", "none")

	viper.SetDefault("template.index_file", "index.html")
	viper.SetDefault("template.error_file", "error.html")

	viper.SetDefault("log.level", "info")
}

func Init(ctx context.Context, configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/yadex/")
	}
	viper.SetEnvPrefix("YADEX")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		log.FromContext(ctx).Warn("no config file found, using defaults")
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		c.configDir = filepath.Dir(used)
	} else {
		c.configDir = "."
	}

	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	if c.Network.Port < 1 || c.Network.Port > 65535 {
		return fmt.Errorf("network.port must be in 1..65535, got %d", c.Network.Port)
	}
	if c.Network.RateLimit < 0 || c.Network.Burst < 0 {
		return fmt.Errorf("network.rate_limit and network.burst must not be negative")
	}
	if c.Service.Limit < 0 {
		return fmt.Errorf("service.limit must not be negative, got %d", c.Service.Limit)
	}
	if !slices.Contains([]string{"none", "landlock"}, c.Service.Security) {
		return fmt.Errorf("service.security must be \"none\" or \"landlock\", got %q", c.Service.Security)
	}
	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one [[roots]] entry is required")
	}
	for _, r := range c.Roots {
		if r.Path == "" {
			return fmt.Errorf("roots entry with prefix %q has no path", r.Prefix)
		}
	}
	if c.Service.TemplateIndex {
		if c.Template.IndexFile == "" || c.Template.ErrorFile == "" {
			return fmt.Errorf("template.index_file and template.error_file are required when service.template_index is enabled")
		}
	}
	return nil
}
