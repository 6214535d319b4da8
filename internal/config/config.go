package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServerConfig describes one mail server endpoint.
type ServerConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	StartTLS bool   `mapstructure:"starttls" yaml:"starttls"`
}

// Config is the client configuration.
type Config struct {
	// User and Password authenticate both retrieval and submission.
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`

	IMAP ServerConfig `mapstructure:"imap" yaml:"imap"`
	SMTP ServerConfig `mapstructure:"smtp" yaml:"smtp"`

	Insecure bool   `mapstructure:"insecure" yaml:"insecure"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	Limit    int    `mapstructure:"limit" yaml:"limit"`
	Editor   string `mapstructure:"editor" yaml:"editor"`
	Mbox     string `mapstructure:"mbox" yaml:"mbox"`

	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// ConfigError lists required settings that are missing.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required settings: " + strings.Join(e.Missing, ", ")
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"user":      "user",
	"imap-host": "imap.host",
	"imap-port": "imap.port",
	"smtp-host": "smtp.host",
	"smtp-port": "smtp.port",
	"starttls":  "starttls",
	"insecure":  "insecure",
	"mailbox":   "mailbox",
	"limit":     "limit",
	"editor":    "editor",
	"mbox":      "mbox",
	"log-file":  "log_file",
	"log-level": "log_level",
}

// envKeys binds the conventional environment variables.
var envKeys = map[string][]string{
	"user":     {"QSOLMAIL_USER", "GMAIL_USER"},
	"password": {"QSOLMAIL_PASS", "GMAIL_PASS"},
	"editor":   {"QSOLMAIL_EDITOR", "EDITOR"},
}

// DefaultConfigPath returns ~/.config/qsolmail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "qsolmail", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("imap.host", "imap.gmail.com")
	v.SetDefault("imap.port", 993)
	v.SetDefault("imap.starttls", false)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.starttls", false)
	v.SetDefault("mailbox", "INBOX")
	v.SetDefault("limit", 10)
	v.SetDefault("editor", "nano")
	v.SetDefault("log_level", "info")
}

// Load resolves the configuration from defaults, the YAML file at path,
// the environment and flags, in increasing priority. A missing file is
// not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envKeys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	v.SetEnvPrefix("QSOLMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	// --starttls applies to both servers.
	if v.GetBool("starttls") {
		cfg.IMAP.StartTLS = true
		cfg.SMTP.StartTLS = true
	}
	return cfg, nil
}

// Validate reports missing credentials as a *ConfigError.
func (c *Config) Validate() error {
	var missing []string
	if c.User == "" {
		missing = append(missing, "GMAIL_USER")
	}
	if c.Password == "" {
		missing = append(missing, "GMAIL_PASS")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
