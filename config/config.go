// Package config loads storefront settings from a YAML file and
// STOREFRONT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
	defaultConfigFile = "config.yaml"
	mask              = "******"
)

type logFile struct {
	Path       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type storage struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	SQLDB  string `mapstructure:"sql_db"`
}

type notification struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type catalog struct {
	SeedDemo bool `mapstructure:"seed_demo"`
}

type tryOn struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type topics struct {
	CatalogEvents string `mapstructure:"catalog_events"`
}

type brokerTLS struct {
	Enabled bool   `mapstructure:"enabled"`
	CA      string `mapstructure:"ca"`
	Cert    string `mapstructure:"cert"`
	Key     string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

// Enabled reports whether catalog events are published.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	Log            logFile       `mapstructure:"log"`
	Storage        storage       `mapstructure:"storage"`
	Notification   notification  `mapstructure:"notification"`
	Catalog        catalog       `mapstructure:"catalog"`
	TryOn          tryOn         `mapstructure:"tryon"`
	Broker         broker        `mapstructure:"broker"`
}

// Load reads the file named by --config or STOREFRONT_CONFIG_FILE and exits
// the process on failure.
func Load() Config {
	cfg, err := LoadFrom(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFrom reads path. A missing file leaves defaults and environment in
// effect.
func LoadFrom(path string) (Config, error) {
	const op = "config.LoadFrom"

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(
		"tryon.api_key", "STOREFRONT_TRYON_API_KEY", "API_KEY", "GEMINI_API_KEY",
	); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("handler_timeout", "10s")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.path", "storefront.db")
	v.SetDefault("storage.sql_db", "")
	v.SetDefault("notification.ttl", "3s")
	v.SetDefault("catalog.seed_demo", true)
	v.SetDefault("tryon.api_key", "")
	v.SetDefault("tryon.model", "gemini-2.5-flash-image")
	v.SetDefault("tryon.base_url", "")
	v.SetDefault("tryon.fetch_timeout", "15s")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.catalog_events", "storefront-catalog-events")
	v.SetDefault("broker.tls.enabled", false)
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	_ = cmdLine.Parse(os.Args[1:])
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func secret(s string) string {
	if s == "" {
		return ""
	}
	return mask
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HandlerTimeout=%q
	LogFile=%q

	Storage:
	Driver=%q
	Path=%q
	SQLDB=%q

	Notification:
	TTL=%q

	Catalog:
	SeedDemo=%t

	TryOn:
	APIKey=%q
	Model=%q
	BaseURL=%q
	FetchTimeout=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CatalogEvents=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HandlerTimeout,
		c.Log.Path,
		c.Storage.Driver,
		c.Storage.Path,
		secret(c.Storage.SQLDB),
		c.Notification.TTL,
		c.Catalog.SeedDemo,
		secret(c.TryOn.APIKey),
		c.TryOn.Model,
		c.TryOn.BaseURL,
		c.TryOn.FetchTimeout,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CatalogEvents,
		c.Broker.TLS.Enabled,
	)
}
