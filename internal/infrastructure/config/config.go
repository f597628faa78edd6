package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for CasaHub.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Hub         HubConfig         `yaml:"hub"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Sinks       SinksConfig       `yaml:"sinks"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// HubConfig identifies the hub instance.
type HubConfig struct {
	Name string `yaml:"name"`
}

// PersistenceConfig contains JSON snapshot settings.
type PersistenceConfig struct {
	// Path is where the hub state snapshot is saved and loaded from.
	Path string `yaml:"path"`

	// LoadOnStart restores the snapshot automatically when the hub boots.
	LoadOnStart bool `yaml:"load_on_start"`

	// SaveOnExit writes a snapshot during graceful shutdown.
	SaveOnExit bool `yaml:"save_on_exit"`
}

// SinksConfig configures the event observers attached to the hub.
type SinksConfig struct {
	Console  ConsoleSinkConfig `yaml:"console"`
	CSV      CSVSinkConfig     `yaml:"csv"`
	SQLite   SQLiteSinkConfig  `yaml:"sqlite"`
	MQTT     MQTTSinkConfig    `yaml:"mqtt"`
	InfluxDB InfluxDBConfig    `yaml:"influxdb"`
}

// ConsoleSinkConfig configures the coloured console observer.
type ConsoleSinkConfig struct {
	Enabled bool `yaml:"enabled"`

	// Verbose also prints attribute changes and routine summaries.
	Verbose bool `yaml:"verbose"`
}

// CSVSinkConfig configures the CSV log observer.
type CSVSinkConfig struct {
	Enabled bool `yaml:"enabled"`

	// Dir is the directory holding transitions.csv, commands.csv and events.csv.
	Dir string `yaml:"dir"`
}

// SQLiteSinkConfig configures the event history store.
type SQLiteSinkConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTSinkConfig contains MQTT broker connection settings for the
// event publisher sink.
type MQTTSinkConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`

	// TopicPrefix is prepended to every published topic.
	TopicPrefix string `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings for the
// telemetry sink.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: CASAHUB_SECTION_KEY
// For example: CASAHUB_PERSISTENCE_PATH, CASAHUB_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults: console sink on,
// everything external off.
func Default() *Config {
	return &Config{
		Hub: HubConfig{
			Name: "CasaHub",
		},
		Persistence: PersistenceConfig{
			Path:        "./data/estado.json",
			LoadOnStart: true,
			SaveOnExit:  true,
		},
		Sinks: SinksConfig{
			Console: ConsoleSinkConfig{
				Enabled: true,
				Verbose: false,
			},
			CSV: CSVSinkConfig{
				Enabled: true,
				Dir:     "./data/logs",
			},
			SQLite: SQLiteSinkConfig{
				Enabled:     true,
				Path:        "./data/casahub.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
			MQTT: MQTTSinkConfig{
				Broker: MQTTBrokerConfig{
					Host:     "localhost",
					Port:     1883,
					ClientID: "casahub",
				},
				QoS:         1,
				TopicPrefix: "casahub",
			},
			InfluxDB: InfluxDBConfig{
				URL:    "http://localhost:8086",
				Org:    "casahub",
				Bucket: "events",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: CASAHUB_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CASAHUB_HUB_NAME"); v != "" {
		cfg.Hub.Name = v
	}
	if v := os.Getenv("CASAHUB_PERSISTENCE_PATH"); v != "" {
		cfg.Persistence.Path = v
	}
	if v := os.Getenv("CASAHUB_SQLITE_PATH"); v != "" {
		cfg.Sinks.SQLite.Path = v
	}
	if v := os.Getenv("CASAHUB_CSV_DIR"); v != "" {
		cfg.Sinks.CSV.Dir = v
	}

	// MQTT
	if v := os.Getenv("CASAHUB_MQTT_HOST"); v != "" {
		cfg.Sinks.MQTT.Broker.Host = v
	}
	if v := os.Getenv("CASAHUB_MQTT_USERNAME"); v != "" {
		cfg.Sinks.MQTT.Auth.Username = v
	}
	if v := os.Getenv("CASAHUB_MQTT_PASSWORD"); v != "" {
		cfg.Sinks.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("CASAHUB_INFLUXDB_TOKEN"); v != "" {
		cfg.Sinks.InfluxDB.Token = v
	}

	if v := os.Getenv("CASAHUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Hub.Name) == "" {
		errs = append(errs, "hub.name is required")
	}

	if c.Persistence.Path == "" && (c.Persistence.LoadOnStart || c.Persistence.SaveOnExit) {
		errs = append(errs, "persistence.path is required when load_on_start or save_on_exit is set")
	}

	if c.Sinks.CSV.Enabled && c.Sinks.CSV.Dir == "" {
		errs = append(errs, "sinks.csv.dir is required when the CSV sink is enabled")
	}

	if c.Sinks.SQLite.Enabled && c.Sinks.SQLite.Path == "" {
		errs = append(errs, "sinks.sqlite.path is required when the SQLite sink is enabled")
	}

	if c.Sinks.MQTT.Enabled {
		if c.Sinks.MQTT.Broker.Host == "" {
			errs = append(errs, "sinks.mqtt.broker.host is required when the MQTT sink is enabled")
		}
		if c.Sinks.MQTT.QoS < 0 || c.Sinks.MQTT.QoS > 2 {
			errs = append(errs, "sinks.mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.Sinks.InfluxDB.Enabled {
		if c.Sinks.InfluxDB.URL == "" {
			errs = append(errs, "sinks.influxdb.url is required when the InfluxDB sink is enabled")
		}
		if c.Sinks.InfluxDB.Token == "" {
			errs = append(errs, "sinks.influxdb.token is required (set CASAHUB_INFLUXDB_TOKEN environment variable)")
		}
		if c.Sinks.InfluxDB.Org == "" || c.Sinks.InfluxDB.Bucket == "" {
			errs = append(errs, "sinks.influxdb.org and sinks.influxdb.bucket are required when the InfluxDB sink is enabled")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, "logging.level must be debug, info, warn, or error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
