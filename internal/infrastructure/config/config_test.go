package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
hub:
  name: "Casa de Teste"
persistence:
  path: "/tmp/estado.json"
sinks:
  csv:
    enabled: true
    dir: "/tmp/logs"
  sqlite:
    enabled: true
    path: "/tmp/casahub.db"
    wal_mode: true
    busy_timeout: 5
  mqtt:
    enabled: false
    broker:
      host: "localhost"
      port: 1883
      client_id: "casahub-test"
    qos: 1
logging:
  level: "debug"
  format: "text"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hub.Name != "Casa de Teste" {
		t.Errorf("Hub.Name = %q, want %q", cfg.Hub.Name, "Casa de Teste")
	}

	if cfg.Sinks.SQLite.Path != "/tmp/casahub.db" {
		t.Errorf("Sinks.SQLite.Path = %q, want %q", cfg.Sinks.SQLite.Path, "/tmp/casahub.db")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	// Unspecified sections keep their defaults.
	if !cfg.Persistence.LoadOnStart {
		t.Error("Persistence.LoadOnStart should default to true")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
hub:
  name: ""
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty hub.name, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing hub name",
			mutate:  func(c *Config) { c.Hub.Name = "  " },
			wantErr: true,
		},
		{
			name: "persistence path required when load_on_start",
			mutate: func(c *Config) {
				c.Persistence.Path = ""
				c.Persistence.LoadOnStart = true
			},
			wantErr: true,
		},
		{
			name: "persistence path optional when persistence disabled",
			mutate: func(c *Config) {
				c.Persistence.Path = ""
				c.Persistence.LoadOnStart = false
				c.Persistence.SaveOnExit = false
			},
			wantErr: false,
		},
		{
			name: "csv dir required when enabled",
			mutate: func(c *Config) {
				c.Sinks.CSV.Enabled = true
				c.Sinks.CSV.Dir = ""
			},
			wantErr: true,
		},
		{
			name: "sqlite path required when enabled",
			mutate: func(c *Config) {
				c.Sinks.SQLite.Enabled = true
				c.Sinks.SQLite.Path = ""
			},
			wantErr: true,
		},
		{
			name: "invalid mqtt qos",
			mutate: func(c *Config) {
				c.Sinks.MQTT.Enabled = true
				c.Sinks.MQTT.QoS = 3
			},
			wantErr: true,
		},
		{
			name: "mqtt qos ignored when sink disabled",
			mutate: func(c *Config) {
				c.Sinks.MQTT.Enabled = false
				c.Sinks.MQTT.QoS = 3
			},
			wantErr: false,
		},
		{
			name: "influxdb requires token",
			mutate: func(c *Config) {
				c.Sinks.InfluxDB.Enabled = true
				c.Sinks.InfluxDB.Token = ""
			},
			wantErr: true,
		},
		{
			name: "influxdb complete",
			mutate: func(c *Config) {
				c.Sinks.InfluxDB.Enabled = true
				c.Sinks.InfluxDB.Token = "secret-token"
			},
			wantErr: false,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("CASAHUB_HUB_NAME", "Casa Override")
	t.Setenv("CASAHUB_PERSISTENCE_PATH", "/custom/estado.json")
	t.Setenv("CASAHUB_SQLITE_PATH", "/custom/casahub.db")
	t.Setenv("CASAHUB_MQTT_HOST", "mqtt.example.com")
	t.Setenv("CASAHUB_MQTT_USERNAME", "testuser")
	t.Setenv("CASAHUB_MQTT_PASSWORD", "testpass")
	t.Setenv("CASAHUB_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("CASAHUB_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	if cfg.Hub.Name != "Casa Override" {
		t.Errorf("Hub.Name = %q, want %q", cfg.Hub.Name, "Casa Override")
	}
	if cfg.Persistence.Path != "/custom/estado.json" {
		t.Errorf("Persistence.Path = %q, want %q", cfg.Persistence.Path, "/custom/estado.json")
	}
	if cfg.Sinks.SQLite.Path != "/custom/casahub.db" {
		t.Errorf("Sinks.SQLite.Path = %q, want %q", cfg.Sinks.SQLite.Path, "/custom/casahub.db")
	}
	if cfg.Sinks.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.Sinks.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.Sinks.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.Sinks.MQTT.Auth.Username, "testuser")
	}
	if cfg.Sinks.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.Sinks.MQTT.Auth.Password, "testpass")
	}
	if cfg.Sinks.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.Sinks.InfluxDB.Token, "secret-token")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Hub.Name == "" {
		t.Error("Default should have non-empty Hub.Name")
	}
	if cfg.Persistence.Path == "" {
		t.Error("Default should have non-empty Persistence.Path")
	}
	if cfg.Sinks.MQTT.Broker.Port != 1883 {
		t.Errorf("Default MQTT.Broker.Port = %d, want 1883", cfg.Sinks.MQTT.Broker.Port)
	}
	if cfg.Sinks.MQTT.Enabled || cfg.Sinks.InfluxDB.Enabled {
		t.Error("external sinks should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}
