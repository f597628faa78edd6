package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/hub"
	"github.com/casalab/casahub/internal/infrastructure/config"
	"github.com/casalab/casahub/internal/infrastructure/database"
	"github.com/casalab/casahub/internal/infrastructure/influxdb"
	"github.com/casalab/casahub/internal/infrastructure/logging"
	"github.com/casalab/casahub/internal/infrastructure/mqtt"
	"github.com/casalab/casahub/internal/persist"
	"github.com/casalab/casahub/internal/sink"
)

// app bundles the wired hub with everything that needs a shutdown
// call. Close runs in reverse construction order, saving the snapshot
// first when configured.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	hub     *hub.Hub
	history *sink.History

	closers []func() error
}

// loadConfig resolves the effective configuration. A missing file at
// the default path falls back to built-in defaults so the CLI works
// out of the box; an explicitly requested file must exist.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	path := getConfigPath(flags.configPath)

	cfg, err := config.Load(path)
	if err != nil {
		if flags.configPath == "" && errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if flags.statePath != "" {
		cfg.Persistence.Path = flags.statePath
	}
	return cfg, nil
}

// newApp wires the hub and its sink chain from config. consoleOut
// receives the console sink output; pass io.Discard to silence it.
func newApp(cfg *config.Config, consoleOut io.Writer) (*app, error) {
	log, err := logging.New(cfg.Logging, version)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	h := hub.New(cfg.Hub.Name, version)
	h.SetLogger(log)

	a := &app{cfg: cfg, log: log, hub: h}
	a.closers = append(a.closers, log.Close)

	if cfg.Sinks.Console.Enabled {
		h.Subscribe(sink.NewConsole(consoleOut, cfg.Sinks.Console.Verbose))
	}

	if cfg.Sinks.CSV.Enabled {
		csvLog, err := sink.NewCSVLog(cfg.Sinks.CSV.Dir)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("opening CSV sink: %w", err)
		}
		a.closers = append(a.closers, csvLog.Close)
		h.Subscribe(csvLog)
		log.Debug("CSV sink attached", "dir", cfg.Sinks.CSV.Dir)
	}

	if cfg.Sinks.SQLite.Enabled {
		db, err := database.Open(database.Config{
			Path:        cfg.Sinks.SQLite.Path,
			WALMode:     cfg.Sinks.SQLite.WALMode,
			BusyTimeout: cfg.Sinks.SQLite.BusyTimeout,
		})
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		history, err := sink.NewHistory(db)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("initialising history sink: %w", err)
		}
		a.history = history
		h.Subscribe(history)
		log.Debug("history sink attached", "path", cfg.Sinks.SQLite.Path)
	}

	if cfg.Sinks.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.Sinks.MQTT)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("connecting to MQTT: %w", err)
		}
		client.SetLogger(log)
		a.closers = append(a.closers, client.Close)
		h.Subscribe(sink.NewMQTT(client))
		log.Info("MQTT sink attached",
			"broker", fmt.Sprintf("%s:%d", cfg.Sinks.MQTT.Broker.Host, cfg.Sinks.MQTT.Broker.Port))
	}

	if cfg.Sinks.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.Sinks.InfluxDB)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		client.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		a.closers = append(a.closers, client.Close)
		h.Subscribe(sink.NewInflux(client))
		log.Info("InfluxDB sink attached", "url", cfg.Sinks.InfluxDB.URL)
	}

	return a, nil
}

// restoreState loads the snapshot when persistence is enabled. A
// missing snapshot seeds a starter device set instead; per-entry
// diagnostics are logged and never abort the boot.
func (a *app) restoreState() error {
	if !a.cfg.Persistence.LoadOnStart {
		return nil
	}

	if _, err := os.Stat(a.cfg.Persistence.Path); os.IsNotExist(err) {
		a.log.Info("no snapshot found, seeding default devices", "path", a.cfg.Persistence.Path)
		return seedDefaults(a.hub)
	}

	diags, err := persist.Load(a.cfg.Persistence.Path, a.hub)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	for _, d := range diags {
		a.log.Warn("snapshot entry skipped", "section", d.Section, "ref", d.Ref, "reason", d.Reason)
	}
	a.log.Info("snapshot loaded",
		"path", a.cfg.Persistence.Path,
		"devices", len(a.hub.ListDevices()),
		"skipped", len(diags))
	return nil
}

// Close saves the snapshot when configured, then releases every sink
// resource in reverse order.
func (a *app) Close() error {
	var firstErr error
	if a.cfg.Persistence.SaveOnExit {
		if err := persist.Save(a.cfg.Persistence.Path, a.hub); err != nil {
			a.log.Error("saving snapshot", "error", err)
			firstErr = err
		} else {
			a.log.Info("snapshot saved", "path", a.cfg.Persistence.Path)
		}
	}
	if err := a.closeAll(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *app) closeAll() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// seedDefaults registers the starter home used on first boot.
func seedDefaults(h *hub.Hub) error {
	defaults := []struct {
		kind  device.Kind
		id    string
		name  string
		attrs map[string]any
	}{
		{device.KindDoor, "porta_entrada", "Porta da Entrada", nil},
		{device.KindLight, "luz_sala", "Luz da Sala", nil},
		{device.KindSocket, "tomada_bancada", "Tomada da Bancada", map[string]any{"potencia_w": 1000}},
		{device.KindCoffee, "cafeteira", "Cafeteira da Cozinha", nil},
		{device.KindRadio, "radio_sala", "Rádio da Sala", nil},
		{device.KindBlind, "persiana_sala", "Persiana da Sala", map[string]any{"abertura": 0}},
	}
	for _, d := range defaults {
		if _, err := h.AddDevice(d.kind, d.id, d.name, d.attrs); err != nil {
			return fmt.Errorf("seeding %q: %w", d.id, err)
		}
	}
	return nil
}
