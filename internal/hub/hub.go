package hub

import (
	"fmt"
	"sort"
	"time"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/event"
)

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Hub owns the device collection, the routine table and the ordered
// observer list. All operations are synchronous; see the package docs
// for the concurrency model.
type Hub struct {
	name    string
	version string

	devices   map[string]device.Device
	routines  map[string]Routine
	observers []event.Observer

	log Logger
	now func() time.Time
}

// New creates an empty hub.
func New(name, version string) *Hub {
	return &Hub{
		name:     name,
		version:  version,
		devices:  map[string]device.Device{},
		routines: map[string]Routine{},
		log:      noopLogger{},
		now:      time.Now,
	}
}

// SetLogger attaches a logger. Passing nil restores the no-op logger.
func (h *Hub) SetLogger(log Logger) {
	if log == nil {
		h.log = noopLogger{}
		return
	}
	h.log = log
}

// Name returns the hub's display name.
func (h *Hub) Name() string { return h.name }

// Version returns the hub's version string.
func (h *Hub) Version() string { return h.version }

// Subscribe appends an observer to the delivery list. Observers are
// notified in subscription order for every published event.
func (h *Hub) Subscribe(obs event.Observer) {
	if obs == nil {
		return
	}
	h.observers = append(h.observers, obs)
}

// AddDevice constructs a device via the kind factory and registers it.
// Construction attributes are validated before the device exists; a
// duplicate ID fails with ErrDeviceAlreadyExists.
func (h *Hub) AddDevice(kind device.Kind, id, name string, attrs map[string]any) (device.Device, error) {
	if _, exists := h.devices[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDeviceAlreadyExists, id)
	}

	d, err := device.New(kind, id, name, attrs)
	if err != nil {
		return nil, err
	}
	h.devices[d.ID()] = d

	h.log.Info("device added", "id", d.ID(), "tipo", string(d.Kind()))
	h.publish(event.New(event.TypeDeviceAdded, h.now(), map[string]any{
		"id":   d.ID(),
		"tipo": string(d.Kind()),
		"nome": d.Name(),
	}))
	return d, nil
}

// RemoveDevice unregisters a device by ID.
func (h *Hub) RemoveDevice(id string) error {
	d, ok := h.devices[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
	}
	delete(h.devices, id)

	h.log.Info("device removed", "id", id)
	h.publish(event.New(event.TypeDeviceRemoved, h.now(), map[string]any{
		"id":   id,
		"tipo": string(d.Kind()),
		"nome": d.Name(),
	}))
	return nil
}

// Device returns the device registered under id.
func (h *Hub) Device(id string) (device.Device, bool) {
	d, ok := h.devices[id]
	return d, ok
}

// ListDevices returns the registered devices sorted by ID. The returned
// slice is fresh; the devices themselves are the live instances.
func (h *Hub) ListDevices() []device.Device {
	ids := make([]string, 0, len(h.devices))
	for id := range h.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]device.Device, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.devices[id])
	}
	return out
}

// ExecuteCommand routes one command into a device's FSM and publishes
// every event the execution produced. Guard rejections come back as
// blocked outcomes, not errors; lookup and validation failures emit an
// ERRO event and propagate unchanged.
func (h *Hub) ExecuteCommand(id, command string, args device.Args) (device.Outcome, error) {
	d, ok := h.devices[id]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
		h.publishError(id, command, err)
		return device.Outcome{}, err
	}

	out, err := d.Execute(command, args)
	if err != nil {
		h.publishError(id, command, err)
		return device.Outcome{}, err
	}

	h.log.Debug("command executed",
		"id", id, "comando", command, "antes", out.From, "depois", out.To, "bloqueado", out.Blocked)
	h.publish(out.Events...)
	return out, nil
}

// SetAttribute mutates one device attribute and publishes
// ATRIBUTO_ALTERADO with the before/after values.
func (h *Hub) SetAttribute(id, key string, value any) error {
	d, ok := h.devices[id]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
		h.publishError(id, "", err)
		return err
	}

	before := d.Attributes()[key]
	if err := d.SetAttribute(key, value); err != nil {
		h.publishError(id, "", err)
		return err
	}
	after := d.Attributes()[key]

	h.publish(event.New(event.TypeAttributeChanged, h.now(), map[string]any{
		"id":       id,
		"atributo": key,
		"antes":    before,
		"depois":   after,
	}))
	return nil
}

// publish delivers events to every observer, in order. Observer errors
// and panics are logged and swallowed; delivery always continues.
func (h *Hub) publish(events ...event.Event) {
	for _, evt := range events {
		for _, obs := range h.observers {
			h.notify(obs, evt)
		}
	}
}

func (h *Hub) notify(obs event.Observer, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Warn("observer panicked", "tipo", string(evt.Type), "panic", fmt.Sprint(r))
		}
	}()
	if err := obs.Notify(evt); err != nil {
		h.log.Warn("observer notification failed", "tipo", string(evt.Type), "error", err)
	}
}

func (h *Hub) publishError(id, command string, err error) {
	payload := map[string]any{"erro": err.Error()}
	if id != "" {
		payload["id"] = id
	}
	if command != "" {
		payload["comando"] = command
	}
	h.publish(event.New(event.TypeError, h.now(), payload))
}
