package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/casalab/casahub/internal/event"
	"github.com/casalab/casahub/internal/infrastructure/database"
)

// historySchema is created on open. The payload column stores the
// event payload as JSON so new payload keys never require a migration.
const historySchema = `
CREATE TABLE IF NOT EXISTS events (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	device_id TEXT NOT NULL DEFAULT '',
	payload   TEXT NOT NULL,
	at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_device ON events(device_id, at);
CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
`

// defaultHistoryLimit caps queries that pass limit <= 0.
const defaultHistoryLimit = 100

// History persists every hub event into SQLite and answers queries
// over the stored stream.
type History struct {
	db *database.DB
}

// HistoryRecord is one stored event, payload decoded.
type HistoryRecord struct {
	ID       string
	Type     event.Type
	DeviceID string
	Payload  map[string]any
	At       time.Time
}

// NewHistory attaches the history store to an open database, creating
// the schema if needed.
func NewHistory(db *database.DB) (*History, error) {
	if _, err := db.Exec(historySchema); err != nil {
		return nil, fmt.Errorf("sink: creating history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Notify implements event.Observer.
func (h *History) Notify(evt event.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("sink: encoding event payload: %w", err)
	}

	_, err = h.db.Exec(
		"INSERT INTO events (id, type, device_id, payload, at) VALUES (?, ?, ?, ?, ?)",
		evt.ID, string(evt.Type), evt.DeviceID(), string(payload), evt.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sink: inserting event: %w", err)
	}
	return nil
}

// Recent returns the most recent events, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, type, device_id, payload, at FROM events ORDER BY at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("sink: querying recent events: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByDevice returns the most recent events for one device, newest first.
func (h *History) ByDevice(ctx context.Context, deviceID string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, type, device_id, payload, at FROM events WHERE device_id = ? ORDER BY at DESC, id LIMIT ?",
		deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("sink: querying device events: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountByType returns event counts grouped by type, for the hub's
// status summary.
func (h *History) CountByType(ctx context.Context) (map[event.Type]int, error) {
	rows, err := h.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM events GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("sink: counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[event.Type]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("sink: scanning event count: %w", err)
		}
		counts[event.Type(t)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]HistoryRecord, error) {
	var records []HistoryRecord
	for rows.Next() {
		var (
			rec        HistoryRecord
			typ, extra string
		)
		if err := rows.Scan(&rec.ID, &typ, &rec.DeviceID, &extra, &rec.At); err != nil {
			return nil, fmt.Errorf("sink: scanning event: %w", err)
		}
		rec.Type = event.Type(typ)
		if err := json.Unmarshal([]byte(extra), &rec.Payload); err != nil {
			return nil, fmt.Errorf("sink: decoding stored payload: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
