package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TotalID marks the aggregate row appended by SocketConsumption.
const TotalID = "__TOTAL__"

// Period restricts a report to [Start, End]. A zero bound is open.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// SocketUsage is one socket's consumption over a period.
type SocketUsage struct {
	DeviceID string
	PowerW   float64
	HoursOn  float64
	TotalWh  float64
	From     time.Time
	To       time.Time
}

// LightUsage is the total time one light spent on.
type LightUsage struct {
	DeviceID string
	Seconds  int
	HHMMSS   string
}

// DeviceCount ranks one device by event volume.
type DeviceCount struct {
	DeviceID string
	Count    int
}

// KindCount ranks one device kind by executed commands.
type KindCount struct {
	Kind  string
	Count int
}

// DayCount is the number of coffees finished on one day.
type DayCount struct {
	Date  string // yyyy-mm-dd
	Count int
}

// filterTransitions keeps the rows inside the period.
func filterTransitions(rows []Transition, p Period) []Transition {
	out := make([]Transition, 0, len(rows))
	for _, r := range rows {
		if p.Contains(r.At) {
			out = append(out, r)
		}
	}
	return out
}

// filterEvents keeps the rows inside the period.
func filterEvents(rows []EventRow, p Period) []EventRow {
	out := make([]EventRow, 0, len(rows))
	for _, r := range rows {
		if p.Contains(r.At) {
			out = append(out, r)
		}
	}
	return out
}

// onHours sums the hours a device spent in onState, pairing each entry
// into onState with the next entry into offState. An interval still
// open at the end of the data is closed at the period end, or at the
// last observed timestamp when the period is unbounded.
func onHours(rows []Transition, onState, offState string, periodEnd time.Time) float64 {
	if len(rows) == 0 {
		return 0
	}
	sorted := make([]Transition, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	var onSince time.Time
	var hours float64
	for _, r := range sorted {
		switch strings.ToUpper(r.To) {
		case onState:
			if onSince.IsZero() {
				onSince = r.At
			}
		case offState:
			if !onSince.IsZero() {
				if h := r.At.Sub(onSince).Hours(); h > 0 {
					hours += h
				}
				onSince = time.Time{}
			}
		}
	}
	if !onSince.IsZero() {
		limit := periodEnd
		if limit.IsZero() {
			limit = sorted[len(sorted)-1].At
		}
		if h := limit.Sub(onSince).Hours(); h > 0 {
			hours += h
		}
	}
	return hours
}

// SocketConsumption computes Wh per socket as potencia_w times hours
// on, from the transition log. When includeTotal is set and there is
// at least one socket, an aggregate row with DeviceID TotalID is
// appended. Results are sorted by device ID.
func SocketConsumption(transitions []Transition, index DeviceIndex, p Period, includeTotal bool) []SocketUsage {
	rows := filterTransitions(transitions, p)

	powerByID := make(map[string]float64)
	for id, info := range index {
		if info.Kind != "TOMADA" {
			continue
		}
		powerByID[id] = attrFloat(info.Attributes, "potencia_w")
	}

	byID := make(map[string][]Transition)
	for _, r := range rows {
		if _, ok := powerByID[r.DeviceID]; ok {
			byID[r.DeviceID] = append(byID[r.DeviceID], r)
		}
	}

	out := make([]SocketUsage, 0, len(byID))
	for id, evts := range byID {
		hours := onHours(evts, "LIGADA", "DESLIGADA", p.End)
		first, last := timeBounds(evts)
		from, to := p.Start, p.End
		if from.IsZero() {
			from = first
		}
		if to.IsZero() {
			to = last
		}
		out = append(out, SocketUsage{
			DeviceID: id,
			PowerW:   powerByID[id],
			HoursOn:  hours,
			TotalWh:  powerByID[id] * hours,
			From:     from,
			To:       to,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })

	if includeTotal && len(out) > 0 {
		total := SocketUsage{DeviceID: TotalID, From: out[0].From, To: out[0].To}
		for _, u := range out {
			total.HoursOn += u.HoursOn
			total.TotalWh += u.TotalWh
		}
		out = append(out, total)
	}
	return out
}

// LightOnTime computes how long each light stayed on, longest first.
func LightOnTime(transitions []Transition, index DeviceIndex, p Period) []LightUsage {
	rows := filterTransitions(transitions, p)

	lights := make(map[string]bool)
	for id, info := range index {
		if info.Kind == "LUZ" {
			lights[id] = true
		}
	}

	byID := make(map[string][]Transition)
	for _, r := range rows {
		// Self-transitions carry no on/off information.
		if r.From == r.To {
			continue
		}
		if lights[r.DeviceID] {
			byID[r.DeviceID] = append(byID[r.DeviceID], r)
		}
	}

	out := make([]LightUsage, 0, len(byID))
	for id, evts := range byID {
		seconds := int(onHours(evts, "LIGADA", "DESLIGADA", p.End) * 3600)
		out = append(out, LightUsage{
			DeviceID: id,
			Seconds:  seconds,
			HHMMSS:   fmtHHMMSS(seconds),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].DeviceID < out[j].DeviceID
	})
	return out
}

// MostUsedDevices ranks devices by how many rows mention them across
// both logs, most active first. topN <= 0 returns everything.
func MostUsedDevices(transitions []Transition, events []EventRow, topN int, p Period) []DeviceCount {
	counts := make(map[string]int)
	for _, r := range filterTransitions(transitions, p) {
		if r.DeviceID != "" {
			counts[r.DeviceID]++
		}
	}
	for _, r := range filterEvents(events, p) {
		if r.DeviceID != "" {
			counts[r.DeviceID]++
		}
	}

	out := make([]DeviceCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, DeviceCount{DeviceID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].DeviceID < out[j].DeviceID
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// finishedBrew reports whether a transition row records a completed
// coffee. Both the explicit trigger and the PREPARANDO to PRONTA edge
// count, so older logs without triggers still report correctly.
func finishedBrew(r Transition) bool {
	if strings.ToLower(r.Trigger) == "finalizar_preparo" {
		return true
	}
	return strings.ToUpper(r.From) == "PREPARANDO" && strings.ToUpper(r.To) == "PRONTA"
}

// CoffeesPrepared counts completed brews in the period.
func CoffeesPrepared(transitions []Transition, p Period) int {
	n := 0
	for _, r := range filterTransitions(transitions, p) {
		if finishedBrew(r) {
			n++
		}
	}
	return n
}

// CoffeesPerDay groups completed brews by calendar day, oldest first.
func CoffeesPerDay(transitions []Transition, p Period) []DayCount {
	byDay := make(map[string]int)
	for _, r := range filterTransitions(transitions, p) {
		if finishedBrew(r) {
			byDay[r.At.Format("2006-01-02")]++
		}
	}

	out := make([]DayCount, 0, len(byDay))
	for day, n := range byDay {
		out = append(out, DayCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CommandsByKind counts COMANDO_EXECUTADO events per device kind,
// most commanded first. Devices missing from the index count as
// DESCONHECIDO.
func CommandsByKind(events []EventRow, index DeviceIndex, p Period) []KindCount {
	counts := make(map[string]int)
	for _, r := range filterEvents(events, p) {
		if r.Type != "COMANDO_EXECUTADO" {
			continue
		}
		kind := "DESCONHECIDO"
		if info, ok := index[r.DeviceID]; ok && info.Kind != "" {
			kind = info.Kind
		}
		counts[kind]++
	}

	out := make([]KindCount, 0, len(counts))
	for kind, n := range counts {
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Summary bundles every report over the same inputs and period.
type Summary struct {
	Sockets   []SocketUsage
	Lights    []LightUsage
	TopUsed   []DeviceCount
	Coffees   int
	PerDay    []DayCount
	ByKind    []KindCount
	Generated time.Time
}

// BuildSummary runs every report over the given logs.
func BuildSummary(transitions []Transition, events []EventRow, index DeviceIndex, p Period) Summary {
	return Summary{
		Sockets:   SocketConsumption(transitions, index, p, true),
		Lights:    LightOnTime(transitions, index, p),
		TopUsed:   MostUsedDevices(transitions, events, 10, p),
		Coffees:   CoffeesPrepared(transitions, p),
		PerDay:    CoffeesPerDay(transitions, p),
		ByKind:    CommandsByKind(events, index, p),
		Generated: time.Now(),
	}
}

func timeBounds(rows []Transition) (first, last time.Time) {
	for _, r := range rows {
		if first.IsZero() || r.At.Before(first) {
			first = r.At
		}
		if last.IsZero() || r.At.After(last) {
			last = r.At
		}
	}
	return first, last
}

func fmtHHMMSS(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func attrFloat(attrs map[string]any, key string) float64 {
	switch v := attrs[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
