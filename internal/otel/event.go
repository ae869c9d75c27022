// Package otel provides structured observability for the reflection feed.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain
// goroutine. An optional RingBuffer provides live in-memory inspection
// for the debug overlay and the tdbg CLI.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Prefetch pipeline
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchEmpty    EventKind = "fetch.empty"
	KindFetchError    EventKind = "fetch.error"
	KindFetchSkipped  EventKind = "fetch.skipped"
	KindStageAdvance  EventKind = "fetch.stage"
	KindExhausted     EventKind = "fetch.exhausted"

	// Hydration
	KindHydrateStart    EventKind = "hydrate.start"
	KindHydrateComplete EventKind = "hydrate.complete"
	KindHydrateCached   EventKind = "hydrate.cached"
	KindHydrateError    EventKind = "hydrate.error"

	// Read tracking
	KindReadMarked EventKind = "read.marked"

	// Journal
	KindJournalError EventKind = "journal.error"

	// Generation providers
	KindGenError EventKind = "gen.error"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is the universal observability record. Every field except Kind
// and Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      EventKind     `json:"kind"`
	Comp      string        `json:"comp,omitempty"`       // component: "prefetch", "hydrate", "engine", "main"
	SessionID string        `json:"session_id,omitempty"` // random hex, same for entire app run
	ItemID    string        `json:"item,omitempty"`
	Stage     string        `json:"stage,omitempty"` // prefetch stage at emit time
	Origin    string        `json:"origin,omitempty"`
	Count     int           `json:"count,omitempty"` // items requested or appended
	Dur       time.Duration `json:"-"`               // not serialized directly
	DurMs     float64       `json:"dur_ms,omitempty"`
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := struct{ alias }{alias: alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
