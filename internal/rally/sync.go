package rally

import "encoding/json"

// Persisted record keys. The scan flow writes collected_stamps out-of-band;
// this client only ever reads it.
const (
	keyUser       = "user"
	keyGuideShown = "guide_shown"
	keyCollected  = "collected_stamps"
)

// Record expiry horizons, in days.
const (
	userExpiryDays      = 7
	guideExpiryDays     = 1
	collectedExpiryDays = 7
)

// syncIntervalTicks is one poll per second at 60 TPS.
const syncIntervalTicks = 60

// Store is the persisted key/value record store the engine polls.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string, expiryDays int) error
	Delete(key string) error
}

// SyncEngine makes the stamp panel's checked state eventually consistent
// with the persisted collected-stamp record. It runs for the page lifetime;
// one bad tick never stops the next one.
type SyncEngine struct {
	store Store
	panel *StampPanel
	ticks uint64
}

// NewSyncEngine creates an engine polling store into panel.
func NewSyncEngine(store Store, panel *StampPanel) *SyncEngine {
	return &SyncEngine{store: store, panel: panel}
}

// Tick advances the poll timer and syncs when the interval elapses.
func (e *SyncEngine) Tick() {
	e.ticks++
	if e.ticks%syncIntervalTicks == 0 {
		e.SyncOnce()
	}
}

// SyncOnce reads the record and marks every listed entry checked. Absent
// record: no-op. Malformed record: skip, keeping prior visual state.
// Idempotent: re-running on an unchanged record changes nothing.
func (e *SyncEngine) SyncOnce() {
	raw, ok := e.store.Get(keyCollected)
	if !ok {
		return
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return
	}
	for _, id := range ids {
		e.panel.Mark(id)
	}
}
