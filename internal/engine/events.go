package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studyforge/internal/storage"
)

// Meta is common to every event.
type Meta struct {
	ID string
	At time.Time
}

// Event is a state transition observed by subscribers. The set of variants is closed.
type Event interface {
	EventMeta() Meta
	Kind() string
}

type ExperienceAwarded struct {
	Meta
	Requested int
	Effective int
	Reason    string
	MissionID string
}

type LevelUp struct {
	Meta
	From int
	To   int
}

type UpgradePurchased struct {
	Meta
	UpgradeID string
	Cost      int
}

type MissionCompleted struct {
	Meta
	MissionID string
	Reward    int
}

type SettingsChanged struct {
	Meta
	Settings storage.Settings
}

// IdleCollected is published when idle XP lands in the balances.
// Auto is true when it was credited by the auto-collect upgrade.
type IdleCollected struct {
	Meta
	Amount int
	Auto   bool
}

func (e ExperienceAwarded) EventMeta() Meta { return e.Meta }
func (e LevelUp) EventMeta() Meta           { return e.Meta }
func (e UpgradePurchased) EventMeta() Meta  { return e.Meta }
func (e MissionCompleted) EventMeta() Meta  { return e.Meta }
func (e SettingsChanged) EventMeta() Meta   { return e.Meta }
func (e IdleCollected) EventMeta() Meta     { return e.Meta }

func (ExperienceAwarded) Kind() string { return "experience_awarded" }
func (LevelUp) Kind() string           { return "level_up" }
func (UpgradePurchased) Kind() string  { return "upgrade_purchased" }
func (MissionCompleted) Kind() string  { return "mission_completed" }
func (SettingsChanged) Kind() string   { return "settings_changed" }
func (IdleCollected) Kind() string     { return "idle_collected" }

func newMeta(now time.Time) Meta {
	return Meta{ID: uuid.NewString(), At: now}
}

// Handler observes events. It runs synchronously on the publishing goroutine.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is an in-process publish/subscribe list. Publish calls every handler in
// registration order before returning; there is no queue and no replay.
type Bus struct {
	mu     sync.Mutex
	subs   []subscription
	nextID int
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

// Subscribe registers h and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (b *Bus) Subscribe(h Handler) func() {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of registered handlers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers each event to every handler. A panicking handler is logged
// and skipped; it never reaches the publisher or the other handlers.
func (b *Bus) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.Unlock()

	for _, ev := range events {
		for _, s := range subs {
			b.deliver(s, ev)
		}
	}
}

func (b *Bus) deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				zap.String("event", ev.Kind()),
				zap.String("event_id", ev.EventMeta().ID),
				zap.Int("subscriber", s.id),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.fn(ev)
}
