package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "a:"+e.Kind()) })
	bus.Subscribe(func(e Event) { got = append(got, "b:"+e.Kind()) })

	now := time.Now()
	bus.Publish(LevelUp{Meta: newMeta(now), From: 1, To: 2}, SettingsChanged{Meta: newMeta(now)})

	assert.Equal(t, []string{"a:level_up", "b:level_up", "a:settings_changed", "b:settings_changed"}, got)
}

func TestBus_PanickingHandlerIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewBus(zap.New(core))

	calls := 0
	bus.Subscribe(func(Event) { panic("boom") })
	bus.Subscribe(func(Event) { calls++ })

	require.NotPanics(t, func() {
		bus.Publish(MissionCompleted{Meta: newMeta(time.Now()), MissionID: "export_note", Reward: 30})
	})
	assert.Equal(t, 1, calls)

	entries := logs.FilterMessage("event handler panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mission_completed", entries[0].ContextMap()["event"])
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	unsub := bus.Subscribe(func(Event) { calls++ })
	other := bus.Subscribe(func(Event) {})
	require.Equal(t, 2, bus.Len())

	unsub()
	unsub()
	assert.Equal(t, 1, bus.Len())

	bus.Publish(IdleCollected{Meta: newMeta(time.Now()), Amount: 3})
	assert.Zero(t, calls)

	other()
	assert.Zero(t, bus.Len())
}

func TestBus_NoSubscribersDropsEvents(t *testing.T) {
	bus := NewBus(nil)
	assert.NotPanics(t, func() { bus.Publish(LevelUp{Meta: newMeta(time.Now())}) })

	// Late subscribers see nothing from before they joined.
	calls := 0
	bus.Subscribe(func(Event) { calls++ })
	assert.Zero(t, calls)
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus(nil)
	var unsub func()
	calls := 0
	unsub = bus.Subscribe(func(Event) { unsub() })
	bus.Subscribe(func(Event) { calls++ })

	bus.Publish(LevelUp{Meta: newMeta(time.Now())})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.Len())
}

func TestNewMetaHasUniqueIDs(t *testing.T) {
	now := time.Now()
	a, b := newMeta(now), newMeta(now)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, now, a.At)
}
