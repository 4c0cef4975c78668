package storage

import (
	"slices"
	"time"
)

// ProgressionID is the fixed primary key of the singleton progression row.
const ProgressionID = 1

// DefaultTheme is always present in OwnedThemes.
const DefaultTheme = "default"

// MaxActivityLog bounds Progression.ActivityLog.
const MaxActivityLog = 10

type Progression struct {
	ID int

	TotalXP       int
	AvailableXP   int
	Level         int
	NextLevelXP   int
	LevelProgress float64

	PendingIdleXP      float64
	PassiveXPPerSecond float64
	LastActiveAt       time.Time

	StreakCount    int
	LastStreakDate string // YYYY-MM-DD, empty when no activity yet

	MissionsSeededDate string
	Missions           []Mission

	OwnedThemes   []string
	OwnedUpgrades map[string]bool
	Settings      Settings

	// Newest first.
	ActivityLog []LogEntry
}

type Mission struct {
	ID          string
	Title       string
	Description string
	Target      int
	Progress    int
	Reward      int
	Claimed     bool
}

// Complete reports whether the mission reached its target.
func (m Mission) Complete() bool {
	return m.Progress >= m.Target
}

type Settings struct {
	Theme                string `json:"theme"`
	AutoCollect          bool   `json:"autoCollect"`
	SoundEnabled         bool   `json:"soundEnabled"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:                DefaultTheme,
		AutoCollect:          true,
		SoundEnabled:         true,
		NotificationsEnabled: true,
	}
}

type LogKind string

const (
	LogXP      LogKind = "xp"
	LogLevelUp LogKind = "level_up"
	LogUpgrade LogKind = "upgrade"
	LogMission LogKind = "mission"
	LogIdle    LogKind = "idle"
)

type LogEntry struct {
	ID      string    `json:"id"`
	Kind    LogKind   `json:"kind"`
	Message string    `json:"message"`
	Amount  int       `json:"amount"`
	At      time.Time `json:"at"`
}

// OwnsTheme reports whether theme is in OwnedThemes.
func (p *Progression) OwnsTheme(theme string) bool {
	return slices.Contains(p.OwnedThemes, theme)
}

// Clone returns a deep copy. Snapshots handed to callers are always clones.
func (p *Progression) Clone() *Progression {
	if p == nil {
		return nil
	}
	c := *p
	c.Missions = slices.Clone(p.Missions)
	c.OwnedThemes = slices.Clone(p.OwnedThemes)
	c.ActivityLog = slices.Clone(p.ActivityLog)
	c.OwnedUpgrades = make(map[string]bool, len(p.OwnedUpgrades))
	for k, v := range p.OwnedUpgrades {
		c.OwnedUpgrades[k] = v
	}
	return &c
}
