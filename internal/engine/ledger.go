package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyforge/internal/storage"
)

// NewProgression returns the record created on first load.
func NewProgression(now time.Time) *storage.Progression {
	p := &storage.Progression{
		ID:            storage.ProgressionID,
		Level:         1,
		LastActiveAt:  now,
		OwnedThemes:   []string{storage.DefaultTheme},
		OwnedUpgrades: map[string]bool{},
		Settings:      storage.DefaultSettings(),
	}
	syncLevel(p)
	return p
}

// syncLevel recomputes the cached level fields from TotalXP.
func syncLevel(p *storage.Progression) {
	p.Level = LevelForXP(p.TotalXP)
	p.NextLevelXP = XPForLevel(p.Level + 1)
	p.LevelProgress = LevelProgress(p.TotalXP, p.Level)
}

// creditXP adds amount to both balances and runs the level-up check.
// The returned event is nil when the level did not change.
func creditXP(p *storage.Progression, amount int, now time.Time) *LevelUp {
	if amount <= 0 {
		return nil
	}
	before := p.Level
	p.TotalXP += amount
	p.AvailableXP += amount
	syncLevel(p)
	if p.Level <= before {
		return nil
	}
	appendLog(p, storage.LogLevelUp, fmt.Sprintf("Reached level %d", p.Level), p.Level, now)
	return &LevelUp{Meta: newMeta(now), From: before, To: p.Level}
}

// appendLog prepends an entry and trims the log to storage.MaxActivityLog.
func appendLog(p *storage.Progression, kind storage.LogKind, msg string, amount int, now time.Time) {
	entry := storage.LogEntry{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: msg,
		Amount:  amount,
		At:      now,
	}
	log := make([]storage.LogEntry, 0, min(len(p.ActivityLog)+1, storage.MaxActivityLog))
	log = append(log, entry)
	log = append(log, p.ActivityLog...)
	if len(log) > storage.MaxActivityLog {
		log = log[:storage.MaxActivityLog]
	}
	p.ActivityLog = log
}

// normalize repairs fields a stored record may be missing.
func normalize(p *storage.Progression) {
	if p.OwnedUpgrades == nil {
		p.OwnedUpgrades = map[string]bool{}
	}
	if !p.OwnsTheme(storage.DefaultTheme) {
		p.OwnedThemes = append([]string{storage.DefaultTheme}, p.OwnedThemes...)
	}
	if p.Settings.Theme == "" {
		p.Settings.Theme = storage.DefaultTheme
	}
	if p.AvailableXP < 0 {
		p.AvailableXP = 0
	}
	if len(p.ActivityLog) > storage.MaxActivityLog {
		p.ActivityLog = p.ActivityLog[:storage.MaxActivityLog]
	}
	syncLevel(p)
}
