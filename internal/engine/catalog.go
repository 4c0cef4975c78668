package engine

import (
	"fmt"
	"slices"

	"studyforge/internal/storage"
)

// Effect is what owning an upgrade does. The set of variants is closed.
type Effect interface {
	effect()
	fmt.Stringer
}

// MultiplierEffect adds Value to the XP multiplier.
type MultiplierEffect struct{ Value float64 }

// PassiveRateEffect adds PerSecond to idle XP generation.
type PassiveRateEffect struct{ PerSecond float64 }

// ThemeUnlockEffect adds Theme to the owned themes.
type ThemeUnlockEffect struct{ Theme string }

// AutoCollectEffect credits idle XP directly instead of queueing it.
type AutoCollectEffect struct{}

// StreakBoostEffect grants StreakBonus while the daily streak is at least StreakBonusThreshold.
type StreakBoostEffect struct{}

func (MultiplierEffect) effect()  {}
func (PassiveRateEffect) effect() {}
func (ThemeUnlockEffect) effect() {}
func (AutoCollectEffect) effect() {}
func (StreakBoostEffect) effect() {}

func (e MultiplierEffect) String() string  { return fmt.Sprintf("+%.0f%% XP", e.Value*100) }
func (e PassiveRateEffect) String() string { return fmt.Sprintf("+%.2f XP/s idle", e.PerSecond) }
func (e ThemeUnlockEffect) String() string { return fmt.Sprintf("unlocks %q theme", e.Theme) }
func (AutoCollectEffect) String() string   { return "auto-collect idle XP" }
func (StreakBoostEffect) String() string {
	return fmt.Sprintf("+%.0f%% XP at %d-day streak", StreakBonus*100, StreakBonusThreshold)
}

// Upgrade ids referenced by engine logic.
const (
	UpgradeAutoCollect   = "auto_collect"
	UpgradeStreakBooster = "streak_booster"
)

type UpgradeDef struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Requires    []string
	Effect      Effect
}

// MissionEarnXP tracks XP earned rather than event count.
const MissionEarnXP = "earn_xp"

type MissionTemplate struct {
	ID          string
	Title       string
	Description string
	Target      int
	Reward      int
}

var catalog = []UpgradeDef{
	{
		ID:          "focus_1",
		Name:        "Focused Mind",
		Description: "A little more from every study session.",
		Cost:        250,
		Effect:      MultiplierEffect{Value: 0.10},
	},
	{
		ID:          "focus_2",
		Name:        "Deep Focus",
		Description: "Sessions go deeper.",
		Cost:        1000,
		Requires:    []string{"focus_1"},
		Effect:      MultiplierEffect{Value: 0.20},
	},
	{
		ID:          "focus_3",
		Name:        "Flow State",
		Description: "Time disappears while you learn.",
		Cost:        4000,
		Requires:    []string{"focus_2"},
		Effect:      MultiplierEffect{Value: 0.50},
	},
	{
		ID:          "idle_scholar",
		Name:        "Idle Scholar",
		Description: "Earn XP while you are away.",
		Cost:        500,
		Effect:      PassiveRateEffect{PerSecond: 0.05},
	},
	{
		ID:          "study_engine",
		Name:        "Study Engine",
		Description: "Much faster idle XP.",
		Cost:        2500,
		Requires:    []string{"idle_scholar"},
		Effect:      PassiveRateEffect{PerSecond: 0.25},
	},
	{
		ID:          UpgradeAutoCollect,
		Name:        "Auto Collector",
		Description: "Idle XP is credited without collecting.",
		Cost:        1500,
		Requires:    []string{"idle_scholar"},
		Effect:      AutoCollectEffect{},
	},
	{
		ID:          UpgradeStreakBooster,
		Name:        "Streak Booster",
		Description: "Double base XP while on a 3-day streak.",
		Cost:        800,
		Effect:      StreakBoostEffect{},
	},
	{
		ID:          "theme_midnight",
		Name:        "Midnight Theme",
		Description: "A dark theme for late sessions.",
		Cost:        300,
		Effect:      ThemeUnlockEffect{Theme: "midnight"},
	},
	{
		ID:          "theme_forest",
		Name:        "Forest Theme",
		Description: "Calm greens.",
		Cost:        600,
		Requires:    []string{"theme_midnight"},
		Effect:      ThemeUnlockEffect{Theme: "forest"},
	},
}

var missionPool = []MissionTemplate{
	{ID: "create_notes", Title: "Note Taker", Description: "Create 3 notes", Target: 3, Reward: 50},
	{ID: "generate_flashcards", Title: "Card Crafter", Description: "Generate flashcards twice", Target: 2, Reward: 60},
	{ID: MissionEarnXP, Title: "XP Hunter", Description: "Earn 200 XP", Target: 200, Reward: 100},
	{ID: "classify_notes", Title: "Organizer", Description: "Classify 3 notes", Target: 3, Reward: 40},
	{ID: "study_flashcards", Title: "Reviewer", Description: "Study 10 flashcards", Target: 10, Reward: 80},
	{ID: "export_note", Title: "Publisher", Description: "Export a note", Target: 1, Reward: 30},
}

// Upgrades returns a copy of the upgrade catalog in display order.
func Upgrades() []UpgradeDef {
	out := make([]UpgradeDef, len(catalog))
	for i, u := range catalog {
		u.Requires = slices.Clone(u.Requires)
		out[i] = u
	}
	return out
}

// UpgradeByID looks up a catalog entry.
func UpgradeByID(id string) (UpgradeDef, bool) {
	for _, u := range catalog {
		if u.ID == id {
			u.Requires = slices.Clone(u.Requires)
			return u, true
		}
	}
	return UpgradeDef{}, false
}

// MissionTemplates returns a copy of the daily mission pool.
func MissionTemplates() []MissionTemplate {
	return slices.Clone(missionPool)
}

func (t MissionTemplate) instantiate() storage.Mission {
	return storage.Mission{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Target:      t.Target,
		Reward:      t.Reward,
	}
}
