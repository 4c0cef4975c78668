package engine

import (
	"context"

	"studyforge/internal/storage"
)

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// AchievementChecker derives badges from a progression snapshot.
type AchievementChecker struct {
	p *storage.Progression
}

func NewAchievementChecker(p *storage.Progression) *AchievementChecker {
	return &AchievementChecker{p: p}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Level milestones
		c.levelAchievement("first_steps", "First Steps", "Reach level 2", "🌱", 2),
		c.levelAchievement("getting_started", "Getting Started", "Reach level 5", "🌿", 5),
		c.levelAchievement("seasoned", "Seasoned Scholar", "Reach level 10", "⭐", 10),
		c.levelAchievement("master", "Master", "Reach level 20", "💫", 20),

		// Streaks
		c.streakAchievement("on_a_roll", "On a Roll", "Study 3 days in a row", "🔥", 3),
		c.streakAchievement("weekly_ritual", "Weekly Ritual", "Study 7 days in a row", "📅", 7),

		// Economy
		c.upgradeAchievement("first_purchase", "First Purchase", "Buy any upgrade", "🛒", 1),
		c.upgradeAchievement("collector", "Collector", "Own every upgrade", "🏆", len(catalog)),
		c.idleAchievement("sleep_learning", "Sleep Learning", "Generate XP while away", "💤"),
		c.themeAchievement("stylist", "Stylist", "Unlock a new theme", "🎨"),

		// Missions
		c.missionAchievement("daily_grind", "Daily Grind", "Claim every mission in a day", "📜"),
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

// CountTotal returns total number of achievements.
func (c *AchievementChecker) CountTotal() int {
	return len(c.GetAchievements())
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, level int) Achievement {
	earned := LevelForXP(c.p.TotalXP) >= level
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) streakAchievement(id, name, desc, icon string, days int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.p.StreakCount >= days}
}

func (c *AchievementChecker) upgradeAchievement(id, name, desc, icon string, count int) Achievement {
	owned := 0
	for _, u := range catalog {
		if c.p.OwnedUpgrades[u.ID] {
			owned++
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: owned >= count}
}

func (c *AchievementChecker) idleAchievement(id, name, desc, icon string) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.p.PassiveXPPerSecond > 0}
}

func (c *AchievementChecker) themeAchievement(id, name, desc, icon string) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: len(c.p.OwnedThemes) > 1}
}

func (c *AchievementChecker) missionAchievement(id, name, desc, icon string) Achievement {
	earned := len(c.p.Missions) > 0
	for _, m := range c.p.Missions {
		if !m.Claimed {
			earned = false
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// Achievements is a convenience wrapper over a fresh snapshot.
func (f *Forge) Achievements(ctx context.Context) ([]Achievement, error) {
	snap, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return NewAchievementChecker(snap).GetAchievements(), nil
}
