package engine

import (
	"math/rand/v2"
	"time"

	"studyforge/internal/storage"
)

// DailyMissionCount is how many missions are active on any day.
const DailyMissionCount = 3

// SeedDailyMissions draws DailyMissionCount distinct templates uniformly
// without replacement and returns fresh, unclaimed missions.
func SeedDailyMissions(r *rand.Rand) []storage.Mission {
	pool := MissionTemplates()
	// Partial Fisher-Yates: only the first DailyMissionCount slots are needed.
	for i := 0; i < DailyMissionCount && i < len(pool); i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	n := min(DailyMissionCount, len(pool))
	out := make([]storage.Mission, 0, n)
	for _, t := range pool[:n] {
		out = append(out, t.instantiate())
	}
	return out
}

// rolloverMissions replaces the missions wholesale when they were seeded on another day.
// Unclaimed progress from the previous day is discarded.
func rolloverMissions(p *storage.Progression, now time.Time, r *rand.Rand) bool {
	today := DateKey(now)
	if p.MissionsSeededDate == today && len(p.Missions) == DailyMissionCount {
		return false
	}
	p.Missions = SeedDailyMissions(r)
	p.MissionsSeededDate = today
	return true
}

// advanceMissions applies an XP award to mission progress. The named mission
// counts events (+1); earn_xp counts effective XP regardless of missionID.
func advanceMissions(p *storage.Progression, missionID string, effective int) {
	for i := range p.Missions {
		m := &p.Missions[i]
		if m.Claimed {
			continue
		}
		if missionID != "" && m.ID == missionID {
			m.Progress = min(m.Target, m.Progress+1)
		}
		if m.ID == MissionEarnXP {
			m.Progress = min(m.Target, m.Progress+effective)
		}
	}
}

func findMission(p *storage.Progression, id string) *storage.Mission {
	for i := range p.Missions {
		if p.Missions[i].ID == id {
			return &p.Missions[i]
		}
	}
	return nil
}
