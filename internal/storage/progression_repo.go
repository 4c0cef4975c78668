package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ProgressionRepo struct {
	db *sql.DB
}

func NewProgressionRepo(db *sql.DB) *ProgressionRepo {
	return &ProgressionRepo{db: db}
}

// Load returns the singleton record, or nil when none has been saved yet.
func (r *ProgressionRepo) Load(ctx context.Context) (*Progression, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, total_xp, available_xp, level, next_level_xp, level_progress,
			pending_idle_xp, passive_xp_per_second, last_active_at,
			streak_count, last_streak_date, missions_seeded_date,
			owned_themes, owned_upgrades, settings, activity_log
		FROM progression
		WHERE id = ?
	`, ProgressionID)

	p, err := scanProgression(row)
	if err != nil || p == nil {
		return p, err
	}

	missions, err := r.listMissions(ctx)
	if err != nil {
		return nil, err
	}
	p.Missions = missions
	return p, nil
}

// Save writes the record and replaces the mission list in one transaction.
func (r *ProgressionRepo) Save(ctx context.Context, p *Progression) error {
	if p == nil {
		return errors.New("progression save: nil record")
	}

	themes, err := json.Marshal(p.OwnedThemes)
	if err != nil {
		return fmt.Errorf("marshal owned themes: %w", err)
	}
	upgrades, err := json.Marshal(p.OwnedUpgrades)
	if err != nil {
		return fmt.Errorf("marshal owned upgrades: %w", err)
	}
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	activity, err := json.Marshal(p.ActivityLog)
	if err != nil {
		return fmt.Errorf("marshal activity log: %w", err)
	}

	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO progression (
				id, total_xp, available_xp, level, next_level_xp, level_progress,
				pending_idle_xp, passive_xp_per_second, last_active_at,
				streak_count, last_streak_date, missions_seeded_date,
				owned_themes, owned_upgrades, settings, activity_log
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				total_xp = excluded.total_xp,
				available_xp = excluded.available_xp,
				level = excluded.level,
				next_level_xp = excluded.next_level_xp,
				level_progress = excluded.level_progress,
				pending_idle_xp = excluded.pending_idle_xp,
				passive_xp_per_second = excluded.passive_xp_per_second,
				last_active_at = excluded.last_active_at,
				streak_count = excluded.streak_count,
				last_streak_date = excluded.last_streak_date,
				missions_seeded_date = excluded.missions_seeded_date,
				owned_themes = excluded.owned_themes,
				owned_upgrades = excluded.owned_upgrades,
				settings = excluded.settings,
				activity_log = excluded.activity_log
		`, ProgressionID, p.TotalXP, p.AvailableXP, p.Level, p.NextLevelXP, p.LevelProgress,
			p.PendingIdleXP, p.PassiveXPPerSecond, formatTime(p.LastActiveAt),
			p.StreakCount, p.LastStreakDate, p.MissionsSeededDate,
			string(themes), string(upgrades), string(settings), string(activity))
		if err != nil {
			return fmt.Errorf("progression upsert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM missions`); err != nil {
			return fmt.Errorf("missions clear: %w", err)
		}
		for i, m := range p.Missions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO missions (position, mission_id, title, description, target, progress, reward, claimed)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, i, m.ID, m.Title, m.Description, m.Target, m.Progress, m.Reward, boolToInt(m.Claimed))
			if err != nil {
				return fmt.Errorf("mission insert %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

func (r *ProgressionRepo) listMissions(ctx context.Context) ([]Mission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mission_id, title, description, target, progress, reward, claimed
		FROM missions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("mission list: %w", err)
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		var (
			m       Mission
			claimed int
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Target, &m.Progress, &m.Reward, &claimed); err != nil {
			return nil, fmt.Errorf("mission scan: %w", err)
		}
		m.Claimed = claimed != 0
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mission rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgression(row scanner) (*Progression, error) {
	var (
		p           Progression
		lastActive  string
		themesRaw   string
		upgradesRaw string
		settingsRaw string
		activityRaw string
	)
	if err := row.Scan(
		&p.ID, &p.TotalXP, &p.AvailableXP, &p.Level, &p.NextLevelXP, &p.LevelProgress,
		&p.PendingIdleXP, &p.PassiveXPPerSecond, &lastActive,
		&p.StreakCount, &p.LastStreakDate, &p.MissionsSeededDate,
		&themesRaw, &upgradesRaw, &settingsRaw, &activityRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("progression scan: %w", err)
	}

	t, err := parseTime(lastActive)
	if err != nil {
		return nil, fmt.Errorf("parse last_active_at: %w", err)
	}
	p.LastActiveAt = t

	if err := json.Unmarshal([]byte(themesRaw), &p.OwnedThemes); err != nil {
		return nil, fmt.Errorf("unmarshal owned themes: %w", err)
	}
	if err := json.Unmarshal([]byte(upgradesRaw), &p.OwnedUpgrades); err != nil {
		return nil, fmt.Errorf("unmarshal owned upgrades: %w", err)
	}
	p.Settings = DefaultSettings()
	if err := json.Unmarshal([]byte(settingsRaw), &p.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := json.Unmarshal([]byte(activityRaw), &p.ActivityLog); err != nil {
		return nil, fmt.Errorf("unmarshal activity log: %w", err)
	}
	if p.OwnedUpgrades == nil {
		p.OwnedUpgrades = map[string]bool{}
	}
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
