package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleProgression() *Progression {
	return &Progression{
		ID:                 ProgressionID,
		TotalXP:            420,
		AvailableXP:        120,
		Level:              2,
		NextLevelXP:        519,
		LevelProgress:      0.58,
		PendingIdleXP:      12.5,
		PassiveXPPerSecond: 0.05,
		LastActiveAt:       time.Date(2026, 3, 4, 9, 30, 0, 123, time.UTC),
		StreakCount:        4,
		LastStreakDate:     "2026-03-04",
		MissionsSeededDate: "2026-03-04",
		Missions: []Mission{
			{ID: "earn_xp", Title: "XP Hunter", Target: 200, Progress: 150, Reward: 100},
			{ID: "create_notes", Title: "Note Taker", Target: 3, Progress: 3, Reward: 50, Claimed: true},
			{ID: "export_note", Title: "Publisher", Target: 1, Reward: 30},
		},
		OwnedThemes:   []string{DefaultTheme, "midnight"},
		OwnedUpgrades: map[string]bool{"idle_scholar": true},
		Settings:      Settings{Theme: "midnight", AutoCollect: false, SoundEnabled: true},
		ActivityLog: []LogEntry{
			{ID: "b", Kind: LogXP, Message: "+20 XP", Amount: 20, At: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)},
			{ID: "a", Kind: LogUpgrade, Message: "Bought Idle Scholar", Amount: 500, At: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)},
		},
	}
}

func TestProgressionRepo_LoadMissing(t *testing.T) {
	repo := NewProgressionRepo(openTestDB(t))

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProgressionRepo_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressionRepo(openTestDB(t))

	in := sampleProgression()
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, in.TotalXP, out.TotalXP)
	assert.Equal(t, in.AvailableXP, out.AvailableXP)
	assert.Equal(t, in.Level, out.Level)
	assert.InDelta(t, in.PendingIdleXP, out.PendingIdleXP, 1e-9)
	assert.True(t, in.LastActiveAt.Equal(out.LastActiveAt))
	assert.Equal(t, in.Missions, out.Missions)
	assert.Equal(t, in.OwnedThemes, out.OwnedThemes)
	assert.Equal(t, in.OwnedUpgrades, out.OwnedUpgrades)
	assert.Equal(t, in.Settings, out.Settings)
	require.Len(t, out.ActivityLog, 2)
	assert.Equal(t, "b", out.ActivityLog[0].ID)
}

func TestProgressionRepo_SaveReplacesMissions(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressionRepo(openTestDB(t))

	p := sampleProgression()
	require.NoError(t, repo.Save(ctx, p))

	p.Missions = []Mission{
		{ID: "classify_notes", Title: "Organizer", Target: 3, Reward: 40},
		{ID: "study_flashcards", Title: "Reviewer", Target: 10, Reward: 80},
		{ID: "generate_flashcards", Title: "Card Crafter", Target: 2, Reward: 60},
	}
	require.NoError(t, repo.Save(ctx, p))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Missions, 3)
	assert.Equal(t, "classify_notes", out.Missions[0].ID)
	assert.Equal(t, "generate_flashcards", out.Missions[2].ID)
}

func TestProgressionRepo_IgnoresUnknownFields(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewProgressionRepo(db)

	require.NoError(t, repo.Save(ctx, sampleProgression()))
	_, err := db.ExecContext(ctx, `UPDATE progression SET settings = ? WHERE id = 1`,
		`{"theme":"forest","autoCollect":true,"legacyVolume":11}`)
	require.NoError(t, err)

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "forest", out.Settings.Theme)
	assert.True(t, out.Settings.AutoCollect)
}

func TestProgressionRepo_SingletonCheck(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.ExecContext(ctx, `INSERT INTO progression (id, last_active_at) VALUES (2, '')`)
	assert.Error(t, err)
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	p, err := ResolveDBPath("/tmp/configured.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/configured.db", p)

	t.Setenv(EnvDBPath, "/tmp/env.db")
	p, err = ResolveDBPath("/tmp/configured.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", p)
}
