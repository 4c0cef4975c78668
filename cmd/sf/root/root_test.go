package root

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/config"
	"studyforge/internal/engine"
	"studyforge/internal/storage"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "forge.db"))
	t.Setenv(config.EnvLogLevel, "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCLI_AwardBuyAndStatus(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "award", "300", "wrote", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "+300 XP")
	assert.Contains(t, out, "wrote notes")
	assert.Contains(t, out, "level 1 → 2")

	out, err = execute(t, "buy", "focus_1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought Focused Mind")
	assert.Contains(t, out, "(-250 XP, 50 left)")

	_, err = execute(t, "buy", "focus_1")
	assert.ErrorContains(t, err, "already owned")

	_, err = execute(t, "buy", "focus_3")
	assert.ErrorContains(t, err, "requires focus_2")

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "x1.10")
	assert.Contains(t, out, "First Purchase")

	out, err = execute(t, "log")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought Focused Mind")
	assert.Contains(t, out, "Reached level 2")
}

func TestCLI_MissionsAndClaims(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "missions")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily missions")

	_, err = execute(t, "claim", "no_such_mission")
	assert.ErrorContains(t, err, "not active today")

	out, err = execute(t, "collect")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to collect.")
}

func TestCLI_Settings(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "settings", "--theme", "forest")
	assert.ErrorContains(t, err, "not unlocked")

	out, err := execute(t, "settings", "--sound=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved")
	assert.Contains(t, out, "Sound: off")
	assert.Contains(t, out, "upgrade not owned")
}

func TestCLI_AwardRejectsBadInput(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "award", "lots")
	assert.ErrorContains(t, err, "xp must be an integer")

	_, err = execute(t, "award", "--", "-5")
	assert.ErrorContains(t, err, "xp must be positive")
}

func TestSessionSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	before := engine.NewProgression(now)

	assert.Contains(t, sessionSummary(before, before.Clone()), "No progress this session.")

	after := before.Clone()
	after.TotalXP, after.Level = 320, 2
	after.OwnedUpgrades = map[string]bool{"focus_1": true}
	got := sessionSummary(before, after)
	assert.Contains(t, got, "+320 XP")
	assert.Contains(t, got, "level 1 → 2")
	assert.Contains(t, got, "1 upgrade(s) bought")

	after = before.Clone()
	after.TotalXP = 40
	got = sessionSummary(before, after)
	assert.Contains(t, got, "+40 XP")
	assert.NotContains(t, got, "level")
	assert.NotContains(t, got, "upgrade")
}

func TestCLI_StatusDropsBonusForBrokenStreak(t *testing.T) {
	dir := setupHome(t)
	ctx := context.Background()

	now := time.Now()
	seed := engine.NewProgression(now)
	seed.OwnedUpgrades = map[string]bool{engine.UpgradeStreakBooster: true}
	seed.StreakCount = 5
	seed.LastStreakDate = engine.DateKey(now.AddDate(0, 0, -3))

	db, err := storage.Open(ctx, filepath.Join(dir, "forge.db"))
	require.NoError(t, err)
	require.NoError(t, storage.NewProgressionRepo(db).Save(ctx, seed))
	require.NoError(t, db.Close())

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "streak 0.00")
	assert.Contains(t, out, "x1.00")

	out, err = execute(t, "award", "100", "back", "again")
	require.NoError(t, err)
	assert.Contains(t, out, "+100 XP")
}
