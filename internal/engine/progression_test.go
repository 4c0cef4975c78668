package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(0))
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 282, XPForLevel(2)) // 282.84 truncated
	assert.Equal(t, 519, XPForLevel(3))
	assert.Equal(t, 800, XPForLevel(4))
	assert.Equal(t, 3162, XPForLevel(10))
}

func TestLevelBoundaries(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 1, LevelForXP(XPForLevel(1)))

	for n := 2; n <= 500; n++ {
		at := XPForLevel(n)
		require.Equalf(t, n, LevelForXP(at), "LevelForXP(XPForLevel(%d)=%d)", n, at)
		require.Equalf(t, n-1, LevelForXP(at-1), "LevelForXP(XPForLevel(%d)-1=%d)", n, at-1)
	}
}

func TestLevelForXP_Large(t *testing.T) {
	n := 12_345
	assert.Equal(t, n, LevelForXP(XPForLevel(n)))
	assert.Equal(t, n, LevelForXP(XPForLevel(n+1)-1))
}

func TestLevelProgress(t *testing.T) {
	assert.Equal(t, 0.0, LevelProgress(0, 1))
	assert.Equal(t, 0.0, LevelProgress(282, 2))
	assert.InDelta(t, 18.0/237.0, LevelProgress(300, 2), 1e-12)
	assert.Equal(t, 1.0, LevelProgress(10_000, 2))
}

func TestComputeMultipliers_NoUpgrades(t *testing.T) {
	m := ComputeMultipliers(nil, 0)
	assert.Equal(t, Multipliers{Base: 1, Total: 1}, m)
	assert.Equal(t, 100, EffectiveXP(100, m))
}

func TestComputeMultipliers_Additive(t *testing.T) {
	m := ComputeMultipliers(map[string]bool{"focus_1": true, "focus_2": true}, 0)
	assert.InDelta(t, 0.30, m.UpgradeBonus, 1e-9)
	assert.Equal(t, 130, EffectiveXP(100, m)) // not 132
}

func TestComputeMultipliers_StreakBonus(t *testing.T) {
	owned := map[string]bool{UpgradeStreakBooster: true}
	assert.Equal(t, 0.0, ComputeMultipliers(owned, 2).StreakBonus)
	assert.Equal(t, 1.0, ComputeMultipliers(owned, 3).StreakBonus)
	assert.Equal(t, 1.0, ComputeMultipliers(owned, 30).StreakBonus)
	assert.Equal(t, 0.0, ComputeMultipliers(nil, 30).StreakBonus)
}

func TestComputeMultipliers_Monotonic(t *testing.T) {
	owned := map[string]bool{}
	prev := ComputeMultipliers(owned, 0).Total
	for _, id := range []string{"focus_1", "focus_2", "focus_3"} {
		owned[id] = true
		cur := ComputeMultipliers(owned, 0).Total
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestEffectiveXP_StreakScenario(t *testing.T) {
	m := ComputeMultipliers(map[string]bool{"focus_1": true, UpgradeStreakBooster: true}, 5)
	assert.InDelta(t, 2.10, m.Total, 1e-9)
	assert.Equal(t, 210, EffectiveXP(100, m))
}

func TestEffectiveXP_Truncates(t *testing.T) {
	m := ComputeMultipliers(map[string]bool{"focus_1": true}, 0)
	assert.Equal(t, 5, EffectiveXP(5, m)) // 5.5 -> 5
	assert.Equal(t, 0, EffectiveXP(0, m))
	assert.Equal(t, 0, EffectiveXP(-4, m))
}

func TestIdleXP(t *testing.T) {
	assert.Equal(t, 0, IdleXP(0, 0.05))
	assert.Equal(t, 0, IdleXP(-5e9, 0.05))
	assert.Equal(t, 0, IdleXP(1_000_000_000_000, 0))
	assert.Equal(t, 50, IdleXP(1000*1e9+999_999_999, 0.05)) // partial second dropped
	assert.Equal(t, 4320, IdleXP(MaxIdleWindow*2, 0.05))
}

func TestCatalog(t *testing.T) {
	ups := Upgrades()
	require.Len(t, ups, 9)
	seen := map[string]bool{}
	for _, u := range ups {
		assert.False(t, seen[u.ID], "duplicate %s", u.ID)
		seen[u.ID] = true
		assert.Positive(t, u.Cost)
		assert.NotNil(t, u.Effect)
		assert.NotEmpty(t, u.Effect.String())
	}
	for _, u := range ups {
		for _, req := range u.Requires {
			assert.True(t, seen[req], "%s requires unknown %s", u.ID, req)
		}
	}
	assert.True(t, seen[UpgradeAutoCollect])
	assert.True(t, seen[UpgradeStreakBooster])

	ups[0].Requires = append(ups[0].Requires, "tampered")
	fresh, ok := UpgradeByID(ups[0].ID)
	require.True(t, ok)
	assert.Empty(t, fresh.Requires)

	require.Len(t, MissionTemplates(), 6)
}
