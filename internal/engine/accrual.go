package engine

import (
	"fmt"
	"math"
	"time"

	"studyforge/internal/storage"
)

// MaxIdleWindow caps how much away time is converted into idle XP.
const MaxIdleWindow = 24 * time.Hour

// IdleXP is the idle XP earned over elapsed at rate, using whole seconds and the 24h cap.
func IdleXP(elapsed time.Duration, rate float64) int {
	secs := int64(elapsed / time.Second)
	if secs <= 0 || rate <= 0 {
		return 0
	}
	secs = min(secs, int64(MaxIdleWindow/time.Second))
	return int(math.Floor(float64(secs) * rate))
}

func autoCollects(p *storage.Progression) bool {
	return p.OwnedUpgrades[UpgradeAutoCollect] && p.Settings.AutoCollect
}

// reconcileIdle folds the time since LastActiveAt into idle XP. It is credited
// immediately only when the auto_collect upgrade is owned and Settings.AutoCollect
// is on (the default); otherwise it is queued in PendingIdleXP.
// It returns the amount credited (0 when queued) and any events to publish.
func reconcileIdle(p *storage.Progression, now time.Time) (int, []Event) {
	earned := IdleXP(now.Sub(p.LastActiveAt), p.PassiveXPPerSecond)
	p.LastActiveAt = now
	if earned <= 0 {
		return 0, nil
	}

	if !autoCollects(p) {
		p.PendingIdleXP += float64(earned)
		return 0, nil
	}

	var events []Event
	if lu := creditXP(p, earned, now); lu != nil {
		events = append(events, *lu)
	}
	appendLog(p, storage.LogIdle, fmt.Sprintf("+%d idle XP (auto)", earned), earned, now)
	events = append(events, IdleCollected{Meta: newMeta(now), Amount: earned, Auto: true})
	return earned, events
}

// drainPending converts queued idle XP into real balances regardless of upgrades.
func drainPending(p *storage.Progression, now time.Time) (int, []Event) {
	amount := int(math.Floor(p.PendingIdleXP))
	p.PendingIdleXP = 0
	if amount <= 0 {
		return 0, nil
	}

	var events []Event
	if lu := creditXP(p, amount, now); lu != nil {
		events = append(events, *lu)
	}
	appendLog(p, storage.LogIdle, fmt.Sprintf("Collected %d idle XP", amount), amount, now)
	events = append(events, IdleCollected{Meta: newMeta(now), Amount: amount})
	return amount, events
}
