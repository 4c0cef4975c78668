package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"studyforge/internal/storage"
)

// Store is the durable home of the singleton progression record.
// Load returns nil, nil when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*storage.Progression, error)
	Save(ctx context.Context, p *storage.Progression) error
}

// Forge owns the in-memory progression record and is the only writer of its Store.
//
// Transactions are serialized by a mutex inside one process. Two processes
// sharing one database file are not coordinated: the last Save wins.
type Forge struct {
	mu    sync.Mutex
	store Store
	bus   *Bus
	log   *zap.Logger
	now   func() time.Time
	rng   *rand.Rand

	rec *storage.Progression // nil until Init succeeds
}

type Option func(*Forge)

// WithClock replaces time.Now. Calendar days are taken in the returned time's location.
func WithClock(now func() time.Time) Option {
	return func(f *Forge) { f.now = now }
}

// WithRand sets the source used to pick daily missions.
func WithRand(r *rand.Rand) Option {
	return func(f *Forge) { f.rng = r }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Forge) { f.log = log }
}

func New(store Store, opts ...Option) *Forge {
	f := &Forge{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(uint64(f.now().UnixNano()), 0x5f0f))
	}
	f.bus = NewBus(f.log)
	return f
}

// NewSQLite builds a Forge persisting to db.
func NewSQLite(db *sql.DB, opts ...Option) *Forge {
	return New(storage.NewProgressionRepo(db), opts...)
}

// Subscribe registers h for every future event and returns its unsubscribe func.
func (f *Forge) Subscribe(h Handler) func() {
	return f.bus.Subscribe(h)
}

// Init loads or creates the record, folds idle time into XP and reseeds
// missions when the day changed. It is safe to call more than once; every
// other operation calls it implicitly.
func (f *Forge) Init(ctx context.Context) error {
	f.mu.Lock()
	events, err := f.initLocked(ctx)
	f.mu.Unlock()
	f.bus.Publish(events...)
	return err
}

func (f *Forge) initLocked(ctx context.Context) ([]Event, error) {
	if f.rec != nil {
		return nil, nil
	}
	now := f.now()

	p, err := f.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progression: %w", err)
	}
	if p == nil {
		f.log.Info("creating progression record")
		p = NewProgression(now)
	} else {
		normalize(p)
	}

	credited, events := reconcileIdle(p, now)
	if rolloverMissions(p, now, f.rng) {
		f.log.Debug("seeded daily missions", zap.String("date", p.MissionsSeededDate))
	}

	if err := f.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("persist progression: %w", err)
	}
	f.rec = p
	f.log.Info("progression ready",
		zap.Int("level", p.Level),
		zap.Int("total_xp", p.TotalXP),
		zap.Int("idle_credited", credited),
	)
	return events, nil
}

// mutation is applied to a private clone of the record. It reports whether
// the clone changed; false means a precondition failed and nothing is saved.
type mutation func(p *storage.Progression, now time.Time) (events []Event, changed bool)

// transact runs m against a clone, persists the clone and only then makes it
// the current record. A failed Save leaves memory and disk identical.
// Events are published after the lock is released.
func (f *Forge) transact(ctx context.Context, op string, m mutation) error {
	f.mu.Lock()
	events, err := f.transactLocked(ctx, op, m)
	f.mu.Unlock()
	f.bus.Publish(events...)
	return err
}

func (f *Forge) transactLocked(ctx context.Context, op string, m mutation) ([]Event, error) {
	events, err := f.initLocked(ctx)
	if err != nil {
		return events, err
	}

	now := f.now()
	p := f.rec.Clone()
	rolled := rolloverMissions(p, now, f.rng)

	opEvents, changed := m(p, now)
	if !changed && !rolled {
		return events, nil
	}

	if err := f.store.Save(ctx, p); err != nil {
		f.log.Warn("persist failed; transaction discarded", zap.String("op", op), zap.Error(err))
		return events, fmt.Errorf("%s: persist progression: %w", op, err)
	}
	f.rec = p

	for _, ev := range opEvents {
		if lu, ok := ev.(LevelUp); ok {
			f.log.Info("level up", zap.Int("from", lu.From), zap.Int("to", lu.To))
		}
	}
	f.log.Debug("transaction committed", zap.String("op", op), zap.Bool("changed", changed), zap.Bool("missions_reseeded", rolled))
	return append(events, opEvents...), nil
}

// Snapshot returns a deep copy of the current record.
func (f *Forge) Snapshot(ctx context.Context) (*storage.Progression, error) {
	var snap *storage.Progression
	err := f.transact(ctx, "snapshot", func(p *storage.Progression, _ time.Time) ([]Event, bool) {
		snap = p.Clone()
		return nil, false
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Multipliers returns the multiplier breakdown an award would use right now,
// with the streak advanced or reset the way the award would leave it.
func (f *Forge) Multipliers(ctx context.Context) (Multipliers, error) {
	var m Multipliers
	err := f.transact(ctx, "multipliers", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		m = ComputeMultipliers(p.OwnedUpgrades, projectedStreak(p, now))
		return nil, false
	})
	if err != nil {
		return Multipliers{}, err
	}
	return m, nil
}

// projectedStreak is the streak an activity at now would produce.
func projectedStreak(p *storage.Progression, now time.Time) int {
	switch p.LastStreakDate {
	case DateKey(now):
		return p.StreakCount
	case previousDateKey(now):
		return p.StreakCount + 1
	default:
		return 1
	}
}

// updateStreak extends the streak on consecutive days and restarts it otherwise.
func updateStreak(p *storage.Progression, now time.Time) {
	p.StreakCount = projectedStreak(p, now)
	p.LastStreakDate = DateKey(now)
}

// AwardExperience credits base XP scaled by the current multipliers and returns
// the effective amount. missionID, when set, advances that mission by one.
// Non-positive amounts are ignored and return 0.
func (f *Forge) AwardExperience(ctx context.Context, base int, reason, missionID string) (int, error) {
	effective := 0
	err := f.transact(ctx, "award", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		if base <= 0 {
			return nil, false
		}
		updateStreak(p, now)
		effective = EffectiveXP(base, ComputeMultipliers(p.OwnedUpgrades, p.StreakCount))

		var events []Event
		if lu := creditXP(p, effective, now); lu != nil {
			events = append(events, *lu)
		}
		appendLog(p, storage.LogXP, fmt.Sprintf("+%d XP: %s", effective, reason), effective, now)
		advanceMissions(p, missionID, effective)

		events = append(events, ExperienceAwarded{
			Meta:      newMeta(now),
			Requested: base,
			Effective: effective,
			Reason:    reason,
			MissionID: missionID,
		})
		return events, true
	})
	if err != nil {
		return 0, err
	}
	return effective, nil
}

// EvaluatePurchase checks id against a record without changing it.
func EvaluatePurchase(p *storage.Progression, id string) (UpgradeDef, *PurchaseError) {
	u, ok := UpgradeByID(id)
	if !ok {
		return u, &PurchaseError{UpgradeID: id, Reason: RefusalUnknown}
	}
	if p.OwnedUpgrades[id] {
		return u, &PurchaseError{UpgradeID: id, Reason: RefusalOwned}
	}
	var missing []string
	for _, req := range u.Requires {
		if !p.OwnedUpgrades[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return u, &PurchaseError{UpgradeID: id, Reason: RefusalPrerequisite, Missing: missing}
	}
	if p.AvailableXP < u.Cost {
		return u, &PurchaseError{UpgradeID: id, Reason: RefusalFunds, Cost: u.Cost, Available: p.AvailableXP}
	}
	return u, nil
}

// CheckPurchase reports why PurchaseUpgrade would refuse id, or nil if it would succeed.
func (f *Forge) CheckPurchase(ctx context.Context, id string) error {
	snap, err := f.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, perr := EvaluatePurchase(snap, id); perr != nil {
		return perr
	}
	return nil
}

// PurchaseUpgrade spends available XP on an upgrade. It returns false without
// changing anything when the upgrade is unknown, owned, locked or unaffordable.
func (f *Forge) PurchaseUpgrade(ctx context.Context, id string) (bool, error) {
	bought := false
	err := f.transact(ctx, "purchase", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		u, perr := EvaluatePurchase(p, id)
		if perr != nil {
			f.log.Debug("purchase refused", zap.String("upgrade", id), zap.String("reason", string(perr.Reason)))
			return nil, false
		}

		p.AvailableXP -= u.Cost
		p.OwnedUpgrades[u.ID] = true
		switch e := u.Effect.(type) {
		case PassiveRateEffect:
			p.PassiveXPPerSecond += e.PerSecond
		case ThemeUnlockEffect:
			if !p.OwnsTheme(e.Theme) {
				p.OwnedThemes = append(p.OwnedThemes, e.Theme)
			}
		case MultiplierEffect, AutoCollectEffect, StreakBoostEffect:
			// Read when XP is awarded or idle time is reconciled.
		}
		appendLog(p, storage.LogUpgrade, fmt.Sprintf("Bought %s", u.Name), u.Cost, now)

		bought = true
		return []Event{UpgradePurchased{Meta: newMeta(now), UpgradeID: u.ID, Cost: u.Cost}}, true
	})
	if err != nil {
		return false, err
	}
	return bought, nil
}

func checkClaim(p *storage.Progression, id string) (*storage.Mission, *ClaimError) {
	m := findMission(p, id)
	switch {
	case m == nil:
		return nil, &ClaimError{MissionID: id, Reason: ClaimUnknown}
	case m.Claimed:
		return m, &ClaimError{MissionID: id, Reason: ClaimClaimed, Progress: m.Progress, Target: m.Target}
	case !m.Complete():
		return m, &ClaimError{MissionID: id, Reason: ClaimIncomplete, Progress: m.Progress, Target: m.Target}
	}
	return m, nil
}

// CheckClaim reports why ClaimMission would refuse id, or nil if it would pay out.
func (f *Forge) CheckClaim(ctx context.Context, id string) error {
	snap, err := f.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, cerr := checkClaim(snap, id); cerr != nil {
		return cerr
	}
	return nil
}

// ClaimMission pays out a completed mission. Rewards skip the multiplier.
// It returns 0 when the mission is unknown, incomplete or already claimed.
func (f *Forge) ClaimMission(ctx context.Context, id string) (int, error) {
	reward := 0
	err := f.transact(ctx, "claim", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		m, cerr := checkClaim(p, id)
		if cerr != nil {
			return nil, false
		}
		m.Claimed = true
		reward = m.Reward

		var events []Event
		if lu := creditXP(p, reward, now); lu != nil {
			events = append(events, *lu)
		}
		appendLog(p, storage.LogMission, fmt.Sprintf("Completed %s", m.Title), reward, now)
		events = append(events, MissionCompleted{Meta: newMeta(now), MissionID: m.ID, Reward: reward})
		return events, true
	})
	if err != nil {
		return 0, err
	}
	return reward, nil
}

// SettingsPatch holds the settings to change; nil fields are left alone.
type SettingsPatch struct {
	Theme                *string
	AutoCollect          *bool
	SoundEnabled         *bool
	NotificationsEnabled *bool
}

// UpdateSettings shallow-merges patch into the settings.
func (f *Forge) UpdateSettings(ctx context.Context, patch SettingsPatch) error {
	return f.transact(ctx, "settings", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		s := &p.Settings
		if patch.Theme != nil {
			s.Theme = *patch.Theme
		}
		if patch.AutoCollect != nil {
			s.AutoCollect = *patch.AutoCollect
		}
		if patch.SoundEnabled != nil {
			s.SoundEnabled = *patch.SoundEnabled
		}
		if patch.NotificationsEnabled != nil {
			s.NotificationsEnabled = *patch.NotificationsEnabled
		}
		return []Event{SettingsChanged{Meta: newMeta(now), Settings: *s}}, true
	})
}

// CollectIdleExperience reconciles idle time and then empties the pending
// queue into the balances, whether or not auto-collect is owned. It returns
// the XP credited by this call.
func (f *Forge) CollectIdleExperience(ctx context.Context) (int, error) {
	total := 0
	err := f.transact(ctx, "collect", func(p *storage.Progression, now time.Time) ([]Event, bool) {
		auto, events := reconcileIdle(p, now)
		drained, more := drainPending(p, now)
		total = auto + drained
		return append(events, more...), true
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
