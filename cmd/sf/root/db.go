package root

import (
	"context"
	"fmt"
	"io"

	"studyforge/internal/engine"
	"studyforge/internal/storage"
	"studyforge/internal/ui"
)

// openForge opens the configured database and returns an initialized forge.
// Level-ups and auto-collected idle XP are announced on out; pass nil to stay quiet.
func openForge(ctx context.Context, out io.Writer) (*engine.Forge, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	forge := engine.NewSQLite(db, engine.WithLogger(logger))
	unsubscribe := func() {}
	if out != nil {
		unsubscribe = announce(forge, out)
	}
	cleanup := func() {
		unsubscribe()
		_ = db.Close()
	}

	if err := forge.Init(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	snap, err := forge.Snapshot(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	ui.Apply(snap.Settings.Theme)
	return forge, cleanup, nil
}

func announce(forge *engine.Forge, out io.Writer) func() {
	return forge.Subscribe(func(e engine.Event) {
		switch ev := e.(type) {
		case engine.LevelUp:
			fmt.Fprintf(out, "%s %s level %d → %d\n", ui.IconTrophy, ui.BadgeLevelUp, ev.From, ev.To)
		case engine.IdleCollected:
			if ev.Auto {
				fmt.Fprintf(out, "%s %s\n", ui.IconIdle, ui.Muted.Render(fmt.Sprintf("auto-collected %d idle XP", ev.Amount)))
			}
		}
	})
}
