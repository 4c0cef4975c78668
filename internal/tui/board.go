package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"studyforge/internal/engine"
)

// eventBuffer bounds how many bus events may wait for the dashboard.
const eventBuffer = 64

// bridge forwards bus events into a channel the program can wait on.
// Events that do not fit are dropped; the next refresh still shows their effect.
func bridge(forge *engine.Forge) (<-chan engine.Event, func()) {
	ch := make(chan engine.Event, eventBuffer)
	unsubscribe := forge.Subscribe(func(e engine.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	return ch, unsubscribe
}

// RunBoard shows the dashboard until the user quits. Pending event waits are
// released through ctx once the program returns.
func RunBoard(ctx context.Context, forge *engine.Forge, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, unsubscribe := bridge(forge)
	defer unsubscribe()

	m := newBoardModel(ctx, forge, events)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
