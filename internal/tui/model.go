package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyforge/internal/engine"
	"studyforge/internal/storage"
	"studyforge/internal/ui"
)

type focus int

const (
	focusMissions focus = iota
	focusShop
)

type boardModel struct {
	ctx    context.Context
	forge  *engine.Forge
	events <-chan engine.Event
	now    func() time.Time

	keys     keyMap
	help     help.Model
	progress progress.Model

	width  int
	height int

	snap  *storage.Progression
	mult  engine.Multipliers
	clock time.Time

	focus    focus
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snap *storage.Progression
	mult engine.Multipliers
	err  error
}

// actionMsg reports the outcome of a claim, purchase or collect.
type actionMsg struct {
	text string
	err  error
}

type eventMsg struct{ ev engine.Event }

type tickMsg time.Time

func newBoardModel(ctx context.Context, forge *engine.Forge, events <-chan engine.Event) boardModel {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = 30
	return boardModel{
		ctx:      ctx,
		forge:    forge,
		events:   events,
		now:      time.Now,
		keys:     defaultKeys(),
		help:     help.New(),
		progress: p,
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForEvent(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.forge.Snapshot(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		mult, err := m.forge.Multipliers(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{snap: snap, mult: mult}
	}
}

// waitForEvent blocks on the bus bridge until the next event arrives or ctx ends.
func (m boardModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return nil
			}
			return eventMsg{ev: ev}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m boardModel) claimCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.forge.CheckClaim(m.ctx, id); err != nil {
			var cerr *engine.ClaimError
			if errors.As(err, &cerr) {
				return actionMsg{text: cerr.Error()}
			}
			return actionMsg{err: err}
		}
		reward, err := m.forge.ClaimMission(m.ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("Claimed %s: +%d XP", id, reward)}
	}
}

func (m boardModel) buyCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.forge.CheckPurchase(m.ctx, id); err != nil {
			var perr *engine.PurchaseError
			if errors.As(err, &perr) {
				return actionMsg{text: perr.Error()}
			}
			return actionMsg{err: err}
		}
		ok, err := m.forge.PurchaseUpgrade(m.ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		if !ok {
			return actionMsg{text: "Purchase refused."}
		}
		return actionMsg{text: "Bought " + id}
	}
}

func (m boardModel) collectCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.forge.CollectIdleExperience(m.ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		if n == 0 {
			return actionMsg{text: "Nothing to collect."}
		}
		return actionMsg{text: fmt.Sprintf("Collected %d idle XP", n)}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(40, msg.Width/3))
		return m, nil
	case tickMsg:
		m.clock = time.Time(msg)
		return m, tick()
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.snap = msg.snap
		m.mult = msg.mult
		m.clampSelection()
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = "Failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.text
		return m, m.loadCmd()
	case eventMsg:
		m.lastLog = describeEvent(msg.ev)
		return m, tea.Batch(m.loadCmd(), m.waitForEvent())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.selected < m.rows()-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, m.keys.Switch):
			if m.focus == focusMissions {
				m.focus = focusShop
			} else {
				m.focus = focusMissions
			}
			m.selected = 0
			return m, nil
		case key.Matches(msg, m.keys.Collect):
			m.lastLog = "Collecting…"
			return m, m.collectCmd()
		case key.Matches(msg, m.keys.Act):
			return m, m.act()
		}
	}
	return m, nil
}

func (m boardModel) act() tea.Cmd {
	if m.snap == nil {
		return nil
	}
	switch m.focus {
	case focusMissions:
		if m.selected < len(m.snap.Missions) {
			return m.claimCmd(m.snap.Missions[m.selected].ID)
		}
	case focusShop:
		ups := engine.Upgrades()
		if m.selected < len(ups) {
			return m.buyCmd(ups[m.selected].ID)
		}
	}
	return nil
}

func (m boardModel) rows() int {
	if m.focus == focusShop {
		return len(engine.Upgrades())
	}
	if m.snap == nil {
		return 0
	}
	return len(m.snap.Missions)
}

func (m *boardModel) clampSelection() {
	m.selected = max(0, min(m.selected, m.rows()-1))
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if m.snap == nil {
		return "StudyForge — loading…\n"
	}

	left := ui.Panel.Render(m.renderMissions() + "\n\n" + m.renderActivity())
	right := ui.Panel.Render(m.renderShop())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.lastLog,
		m.help.View(m.keys),
	)
}

func (m boardModel) renderHeader() string {
	p := m.snap
	line1 := fmt.Sprintf("%s  Level %d  %s %d XP  %s %d spendable",
		ui.Heading(ui.IconForge, "StudyForge"), p.Level, ui.IconXP, p.TotalXP, ui.IconShop, p.AvailableXP)
	line2 := fmt.Sprintf("%s %s",
		m.progress.ViewAs(p.LevelProgress),
		ui.Muted.Render(fmt.Sprintf("next level at %d", p.NextLevelXP)))
	line3 := fmt.Sprintf("%s x%.2f   %s %d day(s)   %s %.2f XP/s, %s pending",
		ui.IconBolt, m.mult.Total,
		ui.IconStreak, p.StreakCount,
		ui.IconIdle, p.PassiveXPPerSecond, ui.Gold.Render(fmt.Sprintf("%d", m.idlePreview())))
	return line1 + "\n" + line2 + "\n" + line3 + "\n"
}

// idlePreview estimates what a collect would credit right now.
func (m boardModel) idlePreview() int {
	now := m.clock
	if now.IsZero() {
		now = m.now()
	}
	return int(m.snap.PendingIdleXP) + engine.IdleXP(now.Sub(m.snap.LastActiveAt), m.snap.PassiveXPPerSecond)
}

func (m boardModel) renderMissions() string {
	out := []string{ui.PanelTitle.Render(ui.IconScroll + " Daily missions")}
	for i, ms := range m.snap.Missions {
		row := fmt.Sprintf("%-14s %s  +%d", ms.Title, ui.MissionStatus(ms.Progress, ms.Target, ms.Claimed), ms.Reward)
		out = append(out, m.cursor(focusMissions, i, row))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderShop() string {
	out := []string{ui.PanelTitle.Render(ui.IconShop + " Upgrades")}
	for i, u := range engine.Upgrades() {
		state := ui.Muted.Render(fmt.Sprintf("%d XP", u.Cost))
		switch {
		case m.snap.OwnedUpgrades[u.ID]:
			state = ui.Good.Render("owned")
		case !prerequisitesMet(m.snap, u.ID):
			state = ui.Muted.Render(ui.IconLock + " " + strings.Join(u.Requires, ", "))
		case m.snap.AvailableXP >= u.Cost:
			state = ui.Gold.Render(fmt.Sprintf("%d XP", u.Cost))
		}
		out = append(out, m.cursor(focusShop, i, fmt.Sprintf("%-15s %s", u.Name, state)))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderActivity() string {
	out := []string{ui.PanelTitle.Render("Recent activity")}
	if len(m.snap.ActivityLog) == 0 {
		return strings.Join(append(out, ui.Muted.Render("(nothing yet)")), "\n")
	}
	for _, e := range m.snap.ActivityLog[:min(5, len(m.snap.ActivityLog))] {
		out = append(out, fmt.Sprintf("%s %s", ui.Muted.Render(e.At.Local().Format("15:04")), e.Message))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) cursor(section focus, i int, row string) string {
	if section == m.focus && i == m.selected {
		return ui.SelectedRow.Render("> " + row)
	}
	return "  " + row
}

func prerequisitesMet(p *storage.Progression, id string) bool {
	_, perr := engine.EvaluatePurchase(p, id)
	return perr == nil || perr.Reason != engine.RefusalPrerequisite
}

func describeEvent(ev engine.Event) string {
	switch e := ev.(type) {
	case engine.LevelUp:
		return fmt.Sprintf("%s reached level %d", ui.BadgeLevelUp, e.To)
	case engine.ExperienceAwarded:
		return fmt.Sprintf("+%d XP (%s)", e.Effective, e.Reason)
	case engine.UpgradePurchased:
		return fmt.Sprintf("Bought %s for %d XP", e.UpgradeID, e.Cost)
	case engine.MissionCompleted:
		return fmt.Sprintf("Mission %s complete: +%d XP", e.MissionID, e.Reward)
	case engine.IdleCollected:
		return fmt.Sprintf("%s +%d idle XP", ui.IconIdle, e.Amount)
	case engine.SettingsChanged:
		return "Settings updated."
	default:
		return ev.Kind()
	}
}
