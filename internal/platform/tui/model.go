package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
	"github.com/dobi-games/flappy-dobi/internal/game"
	"github.com/dobi-games/flappy-dobi/internal/ledger"
	"github.com/dobi-games/flappy-dobi/internal/session"
	"github.com/dobi-games/flappy-dobi/internal/settle"
	"github.com/dobi-games/flappy-dobi/internal/storage"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	wonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// claimMsg carries the result of an asynchronous claim.
type claimMsg struct {
	reward float64
	err    error
}

// Model is the Bubble Tea model for one play session, practice or wager.
// The model drives the engine at a fixed dt; the engine itself never
// self-times.
type Model struct {
	cfg    config.Config
	rt     core.RuntimeConfig
	engine *game.Engine
	screen *core.Screen
	keymap *KeyMapper
	input  core.InputFrame
	snap   game.Snapshot

	player string
	store  *storage.Store // Optional score history

	// Wager mode; both nil for practice
	coord     *settle.Coordinator
	wagerSess *session.Session

	paused   bool
	reported bool // Terminal outcome already recorded
	claiming bool
	claimed  bool
	reward   float64
	claimErr error
	quitting bool
}

// NewModel creates a model for the given session. coord and wagerSess are
// nil for practice play; store may be nil to skip score history.
func NewModel(cfg config.Config, rt core.RuntimeConfig, player string, store *storage.Store, coord *settle.Coordinator, wagerSess *session.Session) Model {
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	engine := game.New(cfg, rt.Seed)
	engine.Start(rt.Seed)

	m := Model{
		cfg:       cfg,
		rt:        rt,
		engine:    engine,
		screen:    core.NewScreen(80, 23),
		keymap:    NewKeyMapper(),
		input:     core.NewInputFrame(),
		player:    player,
		store:     store,
		coord:     coord,
		wagerSess: wagerSess,
	}
	m.snap = engine.Snapshot()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rt.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.keymap.MapKeyToFrame(msg, &m.input) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		// Reserve one row for the status line
		m.screen.Resize(msg.Width, core.Max(4, msg.Height-1))
		return m, nil

	case TickMsg:
		return m.handleTick()

	case claimMsg:
		m.claiming = false
		if msg.err != nil {
			m.claimErr = msg.err
		} else {
			m.claimed = true
			m.reward = msg.reward
		}
		return m, nil
	}

	return m, nil
}

// handleTick advances the simulation one fixed step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	terminal := m.engine.State().Terminal()

	if m.input.Has(core.ActionPause) && !terminal {
		m.paused = !m.paused
	}

	// Restart is practice-only; a wager session is one play-through
	if m.input.Has(core.ActionRestart) && terminal && m.wagerSess == nil {
		m.engine.Reset(time.Now().UnixNano())
		m.snap = m.engine.Snapshot()
		m.reported = false
		m.input.Clear()
		return m, tickCmd(m.rt.TickRate)
	}

	if cmd := m.maybeClaim(); cmd != nil {
		m.input.Clear()
		return m, tea.Batch(cmd, tickCmd(m.rt.TickRate))
	}

	if !m.paused && !terminal {
		if m.input.Has(core.ActionJump) {
			m.engine.Jump()
		}
		result := m.engine.Tick(1.0 / float64(m.rt.TickRate))
		m.snap = result.Snapshot

		if m.engine.State().Terminal() && !m.reported {
			m.reported = true
			m.recordOutcome()
		}
	}

	m.input.Clear()
	return m, tickCmd(m.rt.TickRate)
}

// recordOutcome persists the final score and, for wager sessions, kicks
// off settlement. The local result shows immediately; settlement is
// observable on the session while it retries in the background.
func (m *Model) recordOutcome() {
	won := m.engine.State() == game.StateWon

	if m.store != nil {
		mode := session.ModePractice
		if m.wagerSess != nil {
			mode = session.ModeWager
		}
		//nolint:errcheck // Best-effort save, game result stands regardless
		m.store.SaveScore(m.player, m.engine.Score(), mode.String(), won)
	}

	if m.coord != nil && m.wagerSess != nil {
		m.coord.ReportOutcome(m.wagerSess, m.engine.Score())
	}
}

// maybeClaim returns a claim command when the player asked for one and the
// session is claimable.
func (m *Model) maybeClaim() tea.Cmd {
	if !m.input.Has(core.ActionClaim) || m.coord == nil || m.wagerSess == nil {
		return nil
	}
	if m.claiming || m.claimed {
		return nil
	}
	if m.wagerSess.Outcome() != session.OutcomeWon {
		return nil
	}

	m.claiming = true
	m.claimErr = nil
	coord, gameID, player := m.coord, m.wagerSess.GameID, m.player
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := coord.Claim(ctx, gameID, player)
		if err != nil {
			return claimMsg{err: err}
		}
		return claimMsg{reward: res.Reward}
	}
}

// View renders the world plus a one-line status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	game.Render(m.screen, m.snap, m.cfg)
	m.drawOverlay()

	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

// drawOverlay draws the pause / game-over message box onto the screen.
func (m Model) drawOverlay() {
	switch {
	case m.paused:
		m.drawCenteredMessage("PAUSED", "Press P to resume")
	case m.engine.State() == game.StateWon:
		m.drawCenteredMessage("YOU WON", fmt.Sprintf("Score: %d", m.snap.Score))
	case m.engine.State() == game.StateLost:
		sub := fmt.Sprintf("Score: %d", m.snap.Score)
		if m.wagerSess == nil {
			sub += "  |  Press R to restart"
		}
		m.drawCenteredMessage("GAME OVER", sub)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (m Model) drawCenteredMessage(title, subtitle string) {
	w, h := m.screen.Width(), m.screen.Height()
	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	m.screen.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	m.screen.DrawHLine(boxX, boxY, boxW, '─')
	m.screen.DrawHLine(boxX, boxY+boxH-1, boxW, '─')
	for y := boxY; y < boxY+boxH; y++ {
		m.screen.Set(boxX, y, '│')
		m.screen.Set(boxX+boxW-1, y, '│')
	}
	m.screen.Set(boxX, boxY, '┌')
	m.screen.Set(boxX+boxW-1, boxY, '┐')
	m.screen.Set(boxX, boxY+boxH-1, '└')
	m.screen.Set(boxX+boxW-1, boxY+boxH-1, '┘')

	m.screen.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	m.screen.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// statusLine summarizes mode and settlement state for the bottom row.
func (m Model) statusLine() string {
	if m.wagerSess == nil {
		return statusStyle.Render(" practice · space flap · p pause · q quit")
	}

	base := fmt.Sprintf(" wager %s", shortID(m.wagerSess.GameID))
	switch m.wagerSess.Settlement() {
	case session.SettlementSubmitting:
		return statusStyle.Render(base) + warnStyle.Render(" · settling…")
	case session.SettlementFailed:
		return statusStyle.Render(base) + lostStyle.Render(" · settlement failed, run `dobi reconcile`")
	case session.SettlementConfirmed:
		switch {
		case m.claimed:
			return statusStyle.Render(base) + wonStyle.Render(fmt.Sprintf(" · claimed %.1f DOBI", m.reward))
		case m.claiming:
			return statusStyle.Render(base) + warnStyle.Render(" · claiming…")
		case m.claimErr != nil:
			return statusStyle.Render(base) + lostStyle.Render(" · claim failed: "+claimErrText(m.claimErr))
		case m.wagerSess.Outcome() == session.OutcomeWon:
			return statusStyle.Render(base) + wonStyle.Render(" · won! press C to claim")
		default:
			return statusStyle.Render(base + " · settled")
		}
	}
	return statusStyle.Render(base + " · space flap · p pause · q quit")
}

// claimErrText maps typed ledger errors to short user-facing text.
func claimErrText(err error) string {
	switch {
	case ledger.IsNotOwner(err):
		return "not your game"
	case ledger.IsAlreadyClaimed(err):
		return "already claimed"
	case ledger.IsNotWon(err):
		return "not won"
	case ledger.IsUnavailable(err):
		return "ledger unreachable"
	default:
		return err.Error()
	}
}

// shortID truncates a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
