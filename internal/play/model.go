// Package play implements the interactive hand: a bubbletea TUI for the
// human seat, backed by a goroutine that runs the game loop described in
// spec §4.F against a trained Driver, re-solving the realized subgame with
// Driver.Search after every street.
package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	actionsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	handInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// ActionResult is one parsed action token from the human seat, relayed from
// the TUI's Update loop to whatever goroutine is waiting on WaitForAction.
type ActionResult struct {
	Action   string
	Continue bool
}

// QuitMsg asks the program to exit immediately.
type QuitMsg struct{}

// Model is the bubbletea program for the human seat of one hand. The game
// loop itself lives in RunHand, driving this Model through AddLogEntry,
// SetHumanTurn, and WaitForAction rather than owning any solver state
// directly — the same split the rest of the session's terminal UI uses
// between rendering and game logic.
type Model struct {
	logger *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string

	actionResult chan ActionResult
	quitting     bool

	isHumanTurn  bool
	validActions []string
	pot          int
	handCards    string

	width, height int
	initialized   bool

	testMode    bool
	capturedLog []string
}

// New constructs a production Model.
func New(logger *log.Logger) *Model {
	return NewWithOptions(logger, false)
}

// NewWithOptions constructs a Model, optionally in test mode: log entries are
// captured in memory instead of rendered, and InjectAction lets a test drive
// the action channel without a running Program.
func NewWithOptions(logger *log.Logger, testMode bool) *Model {
	vp := viewport.New(10, 5)
	ti := textinput.New()
	ti.Placeholder = "enter your action"
	ti.Focus()
	ti.CharLimit = 32

	return &Model{
		logger:       logger,
		logViewport:  vp,
		actionInput:  ti,
		actionResult: make(chan ActionResult, 16),
		testMode:     testMode,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.actionResult <- ActionResult{Action: "quit", Continue: false}
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			action := strings.TrimSpace(strings.ToUpper(m.actionInput.Value()))
			m.actionResult <- ActionResult{Action: action, Continue: true}
			m.actionInput.SetValue("")
		case "up", "k":
			m.logViewport.ScrollUp(1)
		case "down", "j":
			m.logViewport.ScrollDown(1)
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("cfr-solver — interactive hand"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(m.gameLog, "\n"))
	b.WriteString("\n\n")

	if m.isHumanTurn {
		b.WriteString(handInfoStyle.Render(fmt.Sprintf("your card: %s   pot: %d", m.handCards, m.pot)))
		b.WriteString("\n")
		b.WriteString(actionsStyle.Render("actions: " + strings.Join(m.validActions, ", ")))
		b.WriteString("\n")
	} else {
		b.WriteString(infoStyle.Render("waiting for the solver..."))
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	return b.String()
}

// AddLogEntry appends a line to the game log. In test mode it is captured
// instead of pushed into the viewport.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// SetHumanTurn updates what the action pane shows while it is (or is not)
// the human seat's turn.
func (m *Model) SetHumanTurn(isTurn bool, handCards string, pot int, validActions []string) {
	m.isHumanTurn = isTurn
	m.handCards = handCards
	m.pot = pot
	m.validActions = validActions
}

// WaitForAction blocks until the TUI relays a parsed action, for use by
// RunHand's game-loop goroutine.
func (m *Model) WaitForAction() ActionResult {
	return <-m.actionResult
}

// InjectAction programmatically submits an action, for use by tests that
// exercise RunHand without a running tea.Program.
func (m *Model) InjectAction(action string) {
	m.actionResult <- ActionResult{Action: action, Continue: true}
}

// IsTestMode reports whether the Model was constructed with testMode set.
func (m *Model) IsTestMode() bool { return m.testMode }

// CapturedLog returns the log entries recorded in test mode, or nil outside
// of it.
func (m *Model) CapturedLog() []string {
	if !m.testMode {
		return nil
	}
	out := make([]string, len(m.capturedLog))
	copy(out, m.capturedLog)
	return out
}
