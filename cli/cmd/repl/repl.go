package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/log"
)

// LastResult is the name bound to the value of the most recent evaluation.
const LastResult = "_"

const (
	evalPrompt = "» "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode, or prefix with ':' in eval mode):

  help     Print this message
  list     List names in scope
  edit     Write a multi-line block in $EDITOR and evaluate it
  clear    Clear screen
  quit     Exit

Usage:
  Type statements separated by ';' to evaluate them
  The value of the last evaluation is bound to ` + LastResult + `
  Press Tab / Shift-Tab to cycle through completions
  Press Enter while cycling to accept the current completion
  Use Up/Down for history (switches mode to match the entry)
  Use Shift+Up/Shift+Down for history within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit`

// inputMode is the interpretation of submitted lines.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

type (
	// editDoneMsg carries a block saved from the editor.
	editDoneMsg struct {
		block  *lang.Block
		source string
	}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

// model is the Bubble Tea model of the interactive shell.
type model struct {
	ctxFunc    func() context.Context
	session    *lang.Session
	history    *History
	logger     log.Logger
	input      textinput.Model
	matches    fuzzy.Matches
	draft      string // last block written in the editor
	saved      [2]textState
	preTab     textState
	historyIdx int
	wordStart  int
	wordEnd    int
	suggIdx    int
	width      int
	mode       inputMode
	tabActive  bool
	quitting   bool
}

// textState is a snapshot of the input line.
type textState struct {
	text   string
	cursor int
}

const defaultWidth = 80

// Run starts the interactive shell on session until the user quits.
func Run(
	ctx context.Context,
	session *lang.Session,
	history *History,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	if history == nil {
		history = &History{}
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("names", len(session.Names())),
		slog.Int("history", history.Len()),
	)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	_, err = tea.NewProgram(newModel(ctx, session, history, logger), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

func newModel(
	ctx context.Context,
	session *lang.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    session,
		history:    history,
		logger:     logger,
		input:      ti,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.draft = msg.source

		return m, m.evaluate(msg.block, "")

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	switch input := m.input.Value(); {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		)))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type an expression, or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.selected(), m.callable, m.width))
	}

	b.WriteByte('\n')

	return b.String()
}

// selected returns the highlighted candidate, or -1 when not tab-cycling.
func (m model) selected() int {
	if !m.tabActive {
		return -1
	}

	return m.suggIdx
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.restore(m.preTab)
			m.refreshMatches()

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the tab selection by step and inserts the selected candidate.
// A sole candidate is inserted and accepted at once.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTab = m.snapshot()
		m.suggIdx = -1
		if step < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = (m.suggIdx + step + n) % n
	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the word being completed and moves the cursor after
// it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))

	m.wordEnd = m.wordStart + len(s)
}

func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) snapshot() textState {
	return textState{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(s textState) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

// switchMode changes the input mode, keeping a separate line per mode.
func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode] = m.snapshot()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.restore(m.saved[mode])
	m.refreshMatches()

	return m
}

// historyStep moves through history by step. When inMode is set, entries of
// the other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.At(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		m.historyIdx = i
		m = m.switchMode(entry.Mode)
		m.restore(textState{text: entry.Line, cursor: len(entry.Line)})
		m.refreshMatches()

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.restore(textState{})
		m.refreshMatches()
	}

	return m
}

// submit runs the current line as a command or an evaluation.
func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]textState{}
	m.restore(textState{})
	m.matches = nil

	mode := m.mode
	if command, ok := strings.CutPrefix(input, ":"); ok && mode == modeEval {
		mode, input = modeCtrl, strings.TrimSpace(command)
	}

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "repl history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.command(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	block, err := lang.ParseBody(m.ctxFunc(), input, lang.WithLogger(m.logger))
	if err != nil {
		return m, tea.Sequence(
			tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)),
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, m.evaluate(block, input)
}

// evaluate runs block in the session and prints its value, echoing input
// first when it is not empty.
func (m model) evaluate(block *lang.Block, input string) tea.Cmd {
	var cmds []tea.Cmd

	if input != "" {
		cmds = append(cmds, tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)))
	}

	out, err := m.eval(block)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed", slog.Any("error", err))

		return tea.Sequence(append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))...)
	}

	return tea.Sequence(append(cmds, tea.Println(resultStyle.Render(out)))...)
}

// eval evaluates block and binds its value to [LastResult].
func (m model) eval(block *lang.Block) (string, error) {
	v, err := m.session.Eval(m.ctxFunc(), block)
	if err != nil {
		return "", err
	}

	if v != nil {
		m.session.Bind(LastResult, v)
	}

	return lang.FormatValue(v), nil
}

func (m model) command(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", fields[0]),
		slog.Any("args", fields[1:]),
	)

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try help)"))
	}
}

// list renders every name in scope with a short description of its value.
func (m model) list() string {
	var b strings.Builder

	for _, name := range m.session.Names() {
		v, _ := m.session.Lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(describe(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		draft:   m.draft,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.block == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{block: cmd.block, source: cmd.source}
		}
	})
}
