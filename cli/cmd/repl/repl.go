package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tzlang/lang"
	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this message
  vars     List variables and their values
  edit     Write a program in $EDITOR and evaluate it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to evaluate it; variables persist between inputs
  Unclosed blocks, argument lists and strings continue on the next line
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Type exit or quit, press Ctrl+C on an empty line, or Ctrl+D to exit
`

// inputMode is the interpretation of submitted input.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)

	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Logger receives session trace events and is passed to the interpreter.
	Logger log.Logger
	// CacheDir holds the history file. Empty disables persistence.
	CacheDir string
	// Options configure the session's interpreter. Output of print is
	// always captured by the REPL.
	Options []lang.Option
	// Preload are programs evaluated before the first prompt.
	Preload []string
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	interp     *lang.Interpreter
	out        *bytes.Buffer // print output of the current evaluation
	logger     log.Logger
	history    *History
	historyIdx int
	input      textinput.Model
	pending    []string      // lines of an incomplete program
	matches    fuzzy.Matches // ranked completions for the word at the cursor
	wordStart  int
	wordEnd    int
	suggIdx    int // selected match while tab-cycling
	tabActive  bool
	preTab     textState
	saved      [2]textState // input of each mode while inactive
	lastEval   string
	width      int
	mode       inputMode
	quitting   bool
}

// textState is the input line contents and cursor.
type textState struct {
	text   string
	cursor int
}

// Run starts an interactive session and blocks until it ends.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config) (model, error) {
	out := new(bytes.Buffer)

	interp, err := lang.New(slices.Concat(cfg.Options, []lang.Option{
		lang.WithLogger(cfg.Logger),
		lang.WithOutput(out),
	})...)
	if err != nil {
		return model{}, err
	}

	for i, source := range cfg.Preload {
		if _, err := interp.Run(ctx, source); err != nil {
			return model{}, ErrPreload.Wrap(err).With(slog.Int("index", i))
		}
	}

	var path string
	if cfg.CacheDir != "" {
		path = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("history_len", history.Len()),
		slog.Int("preload", len(cfg.Preload)),
	)

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:        ctx,
		interp:     interp,
		out:        out,
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		input:      ti,
		suggIdx:    -1,
		width:      defaultWidth,
	}, nil
}

// editDoneMsg carries the program accepted by the editor. Empty text means
// the edit was cancelled.
type editDoneMsg struct{ text string }

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if strings.TrimSpace(msg.text) == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.lastEval = msg.text

		return m, tea.Sequence(tea.Println(hintStyle.Render(msg.text)), m.evaluate(msg.text))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
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
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown below the input: the history position,
// a call signature, completion candidates or usage help.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		switch {
		case m.mode == modeCtrl:
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		case len(m.pending) > 0:
			return hintStyle.Render("Continue the program, or press Ctrl+C to discard it")
		default:
			return hintStyle.Render("Type a statement or press Esc for commands")
		}
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall && callable(m.interp.Env(), call.name) {
			_, params := signature(m.interp.Env(), call.name)

			return renderSignatureHint(call.name, params, call.argIndex)
		}
	}

	selected := -1
	if m.tabActive {
		selected = m.suggIdx
	}

	return renderCandidateBar(m.matches, m.interp.Env(), selected, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m = m.setInput(textState{})
		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Accept the candidate without executing.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1, false), nil

	case tea.KeyDown:
		return m.historyMove(1, false), nil

	case tea.KeyShiftUp:
		return m.historyMove(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyMove(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m = m.setInput(m.preTab)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Typing ends tab-cycling and history browsing.
		m.tabActive = false
		m.historyIdx = m.history.Len()

		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(msg.Type == tea.KeyRunes)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// setInput replaces the input line and recomputes completions.
func (m model) setInput(s textState) model {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
	m.refreshMatches(false)

	return m
}

func (m model) inputState() textState {
	return textState{text: m.input.Value(), cursor: m.input.Position()}
}

// cycle selects the next (dir 1) or previous (dir -1) completion and
// writes it into the input. A single candidate is accepted immediately.
func (m model) cycle(dir int) model {
	switch len(m.matches) {
	case 0:
		return m
	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTab = m.inputState()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the word being completed with s.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions. With accept set, a word that
// already equals its only candidate is accepted and the bar is cleared.
// Deletions and cursor movement pass false so editing never completes.
func (m *model) refreshMatches(accept bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if accept && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// historyMove steps through history by dir. Unless sameMode is set, the
// input mode follows the mode of each entry. Moving past the newest entry
// clears the input.
func (m model) historyMove(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i

		return m.setInput(textState{entry.Line, len(entry.Line)})
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m = m.setInput(textState{})
	}

	return m
}

// switchToMode activates mode, keeping each mode's unsubmitted input.
func (m model) switchToMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode] = m.inputState()
	m.mode = mode
	m.tabActive = false

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = m.evalPromptText()
	}

	return m.setInput(m.saved[mode])
}

func (m model) evalPromptText() string {
	if len(m.pending) > 0 {
		return promptStyle.Render(contPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// executeInput submits the input line in the current mode.
func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()

	m.tabActive = false
	m.matches = nil
	m = m.setInput(textState{})

	if m.mode == modeCtrl {
		return m.executeCtrl(strings.TrimSpace(line))
	}

	trimmed := strings.TrimSpace(line)
	if len(m.pending) == 0 && (trimmed == "exit" || trimmed == "quit") {
		m.quitting = true

		return m, tea.Quit
	}

	echo := tea.Println(m.input.Prompt + inputStyle.Render(line))

	m.addHistory(line, modeEval)

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")

	if strings.TrimSpace(source) == "" {
		m.pending = nil
		m.input.Prompt = m.evalPromptText()

		return m, echo
	}

	if _, err := lang.ParseString(m.ctx, source); lang.Incomplete(source, err) {
		m.input.Prompt = promptStyle.Render(contPrompt)

		return m, echo
	}

	m.pending = nil
	m.lastEval = source
	m.input.Prompt = m.evalPromptText()

	return m, tea.Sequence(echo, m.evaluate(source))
}

// evaluate runs source immediately and returns a command printing its
// output followed by its result or error.
func (m model) evaluate(source string) tea.Cmd {
	return tea.Println(m.eval(source))
}

// eval runs source in the session interpreter and renders what it printed
// and its result.
func (m model) eval(source string) string {
	m.out.Reset()

	v, err := m.interp.Run(m.ctx, source)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.Int("length", len(source)),
		slog.Bool("success", err == nil),
	)

	var b strings.Builder

	if m.out.Len() > 0 {
		b.WriteString(strings.TrimSuffix(m.out.String(), "\n"))
		b.WriteByte('\n')
	}

	if err != nil {
		b.WriteString(errorStyle.Render(lang.Snippet(source, err)))
	} else {
		b.WriteString(resultStyle.Render(runtime.Display(v)))
	}

	return b.String()
}

// executeCtrl runs a control command.
func (m model) executeCtrl(line string) (model, tea.Cmd) {
	if line == "" {
		return m, nil
	}

	m.addHistory(line, modeCtrl)

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))
	name, _, _ := strings.Cut(line, " ")

	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", name))

	switch name {
	case "help":
		return m, tea.Sequence(echo, tea.Println(hintStyle.Render(helpMessage)))

	case "vars":
		return m, tea.Sequence(echo, tea.Println(m.vars()))

	case "edit":
		m = m.switchToMode(modeEval)

		return m, tea.Sequence(echo, m.edit())

	case "clear":
		return m, tea.ClearScreen

	case "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)
	}

	return m, tea.Sequence(echo,
		tea.Println(errorStyle.Render("unknown command: "+name+" (type help)")),
	)
}

// edit suspends the program and opens the editor on the last evaluated
// program. The accepted text arrives as an [editDoneMsg].
func (m model) edit() tea.Cmd {
	ed := &editCommand{ctx: m.ctx, logger: m.logger, text: m.lastEval}

	return tea.Exec(ed, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDoneMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		}

		return editDoneMsg{text: ed.text}
	})
}

// vars renders every global binding with its value and kind.
func (m model) vars() string {
	env := m.interp.Env()

	var b strings.Builder

	for _, name := range env.Names() {
		v, err := env.Lookup(name)
		if err != nil {
			continue
		}

		kind := v.Kind().String()
		if env.IsConstant(name) {
			kind += ", constant"
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%s = %s %s", name,
			resultStyle.Render(runtime.Display(v)),
			hintStyle.Render("("+kind+")"),
		)
	}

	if b.Len() == 0 {
		return hintStyle.Render("no variables defined")
	}

	return b.String()
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
}
