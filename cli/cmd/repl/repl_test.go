package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tzlang/lang/runtime"
)

// submit types line and presses Enter.
func submit(m model, line string) (model, tea.Cmd) {
	return press(typeText(m, line), tea.KeyEnter)
}

func lookup(t *testing.T, m model, name string) runtime.Value {
	t.Helper()

	v, err := m.interp.Env().Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}

	return v
}

func TestSubmit_PersistsGlobals(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := submit(m, "let a = 2")
	if cmd == nil {
		t.Fatal("submit returned no command")
	}

	if got := lookup(t, m, "a"); got != runtime.Float(2) {
		t.Errorf("a = %v, want 2", got)
	}

	if got := m.eval("a * 3"); !strings.Contains(got, "6") {
		t.Errorf("eval(a * 3) = %q, want 6", got)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}

	if m.lastEval != "let a = 2" {
		t.Errorf("lastEval = %q", m.lastEval)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"result", "1 + 2 * 3", []string{"7"}},
		{"print", "print('hi', 1)", []string{"hi 1", "null"}},
		{"string", `"a" + 'b'`, []string{"ab"}},
		{"runtime error", "nope + 1", []string{"undefined variable"}},
		{"syntax error", "let = 1", []string{"syntax error", "^"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil)

			got := m.eval(tt.source)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("eval(%q) = %q, want it to contain %q", tt.source, got, w)
				}
			}
		})
	}
}

func TestSubmit_Continuation(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = submit(m, "let f = (a) => {")
	if len(m.pending) != 1 {
		t.Fatalf("pending = %q, want 1 line", m.pending)
	}

	m, _ = submit(m, "a * 2")
	if len(m.pending) != 2 {
		t.Fatalf("pending = %q, want 2 lines", m.pending)
	}

	if _, err := m.interp.Env().Lookup("f"); err == nil {
		t.Fatal("f defined before the block was closed")
	}

	m, _ = submit(m, "}")
	if len(m.pending) != 0 {
		t.Fatalf("pending = %q, want none", m.pending)
	}

	if got := m.eval("f(4)"); !strings.Contains(got, "8") {
		t.Errorf("f(4) = %q, want 8", got)
	}

	if got, want := m.lastEval, "let f = (a) => {\na * 2\n}"; got != want {
		t.Errorf("lastEval = %q, want %q", got, want)
	}
}

func TestCtrlC_DiscardsContinuation(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = submit(m, "print(1,")
	m = typeText(m, "2")

	m, cmd := press(m, tea.KeyCtrlC)
	if cmd != nil || m.quitting {
		t.Fatal("Ctrl+C with input should not quit")
	}

	if len(m.pending) != 0 || m.input.Value() != "" {
		t.Errorf("pending = %q, input = %q, want both cleared", m.pending, m.input.Value())
	}

	m, cmd = press(m, tea.KeyCtrlC)
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+C on an empty line should quit")
	}
}

func TestSubmit_Exit(t *testing.T) {
	for _, word := range []string{"exit", "quit", "  quit  "} {
		m := newTestModel(t, nil)

		m, cmd := submit(m, word)
		if !m.quitting || cmd == nil {
			t.Fatalf("%q: quitting = %v", word, m.quitting)
		}

		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: command did not quit", word)
		}

		if m.View() != "" {
			t.Errorf("%q: View() = %q after quit", word, m.View())
		}
	}
}

func TestModeToggle_KeepsInput(t *testing.T) {
	m := newTestModel(t, nil)

	m = typeText(m, "1 +")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode = %v, input = %q", m.mode, m.input.Value())
	}

	m = typeText(m, "he")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeEval || m.input.Value() != "1 +" {
		t.Errorf("mode = %v, input = %q, want eval mode with %q", m.mode, m.input.Value(), "1 +")
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "he" {
		t.Errorf("ctrl input = %q, want %q", m.input.Value(), "he")
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = submit(m, "1 + 1")
	m, _ = press(m, tea.KeyEsc)
	m, _ = submit(m, "vars")
	m, _ = press(m, tea.KeyEsc)

	steps := []struct {
		key  tea.KeyType
		want string
		mode inputMode
	}{
		{tea.KeyUp, "vars", modeCtrl},
		{tea.KeyUp, "1 + 1", modeEval},
		{tea.KeyUp, "1 + 1", modeEval},
		{tea.KeyDown, "vars", modeCtrl},
		{tea.KeyDown, "", modeCtrl},
		{tea.KeyShiftUp, "vars", modeCtrl},
		{tea.KeyShiftUp, "vars", modeCtrl},
	}

	for i, s := range steps {
		m, _ = press(m, s.key)

		if m.input.Value() != s.want || m.mode != s.mode {
			t.Fatalf("step %d: input = %q mode = %v, want %q mode %v",
				i, m.input.Value(), m.mode, s.want, s.mode)
		}
	}
}

func TestCtrl_Vars(t *testing.T) {
	m := newTestModel(t, map[string]runtime.Value{"greeting": runtime.String("hi")})

	m, _ = submit(m, "let n = 4")

	got := m.vars()
	for _, want := range []string{"greeting = ", "hi", "(string)", "n = ", "(float)", "print", "constant"} {
		if !strings.Contains(got, want) {
			t.Errorf("vars() = %q, missing %q", got, want)
		}
	}
}

func TestCtrl_Commands(t *testing.T) {
	tests := []struct {
		line     string
		quitting bool
		mode     inputMode
	}{
		{"help", false, modeCtrl},
		{"vars", false, modeCtrl},
		{"clear", false, modeCtrl},
		{"bogus", false, modeCtrl},
		{"edit", false, modeEval},
		{"quit", true, modeCtrl},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m := newTestModel(t, nil)
			m, _ = press(m, tea.KeyEsc)

			m, cmd := submit(m, tt.line)
			if cmd == nil {
				t.Fatal("no command returned")
			}

			if m.quitting != tt.quitting || m.mode != tt.mode {
				t.Errorf("quitting = %v mode = %v, want %v %v",
					m.quitting, m.mode, tt.quitting, tt.mode)
			}

			if e, _ := m.history.Entry(m.history.Len() - 1); e.Line != tt.line || e.Mode != modeCtrl {
				t.Errorf("last history entry = %+v", e)
			}
		})
	}
}

func TestUpdate_EditDone(t *testing.T) {
	m := newTestModel(t, nil)

	next, cmd := m.Update(editDoneMsg{text: "let edited = 5"})
	if cmd == nil {
		t.Fatal("no command returned")
	}

	m = next.(model)
	if got := lookup(t, m, "edited"); got != runtime.Float(5) {
		t.Errorf("edited = %v, want 5", got)
	}

	if m.lastEval != "let edited = 5" {
		t.Errorf("lastEval = %q", m.lastEval)
	}

	if _, cmd := m.Update(editDoneMsg{}); cmd == nil {
		t.Error("cancelled edit should print a notice")
	}
}

func TestNewModel_Preload(t *testing.T) {
	m, err := newModel(context.Background(), Config{
		Preload: []string{"let base = 10", "let twice = base * 2"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := lookup(t, m, "twice"); got != runtime.Float(20) {
		t.Errorf("twice = %v, want 20", got)
	}

	_, err = newModel(context.Background(), Config{Preload: []string{"let = 1"}})
	if !errors.Is(err, ErrPreload) {
		t.Errorf("error = %v, want ErrPreload", err)
	}
}

func TestNewModel_HistoryFile(t *testing.T) {
	dir := t.TempDir()

	m, err := newModel(context.Background(), Config{CacheDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = submit(m, "1 + 1")

	again, err := newModel(context.Background(), Config{CacheDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	if again.history.Len() != 1 || again.historyIdx != 1 {
		t.Errorf("history len = %d idx = %d, want 1 1", again.history.Len(), again.historyIdx)
	}
}

func TestView_Hints(t *testing.T) {
	m := newTestModel(t, nil)

	if v := m.View(); !strings.Contains(v, "Esc for commands") {
		t.Errorf("View() = %q, want the empty-input hint", v)
	}

	m, _ = press(m, tea.KeyEsc)
	if v := m.View(); !strings.Contains(v, "help") {
		t.Errorf("ctrl View() = %q, want the command list", v)
	}
}
