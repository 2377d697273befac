package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tzlang/lang/parser"
	"github.com/ardnew/tzlang/lang/runtime"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "edit", "clear", "quit"}

// isWordRune reports whether r can be part of an identifier.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier around cursor and its byte offsets in
// input. The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal of input.
// Completion is disabled there.
func inString(input string, offset int) bool {
	var quote rune

	for i, r := range input {
		if i >= offset {
			break
		}

		switch {
		case quote == 0 && (r == '"' || r == '\'' || r == '`'):
			quote = r
		case r == quote:
			quote = 0
		}
	}

	return quote != 0
}

// evalCandidates returns the names visible in env followed by the language
// keywords.
func evalCandidates(env *runtime.Environment) []string {
	names := env.Names()

	for _, kw := range parser.Keywords() {
		if !slices.Contains(names, kw) {
			names = append(names, kw)
		}
	}

	return names
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word has no matches, which leaves room for the hint line.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		// Numbers are not completed.
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsDigit(r) {
			return nil, wordStart, wordEnd
		}

		if inString(input, wordStart) {
			return nil, wordStart, wordEnd
		}

		candidates = evalCandidates(m.interp.Env())
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate, when tab-cycling, is highlighted.
func renderCandidateBar(
	matches fuzzy.Matches,
	env *runtime.Environment,
	selected int,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis) - lipgloss.Width(sep)

	var b strings.Builder

	for i, match := range matches {
		rendered := renderCandidate(match, callable(env, match.Str), i == selected)

		next := lipgloss.Width(rendered)
		if i > 0 {
			next += lipgloss.Width(sep)
		}

		// Reserve space for the ellipsis unless this is the last candidate.
		limit := room
		if i == len(matches)-1 {
			limit = width
		}

		if i > 0 && lipgloss.Width(b.String())+next > limit {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes emphasized.
// Functions get a "()" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, function, selected bool) string {
	base, emphasis := suggestionStyle, matchStyle
	if selected {
		base, emphasis = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(emphasis.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// callable reports whether name is bound to a function in env.
func callable(env *runtime.Environment, name string) bool {
	v, err := env.Lookup(name)
	if err != nil {
		return false
	}

	k := v.Kind()

	return k == runtime.KindFunction || k == runtime.KindNativeFunction
}
