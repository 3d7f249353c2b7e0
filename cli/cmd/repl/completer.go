package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/aocl/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// literals are completable words that are not bound in any scope.
var literals = []string{"true", "false"}

// isWordBoundary reports whether r ends an identifier. Identifiers are
// ASCII letters, digits and underscores; everything else delimits words.
func isWordBoundary(r rune) bool {
	switch {
	case r == '_',
		r >= 'a' && r <= 'z',
		r >= 'A' && r <= 'Z',
		r >= '0' && r <= '9':
		return false
	}

	return true
}

// wordBounds returns the identifier under the cursor and its byte offsets in
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a quoted string literal.
func inString(input string, offset int) bool {
	var quote byte

	for i := 0; i < offset && i < len(input); i++ {
		switch c := input[i]; {
		case quote != 0 && c == '\\':
			i++

		case quote != 0 && c == quote:
			quote = 0

		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		}
	}

	return quote != 0
}

// commandLine reports whether input is a control command typed in eval
// mode, such as ":list".
func commandLine(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), ":")
}

// candidates returns the words that may complete the current input.
func (m model) candidates(input string) []string {
	if m.mode == modeCtrl || commandLine(input) {
		return ctrlCommands
	}

	names := append(m.session.Names(), literals...)
	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches returns the fuzzy matches, best first, for the word at the
// cursor together with its offsets. An empty word or a cursor inside a
// string literal produces no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" || inString(input, wordStart) {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, m.candidates(input)), wordStart, wordEnd
}

// callable reports whether name is bound to a function in the session.
func (m model) callable(name string) bool {
	if m.session == nil {
		return false
	}

	v, ok := m.session.Lookup(name)

	return ok && lang.IsCallable(v)
}

// renderCandidateBar renders the completion bar on one line no wider than
// width, ending in an ellipsis when candidates were left out.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	callable func(string) bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, i == selected, callable(match.Str))

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis)+len(sep) > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the matched characters of one candidate.
// Functions get a "()" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, selected, fn bool) string {
	base, mark := suggestionStyle, matchStyle
	if selected {
		base, mark = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(mark.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if fn {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// describe returns a one-line summary of a value for the list command.
func describe(v lang.Value) string {
	const maxPreview = 40

	if fn, ok := v.(*lang.Native); ok {
		return "native/" + strconv.Itoa(fn.Arity)
	}

	s := lang.FormatValue(v)
	if len(s) > maxPreview {
		s = s[:maxPreview-3] + "..."
	}

	return s
}
