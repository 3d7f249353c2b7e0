package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the base name of the history file in the cache directory.
const HistoryFile = "history"

// maxHistory bounds the number of retained entries; the oldest are dropped.
const maxHistory = 1000

// Each persisted line starts with a marker naming the mode it was entered in.
// Lines without a marker are expressions.
const (
	evalMarker = "> "
	ctrlMarker = ": "
)

// Entry is one submitted line and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// History is the list of submitted lines, oldest first, mirrored to a file.
// A History with an empty path is kept in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// LoadHistory reads the history file at path. A missing file yields an
// empty history.
func LoadHistory(path string) (*History, error) {
	h := &History{path: path}
	if path == "" {
		return h, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}

		return h, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := parseEntry(scanner.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	h.entries = trimHistory(h.entries)

	return h, scanner.Err()
}

func parseEntry(text string) (Entry, bool) {
	if s, ok := strings.CutPrefix(text, ctrlMarker); ok {
		text = strings.TrimSpace(s)

		return Entry{Line: text, Mode: modeCtrl}, text != ""
	}

	text = strings.TrimSpace(strings.TrimPrefix(text, evalMarker))

	return Entry{Line: text, Mode: modeEval}, text != ""
}

func (e Entry) String() string {
	if e.Mode == modeCtrl {
		return ctrlMarker + e.Line
	}

	return evalMarker + e.Line
}

func trimHistory(entries []Entry) []Entry {
	if n := len(entries) - maxHistory; n > 0 {
		return slices.Delete(entries, 0, n)
	}

	return entries
}

// Add appends line to the history. An earlier identical entry is moved to
// the end instead of duplicated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	rewrite := false

	if i := slices.Index(h.entries, entry); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		rewrite = true
	}

	h.entries = append(h.entries, entry)

	if len(h.entries) > maxHistory {
		h.entries = trimHistory(h.entries)
		rewrite = true
	}

	if rewrite {
		return h.save()
	}

	return h.append(entry)
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// Must be called with h.mu held.
func (h *History) append(e Entry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.String() + "\n")

	return err
}

// Must be called with h.mu held.
func (h *History) save() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}
