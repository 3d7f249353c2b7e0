package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the output writer, so color is dropped when the writer is
// not a terminal.
type palette struct {
	key, str, num, yes, no, time, dur, null lipgloss.Style

	trace, debug, info, warn, error lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		time:  fg("4"),
		dur:   fg("5"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error

	case l >= slog.LevelWarn:
		return p.warn

	case l >= slog.LevelInfo:
		return p.info

	case l >= slog.LevelDebug:
		return p.debug

	default:
		return p.trace
	}
}

// prettyHandler writes styled records as either key=value text or
// indented JSON.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	groups []string
	attrs  []slog.Attr // keys already qualified by groups
	json   bool
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, false)
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, true)
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, asJSON bool) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
		json:  asJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		fields = h.appendAttr(fields, nil, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendAttr(fields, nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.groups, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		h.writeJSON(buf, r.Level, fields)
	} else {
		h.writeText(buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = cloneAttrs(h.attrs)

	for _, a := range attrs {
		c.attrs = h.appendAttr(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// appendAttr resolves a, applies ReplaceAttr, and flattens groups into
// dotted keys.
func (h *prettyHandler) appendAttr(dst []slog.Attr, groups []string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup && h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return dst
		}

		inner := groups
		if a.Key != "" {
			inner = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, m := range members {
			dst = h.appendAttr(dst, inner, m)
		}

		return dst
	}

	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}

	return append(dst, a)
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key + "="))

		if a.Key == slog.LevelKey {
			buf.WriteString(h.style.level(level).Render(a.Value.String()))

			continue
		}

		buf.WriteString(h.textValue(a.Value))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) textValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuote(s) {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.dur.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.time.Render(v.Time().Format("2006-01-02T15:04:05.000Z07:00"))

	default:
		if v.Any() == nil {
			return h.style.null.Render("<nil>")
		}

		s := v.String()
		if needsQuote(s) {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(jsonString(a.Key) + ":"))
		buf.WriteByte(' ')

		if a.Key == slog.LevelKey {
			buf.WriteString(h.style.level(level).Render(jsonString(a.Value.String())))

			continue
		}

		buf.WriteString(h.jsonValue(a.Value))
	}

	buf.WriteString("\n}\n")
}

func (h *prettyHandler) jsonValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(jsonString(v.String()))

	case slog.KindInt64, slog.KindUint64:
		return h.style.num.Render(v.String())

	case slog.KindFloat64:
		f := v.Float64()

		b, err := json.Marshal(f)
		if err != nil {
			return h.style.num.Render(jsonString(v.String()))
		}

		return h.style.num.Render(string(b))

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.dur.Render(strconv.FormatInt(int64(v.Duration()), 10))

	case slog.KindTime:
		return h.style.time.Render(jsonString(v.Time().Format("2006-01-02T15:04:05.000Z07:00")))

	default:
		a := v.Any()

		switch x := a.(type) {
		case nil:
			return h.style.null.Render("null")

		case error:
			return h.style.str.Render(jsonString(x.Error()))
		}

		b, err := json.Marshal(a)
		if err != nil {
			return h.style.str.Render(jsonString(fmt.Sprint(a)))
		}

		return h.style.str.Render(string(b))
	}
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(b)
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == 0x7f {
			return true
		}
	}

	return false
}

func cloneAttrs(a []slog.Attr) []slog.Attr {
	return append(make([]slog.Attr, 0, len(a)), a...)
}
