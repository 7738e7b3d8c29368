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
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles come from a
// renderer bound to the handler's writer, so colors are dropped when the
// writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style

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
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
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
	}

	return p.trace
}

// prettyHandler writes one styled record per line (text) or one indented
// object per record (JSON).
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	attrs  []slog.Attr // qualified with their group prefix
	groups []string
	json   bool
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyHandler {
	h := newPrettyTextHandler(w, opts)
	h.json = true

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.flatten(h.attrs[:len(h.attrs):len(h.attrs)], h.groups, attrs)

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

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.flatten(fields, nil, []slog.Attr{slog.Time(slog.TimeKey, r.Time)})
	}

	fields = h.flatten(fields, nil, []slog.Attr{slog.Any(slog.LevelKey, r.Level)})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.groups, []slog.Attr{a})

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeJSON(&buf, r.Level, fields)
	} else {
		h.writeText(&buf, r.Level, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends attrs to dst after resolving values, applying ReplaceAttr,
// and expanding groups into dotted keys.
func (h *prettyHandler) flatten(
	dst []slog.Attr,
	groups []string,
	attrs []slog.Attr,
) []slog.Attr {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			sub := groups
			if a.Key != "" {
				sub = append(groups[:len(groups):len(groups)], a.Key)
			}

			dst = h.flatten(dst, sub, a.Value.Group())

			continue
		}

		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(groups, a)
			a.Value = a.Value.Resolve()
		}

		if a.Key == "" {
			continue
		}

		for i := len(groups) - 1; i >= 0; i-- {
			a.Key = groups[i] + "." + a.Key
		}

		dst = append(dst, a)
	}

	return dst
}

func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	level slog.Level,
	fields []slog.Attr,
) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key + "="))
		buf.WriteString(h.value(a, level, false))
	}
}

func (h *prettyHandler) writeJSON(
	buf *bytes.Buffer,
	level slog.Level,
	fields []slog.Attr,
) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.value(a, level, true))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteByte('}')
}

// value renders an attribute value. Strings are always quoted in JSON and
// only when needed in text, so no styled value spans lines.
func (h *prettyHandler) value(a slog.Attr, level slog.Level, quote bool) string {
	str := func(s string) string {
		if quote || needsQuote(s) {
			return strconv.Quote(s)
		}

		return s
	}

	v := a.Value

	if a.Key == slog.LevelKey {
		return h.style.level(level).Render(str(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(str(v.String()))

	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.dur.Render(str(v.Duration().String()))

	case slog.KindTime:
		return h.style.when.Render(str(v.Time().Format(time.RFC3339Nano)))
	}

	x := v.Any()
	if x == nil {
		return h.style.null.Render("null")
	}

	if err, ok := x.(error); ok {
		return h.style.no.Render(str(err.Error()))
	}

	if quote {
		if data, err := json.Marshal(x); err == nil {
			return h.style.str.Render(string(data))
		}
	}

	return h.style.str.Render(str(fmt.Sprint(x)))
}

func needsQuote(s string) bool {
	return s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	})
}
