package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyText_WritesKeyValueLine(t *testing.T) {
	tests := []struct {
		name string
		log  func(Logger)
		want string
	}{
		{
			"plain values",
			func(l Logger) {
				l.Info("hello", slog.String("key", "value"), slog.Int("n", 3), slog.Bool("ok", true))
			},
			"level=INFO msg=hello key=value n=3 ok=true\n",
		},
		{
			"quoted values",
			func(l Logger) {
				l.Warn("two words", slog.String("expr", "(λx.x) y"), slog.String("empty", ""))
			},
			`level=WARN msg="two words" expr="(λx.x) y" empty=""` + "\n",
		},
		{
			"trace level name",
			func(l Logger) { l.Trace("step") },
			"level=TRACE msg=step\n",
		},
		{
			"group",
			func(l Logger) {
				l.Info("req", slog.Group("http", slog.Int("status", 200), slog.String("path", "/")))
			},
			"level=INFO msg=req http.status=200 http.path=/\n",
		},
		{
			"error value",
			func(l Logger) { l.Error("failed", slog.Any("error", errors.New("line 3: boom"))) },
			`level=ERROR msg=failed error="line 3: boom"` + "\n",
		},
		{
			"with attributes",
			func(l Logger) { l.With(slog.String("cmd", "eval")).Info("run") },
			"level=INFO msg=run cmd=eval\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace), WithPretty(true)))

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

type point struct{ X, Y int }

func (p point) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("x", p.X), slog.Int("y", p.Y))
}

func TestPrettyText_ResolvesLogValuer(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithTimeLayout("none"), WithPretty(true)).
		Info("at", slog.Any("pos", point{1, 2}))

	want := "level=INFO msg=at pos.x=1 pos.y=2\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyJSON_IsIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))

	logger.Info("evaluate complete",
		slog.Int("steps", 7),
		slog.String("normal", "(λx.x)"),
		slog.Group("cfg", slog.Bool("trace", false)),
	)

	out := buf.String()
	if !strings.HasPrefix(out, "{\n  ") {
		t.Errorf("output is not indented: %q", out)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	checks := map[string]any{
		"level":     "INFO",
		"msg":       "evaluate complete",
		"steps":     float64(7),
		"normal":    "(λx.x)",
		"cfg.trace": false,
	}

	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}

	if _, ok := entry["time"]; !ok {
		t.Error("time field missing")
	}
}
