package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/log"
)

// isolate points the per-user directories at a temporary directory and
// restores the package-level logger afterwards.
func isolate(t *testing.T) {
	t.Helper()

	dir := t.TempDir()

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })
}

func TestRun(t *testing.T) {
	isolate(t)

	src := filepath.Join(t.TempDir(), "answer.aoc")
	if err := os.WriteFile(src, []byte("part_1 { 6 * 7 }"), 0o600); err != nil {
		t.Fatal(err)
	}

	exited := -1
	exit := func(code int) { exited = code }

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"run", []string{"--log-level=error", "run", "answer", "--source", src}, false},
		{"default_command", []string{"answer", "--source", src, "--no-log-pretty"}, false},
		{"missing_source", []string{"run", "nope", "--source", src + ".missing"}, true},
		{"unknown_flag", []string{"run", "answer", "--bogus"}, true},
		{"bad_enum", []string{"--log-level=loud", "run", "answer", "--source", src}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(t.Context(), exit, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}

	if exited != -1 {
		t.Errorf("exit called with %d", exited)
	}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned",
			args: []string{"--log-level=debug", "--log-format=json", "run", "x"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "separate_values",
			args: []string{"run", "--log-level", "trace", "--log-time-layout", "none", "x"},
			want: logConfig{Level: "trace", TimeLayout: "none", Pretty: true},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "assigned_booleans",
			args: []string{"--log-caller=false", "--no-log-pretty=false"},
			want: logConfig{Caller: false, Pretty: true},
		},
		{
			name: "stops_at_terminator",
			args: []string{"--", "--log-level=error"},
			want: logConfig{Pretty: true},
		},
		{
			name: "value_looks_like_flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestScan_ConfiguresLogger(t *testing.T) {
	isolate(t)

	var f logConfig
	f.scan([]string{"--log-level=warn", "--log-format=json"})

	l := log.Default()
	if l.Level() != log.LevelWarn {
		t.Errorf("Level() = %v, want %v", l.Level(), log.LevelWarn)
	}

	if l.Format() != log.FormatJSON {
		t.Errorf("Format() = %v, want %v", l.Format(), log.FormatJSON)
	}
}

func TestFlagBool(t *testing.T) {
	tests := []struct {
		value    string
		assigned bool
		negated  bool
		want     bool
		ok       bool
	}{
		{"", false, false, true, true},
		{"", false, true, false, true},
		{"true", true, false, true, true},
		{"false", true, false, false, true},
		{"false", true, true, true, true},
		{"maybe", true, false, false, false},
	}

	for _, tt := range tests {
		got, ok := flagBool(tt.value, tt.assigned, tt.negated)
		if got != tt.want || ok != tt.ok {
			t.Errorf("flagBool(%q, %v, %v) = %v, %v; want %v, %v",
				tt.value, tt.assigned, tt.negated, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGroups(t *testing.T) {
	got := groups(
		kong.Group{Key: "log", Title: "Logging"},
		kong.Group{},
		kong.Group{Key: "pprof", Title: "Profiling"},
	)

	if len(got) != 2 || got[0].Key != "log" || got[1].Key != "pprof" {
		t.Errorf("groups() = %+v", got)
	}
}
