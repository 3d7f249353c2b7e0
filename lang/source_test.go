package lang

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"
)

func TestDirSource_Open(t *testing.T) {
	fsys := fstest.MapFS{
		"data/day1.txt":     {Data: []byte("from data")},
		"extra/day1.txt":    {Data: []byte("from extra")},
		"extra/day2.txt":    {Data: []byte("only extra")},
		"inputs/day-03.in":  {Data: []byte("templated")},
		"data/sub/day4.txt": {Data: []byte("nested")},
	}

	tests := []struct {
		name     string
		dirs     []string
		template string
		program  string
		want     string
	}{
		{"first directory wins", []string{"data", "extra"}, "", "day1", "from data"},
		{"order matters", []string{"extra", "data"}, "", "day1", "from extra"},
		{"falls through", []string{"data", "extra"}, "", "day2", "only extra"},
		{"template", []string{"inputs"}, `"day-0" + name + ".in"`, "3", "templated"},
		{"template with path", []string{"data"}, `"sub/" + name + ".txt"`, "day4", "nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewDirSource(fsys, tt.dirs, tt.template)

			rc, err := src.Open(t.Context(), tt.program)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}

			if string(data) != tt.want {
				t.Errorf("data = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestDirSource_Errors(t *testing.T) {
	fsys := fstest.MapFS{"data/day1.txt": {Data: []byte("x")}}

	tests := []struct {
		name     string
		template string
		program  string
	}{
		{"missing file", "", "day9"},
		{"template does not compile", `name +`, "day1"},
		{"template is not a string", `len(name)`, "day1"},
		{"empty file name", `""`, "day1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewDirSource(fsys, []string{"data"}, tt.template)

			_, err := src.Open(t.Context(), tt.program)
			if !errors.Is(err, ErrDataSource) {
				t.Fatalf("expected ErrDataSource, got %v", err)
			}
		})
	}
}

func TestDirSource_AbsoluteDir(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "day1.txt"), []byte("abs"), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(fstest.MapFS{}, []string{"data", dir}, "")

	rc, err := src.Open(t.Context(), "day1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "abs" {
		t.Errorf("data = %q, want abs", data)
	}
}

func TestDataPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	t.Setenv(DataPathEnv, "env1"+sep+"env2")

	got := DataPath("flag", "env1")

	for _, dir := range []string{"flag", "env1", "env2", DefaultDataDir} {
		if !slices.Contains(got, dir) {
			t.Errorf("DataPath() = %v, missing %q", got, dir)
		}
	}

	if got[0] != "flag" {
		t.Errorf("DataPath()[0] = %q, want flag", got[0])
	}

	ordered := DataPath("a", "b", "c")
	if want := []string{"a", "b", "c", "env1", "env2", DefaultDataDir}; !slices.Equal(ordered, want) {
		t.Errorf("DataPath(a, b, c) = %v, want %v", ordered, want)
	}

	seen := make(map[string]bool)
	for _, dir := range got {
		if seen[dir] {
			t.Errorf("DataPath() = %v, duplicate %q", got, dir)
		}

		seen[dir] = true
	}
}
