package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte("max_call_depth: 20\ncolor: never\nbuiltins: false\npath_separator: ':'\n"), "test.yaml")
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	if opts.MaxCallDepth != 20 || opts.Color != ColorNever || opts.PathSeparator != ":" {
		t.Errorf("ParseOptions() = %+v", opts)
	}
	if opts.BuiltinsEnabled() {
		t.Error("builtins: false must disable builtins")
	}
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions([]byte("{}"), "empty.yaml")
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	if opts.MaxCallDepth != DefaultMaxCallDepth || opts.Color != ColorAuto || !opts.BuiltinsEnabled() {
		t.Errorf("defaults = %+v", opts)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"max_call_depth: -1", "must not be negative"},
		{"color: pink", "color must be one of"},
		{"max_call_depth: [", "parsing options"},
	}
	for _, tt := range tests {
		_, err := ParseOptions([]byte(tt.input), "bad.yaml")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseOptions(%q) error = %v, want it to mention %q", tt.input, err, tt.want)
		}
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sumlang.yaml")
	if err := os.WriteFile(path, []byte("max_call_depth: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if opts.MaxCallDepth != 7 {
		t.Errorf("MaxCallDepth = %d, want 7", opts.MaxCallDepth)
	}
	if _, err := LoadOptions(path + ".missing"); err == nil {
		t.Error("LoadOptions() of a missing file succeeded")
	}
}
