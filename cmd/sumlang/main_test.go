package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "main.sl.yaml", "- print: {\"+\": [1, 2]}\n- exit: 5\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{prog}, strings.NewReader(""), &stdout, &stderr)
	if code != 5 {
		t.Errorf("exit code = %d, want 5 (stderr: %s)", code, stderr.String())
	}
	if stdout.String() != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "3\n")
	}
}

func TestRunStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("- print: 'piped'\n"), &stdout, &stderr)
	if code != 0 || stdout.String() != "piped\n" {
		t.Errorf("run() = %d, stdout %q, stderr %q", code, stdout.String(), stderr.String())
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "bad.sl.yaml", "- print: b\n- print: a\n")
	writeFile(t, dir, "sumlang.yaml", "color: never\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{prog}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("stderr = %q, want two diagnostics", stderr.String())
	}
	if !strings.Contains(lines[0], "'b'") || !strings.Contains(lines[1], "'a'") {
		t.Errorf("diagnostics are not in source order:\n%s", stderr.String())
	}
	if strings.Contains(stderr.String(), colorRed) {
		t.Error("color: never must not colour diagnostics")
	}
}

func TestRunConfigFlag(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "sep.sl.yaml", "- print: path_separator\n")
	cfg := writeFile(t, dir, "custom.yaml", "path_separator: '|'\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfg, prog}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}
	if stdout.String() != "|\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "|\n")
	}

	stderr.Reset()
	if code := run([]string{"-config", filepath.Join(dir, "missing.yaml"), prog}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("missing config exit code = %d, want 1", code)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		config  string
		file    string
		print   bool
		wantErr bool
	}{
		{args: []string{"p.sl.yaml"}, file: "p.sl.yaml"},
		{args: []string{"-config", "c.yaml", "p.sl.yaml"}, config: "c.yaml", file: "p.sl.yaml"},
		{args: []string{"--config=c.yaml"}, config: "c.yaml"},
		{args: []string{"-print", "p.sl.yaml"}, file: "p.sl.yaml", print: true},
		{args: []string{"-config"}, wantErr: true},
		{args: []string{"-x"}, wantErr: true},
		{args: []string{"a", "b"}, wantErr: true},
	}
	for _, tt := range tests {
		inv, err := parseArgs(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseArgs(%q) succeeded, want an error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseArgs(%q) error = %v", tt.args, err)
			continue
		}
		if inv.configPath != tt.config || inv.file != tt.file || inv.printOnly != tt.print {
			t.Errorf("parseArgs(%q) = %+v, want config %q file %q", tt.args, inv, tt.config, tt.file)
		}
	}
}

func TestRunPrint(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "p.sl.yaml", "- declare: {name: x, init: 1}\n- exit: x\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-print", prog}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}
	if want := "x := 1\nexit x\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}
