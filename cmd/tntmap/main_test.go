package main

import (
	"bytes"
	"encoding/base64"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMain(t *testing.T) {
	dir := t.TempDir()
	envelope := filepath.Join(dir, "envelope.b64")
	if err := os.WriteFile(envelope, []byte(base64.StdEncoding.EncodeToString(sampleBody(t))), 0o600); err != nil {
		t.Fatal(err)
	}
	badConfig := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badConfig, []byte("colour = \"blue\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
		want    []string
	}{
		{
			name: "envelope file",
			args: []string{"-in", envelope, "-shape", "single", "-log", "error"},
			want: []string{"Envelope (2 values)", "Result (single)"},
		},
		{
			name:  "piped stdin",
			args:  []string{"-log", "error"},
			stdin: base64.StdEncoding.EncodeToString(sampleBody(t)),
			want:  []string{"Envelope (2 values)", "Result (values)"},
		},
		{
			name:    "missing envelope file",
			args:    []string{"-in", filepath.Join(dir, "absent.b64")},
			wantErr: "absent.b64",
		},
		{
			name:    "unknown config key",
			args:    []string{"-config", badConfig},
			wantErr: "unknown key",
		},
		{
			name:    "bad shape flag",
			args:    []string{"-shape", "table"},
			wantErr: "table",
		},
		{
			name:    "unknown flag",
			args:    []string{"-verbose"},
			wantErr: "verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runMain(tt.args, strings.NewReader(tt.stdin), &out)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("runMain error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("runMain: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunMainMissingFileIsNotExist(t *testing.T) {
	err := runMain([]string{"-in", filepath.Join(t.TempDir(), "none")}, strings.NewReader(""), &bytes.Buffer{})
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("strings.Reader reported as terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "in")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("regular file reported as terminal")
	}
}
