package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/assockit/internal/config"
)

// resetGlobals restores every flag to its default and points the CLI at a
// fresh snapshot file. It returns the snapshot path.
func resetGlobals(t *testing.T) string {
	t.Helper()
	scopeName = "user"
	regFile = filepath.Join(t.TempDir(), "snapshot.reg")
	configPath = ""
	logLevel = "warn"
	quiet = false
	jsonOut = false
	noColor = false
	cfg = &config.Config{}

	registerIcon = ""
	registerExe = ""
	registerSelf = false
	unregisterStrict = false
	associateStrict = false
	exportOutput = ""
	exportUTF16 = false
	return regFile
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
