package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Errorf("output %q does not mention %s", output, target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[musicbrainz]") {
		t.Errorf("sample config missing musicbrainz section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite failed: %v", err)
	}
}

func TestCountryCommand(t *testing.T) {
	output, err := runCommand(t, "country", "US")
	if err != nil {
		t.Fatalf("country command failed: %v", err)
	}
	if strings.TrimSpace(output) != "United States" {
		t.Errorf("country US = %q, want United States", output)
	}

	output, err = runCommand(t, "country", "zz-not-a-country")
	if err != nil {
		t.Fatalf("country command failed: %v", err)
	}
	if strings.TrimSpace(output) != "unknown" {
		t.Errorf("unresolved country = %q, want unknown", output)
	}
}
