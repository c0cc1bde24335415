package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvRulesFile, "/tmp/rules.json")
	t.Setenv(EnvDB, "/tmp/txi.db")
	t.Setenv(EnvVerbose, "true")

	if got := RulesFile(); got != "/tmp/rules.json" {
		t.Errorf("RulesFile() = %q", got)
	}
	if got := DBFile(); got != "/tmp/txi.db" {
		t.Errorf("DBFile() = %q", got)
	}
	if !IsVerbose() {
		t.Errorf("IsVerbose() = false, want true")
	}

	*dbFile = "/flag/txi.db"
	defer func() { *dbFile = "" }()
	if got := DBFile(); got != "/flag/txi.db" {
		t.Errorf("DBFile() = %q, want the flag value", got)
	}
}

func TestExtensionMechanism(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension test uses a shell script")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	script := "#!/bin/sh\necho \"$1 $" + EnvDB + " $" + EnvVerbose + "\" > " + out + "\nexit 3\n"
	if err := os.WriteFile(filepath.Join(dir, "txi-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv(EnvDB, "/tmp/ext.db")
	t.Setenv(EnvVerbose, "")

	found, code := RunExtension("hello", []string{"world"})
	if !found || code != 3 {
		t.Fatalf("RunExtension() = %v, %d, want true, 3", found, code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "world /tmp/ext.db false"; strings.TrimSpace(string(got)) != want {
		t.Errorf("extension saw %q, want %q", got, want)
	}

	if found, _ := RunExtension("no-such-extension", nil); found {
		t.Errorf("RunExtension(missing) found something")
	}
}
