package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig creates a config pointing at a temp sqlite file with the
// mock classifier, and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conductor.yaml")
	content := fmt.Sprintf(`db:
  driver: sqlite
  path: %s
llm:
  provider: mock
`, filepath.Join(dir, "test.db"))
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestMigrateCmd(t *testing.T) {
	cfgPath := writeTestConfig(t)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"migrate", "-c", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Migrated") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestMigrateCmd_BadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "-c", "/nonexistent/conductor.yaml"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestSeedCmd_Idempotent(t *testing.T) {
	cfgPath := writeTestConfig(t)

	for i := 0; i < 2; i++ {
		cmd := newRootCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"seed", "-c", cfgPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("seed run %d failed: %v", i+1, err)
		}
		if !strings.Contains(buf.String(), "Demo dataset ready.") {
			t.Errorf("run %d output = %s", i+1, buf.String())
		}
	}
}
