package main

import (
	"bytes"
	"strings"
	"testing"
)

// runChatScript seeds the demo data, feeds lines to the chat command and
// returns everything it printed.
func runChatScript(t *testing.T, cfgPath string, lines ...string) string {
	t.Helper()

	seed := newRootCmd()
	seed.SetOut(new(bytes.Buffer))
	seed.SetArgs([]string{"seed", "-c", cfgPath})
	if err := seed.Execute(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	cmd.SetArgs([]string{"chat", "-c", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("chat: %v", err)
	}
	return buf.String()
}

func TestChatCmd_ListVehicles(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runChatScript(t, cfgPath, "list all vehicles", "exit")
	if !strings.Contains(out, "KA-01-AB-1234") {
		t.Errorf("output = %s", out)
	}
}

// The confirmation gate holds across REPL turns within one session.
func TestChatCmd_ConfirmationFlow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runChatScript(t, cfgPath,
		"Remove the vehicle from the 'Bulk - 00:01' trip",
		"yes",
		"exit",
	)
	if !strings.Contains(out, "62% booked") {
		t.Fatalf("no consequence warning in output: %s", out)
	}
	if !strings.Contains(out, "removed from trip") {
		t.Errorf("no execution reply in output: %s", out)
	}
}

func TestChatCmd_EOFExits(t *testing.T) {
	cfgPath := writeTestConfig(t)

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"chat", "-c", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("chat should exit cleanly on EOF: %v", err)
	}
}
