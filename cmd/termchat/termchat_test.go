package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmdSubcommands(t *testing.T) {
	cmd := newRootCmd()

	want := map[string]bool{"version": false, "chat": false, "serve": false, "mcp": false, "config": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	Version = "1.2.3"
	defer func() { Version = "0.0.0" }()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "termchat version: 1.2.3") {
		t.Errorf("Unexpected version output %q", out.String())
	}
}
