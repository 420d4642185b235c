package cmd

import (
	"testing"
)

func TestLoggingFlagsExist(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "false")
	}

	flag = rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestInitLogging_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet takes precedence
	initLogging()
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"view":      false,
		"repo":      false,
		"review":    false,
		"workspace": false,
		"avatars":   false,
	}
	for _, sub := range rootCmd.Commands() {
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

func TestReviewSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range reviewCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"resume", "end", "end-all"} {
		if !names[name] {
			t.Errorf("review subcommand %q not registered", name)
		}
	}
}
