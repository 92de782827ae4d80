package main

import (
	"context"
	"errors"
	"testing"

	"kazuha/src/messages"
	"kazuha/src/singleinstance"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"kazuha", "-spotlight", "-prefs", "/tmp/p.toml"},
			out:  []string{"kazuha", "--spotlight", "--prefs", "/tmp/p.toml"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"kazuha", "-no-update-check=true", "-version-file=/tmp/v.json"},
			out:  []string{"kazuha", "--no-update-check=true", "--version-file=/tmp/v.json"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"kazuha", "--quit", "-x", "-prefsx"},
			out:  []string{"kazuha", "--quit", "-x", "-prefsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLegacyArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--no-update-check", "--prefs", "/tmp/p.toml", "--version-file", "/tmp/v.json"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if !opts.noUpdateCheck {
		t.Fatal("Expected noUpdateCheck=true")
	}
	if opts.prefsPath != "/tmp/p.toml" || opts.versionFile != "/tmp/v.json" {
		t.Fatalf("unexpected paths: %+v", *opts)
	}
	if _, ok := opts.delegated(); ok {
		t.Fatal("resident flags must not delegate")
	}
}

func TestDelegatedCommand(t *testing.T) {
	tests := []struct {
		opts mainOptions
		want singleinstance.Command
	}{
		{mainOptions{spotlight: true}, singleinstance.CommandSpotlight},
		{mainOptions{checkUpdates: true}, singleinstance.CommandCheck},
		{mainOptions{quit: true}, singleinstance.CommandQuit},
	}
	for _, tt := range tests {
		got, ok := tt.opts.delegated()
		if !ok || got != tt.want {
			t.Errorf("delegated(%+v) = %q, %v", tt.opts, got, ok)
		}
	}
}

func TestResidentMessage(t *testing.T) {
	tests := []struct {
		cmd  singleinstance.Command
		want messages.Message
	}{
		{singleinstance.CommandSpotlight, messages.ToggleSpotlight{}},
		{singleinstance.CommandCheck, messages.CheckUpdates{}},
		{singleinstance.CommandQuit, messages.Quit{}},
	}
	for _, tt := range tests {
		got, ok := residentMessage(tt.cmd)
		if !ok || got != tt.want {
			t.Errorf("residentMessage(%q) = %v, %v", tt.cmd, got, ok)
		}
	}
	if _, ok := residentMessage(singleinstance.Command("PING")); ok {
		t.Error("PING has no loop message")
	}
}

type fakeSender struct {
	delegated bool
	err       error
	got       singleinstance.Command
}

func (f *fakeSender) send(ctx context.Context, cmd singleinstance.Command) (bool, error) {
	f.got = cmd
	return f.delegated, f.err
}

func TestHandleDelegation_Delegated(t *testing.T) {
	s := &fakeSender{delegated: true}
	if err := handleDelegation(context.Background(), singleinstance.CommandSpotlight, s.send); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.got != singleinstance.CommandSpotlight {
		t.Fatalf("sent %q", s.got)
	}
}

func TestHandleDelegation_NoResident(t *testing.T) {
	s := &fakeSender{}
	if err := handleDelegation(context.Background(), singleinstance.CommandQuit, s.send); err == nil {
		t.Fatal("expected an error when nothing is running")
	}
}

func TestHandleDelegation_SendError(t *testing.T) {
	s := &fakeSender{delegated: true, err: errors.New("refused")}
	err := handleDelegation(context.Background(), singleinstance.CommandCheck, s.send)
	if err == nil || !errors.Is(err, s.err) {
		t.Fatalf("err = %v, want wrapped %v", err, s.err)
	}
}
