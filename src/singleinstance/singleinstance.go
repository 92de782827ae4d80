// Package singleinstance keeps one resident assistant per session. The
// resident listens on a loopback port; later launches find it there and
// forward a command instead of starting a second overlay.
package singleinstance

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Command is a request forwarded from a later launch to the resident.
type Command string

const (
	CommandSpotlight Command = "SPOTLIGHT"
	CommandCheck     Command = "CHECK"
	CommandQuit      Command = "QUIT"
)

var knownCommands = []Command{CommandSpotlight, CommandCheck, CommandQuit}

// ParseCommand reads one protocol line.
func ParseCommand(line string) (Command, error) {
	c := Command(strings.ToUpper(strings.TrimSpace(line)))
	for _, k := range knownCommands {
		if c == k {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q", strings.TrimSpace(line))
}

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG KAZUHA\n"
	okResponse   = "OK\n"
	errResponse  = "ERROR "
)

// Ports are read from KAZUHA_PORT_START and KAZUHA_PORT_END (inclusive).
const (
	defaultPortStart = 49650
	defaultPortEnd   = 49660
)

func getPortRange() (int, int) {
	start := envPort("KAZUHA_PORT_START", defaultPortStart)
	end := envPort("KAZUHA_PORT_END", defaultPortEnd)
	if end < start {
		start, end = end, start
	}
	return start, end
}

// envPort clamps to the unprivileged range; unset or invalid means def.
func envPort(name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return def
	}
	return min(max(n, 1024), 65535)
}
