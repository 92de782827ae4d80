package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// DetectResidentPort scans the port range and returns (port, true) if a
// resident answers PING.
func DetectResidentPort(ctx context.Context) (int, bool) {
	timeout := deadline(ctx, 300*time.Millisecond)
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ping(addrFor(port), timeout) {
			return port, true
		}
	}
	return 0, false
}

// Send forwards cmd to a resident. It reports delegated=false with a nil
// error when no resident is running.
func Send(ctx context.Context, cmd Command) (bool, error) {
	port, ok := DetectResidentPort(ctx)
	if !ok {
		return false, nil
	}
	timeout := deadline(ctx, 2*time.Second)
	conn, err := net.DialTimeout("tcp", addrFor(port), timeout)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(string(cmd) + "\n")); err != nil {
		return true, err
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return true, err
	}
	if resp == okResponse {
		return true, nil
	}
	return true, errors.New(strings.TrimSpace(strings.TrimPrefix(resp, errResponse)))
}

func addrFor(port int) string { return net.JoinHostPort(residentHost, strconv.Itoa(port)) }

func deadline(ctx context.Context, fallback time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return fallback
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(pingRequest)); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
