package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// Server is the resident side: it owns the first port of the range and
// hands accepted commands to the caller.
type Server struct {
	lis       net.Listener
	commands  chan Command
	port      int
	closeOnce sync.Once
	closeErr  error
}

func NewServer() *Server { return &Server{commands: make(chan Command, 8)} }

// Start binds only the first port of the range. A bind failure means
// another resident owns it.
func (s *Server) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx, lis)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *Server) Port() int { return s.port }

// Commands delivers forwarded commands. It is closed when the accept
// loop stops.
func (s *Server) Commands() <-chan Command { return s.commands }

func (s *Server) acceptLoop(ctx context.Context, lis net.Listener) {
	defer close(s.commands)
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		cmd, ok := s.serve(c)
		if !ok {
			continue
		}
		select {
		case s.commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) serve(c net.Conn) (Command, bool) {
	defer c.Close()
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return "", false
	}
	if line == pingRequest {
		_, _ = c.Write([]byte(pongResponse))
		return "", false
	}
	cmd, err := ParseCommand(line)
	if err != nil {
		log.Printf("singleinstance: %s from %s", err, remote)
		_, _ = c.Write([]byte(errResponse + err.Error() + "\n"))
		return "", false
	}
	log.Printf("singleinstance: %s from %s", cmd, remote)
	_, _ = c.Write([]byte(okResponse))
	return cmd, true
}

// Close stops accepting; the accept loop then closes Commands. It is safe
// to call more than once and before Start.
func (s *Server) Close() error {
	if s.lis == nil {
		return nil
	}
	s.closeOnce.Do(func() { s.closeErr = s.lis.Close() })
	return s.closeErr
}
