package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner shows progress for operations of unknown length, such as
// introspecting a remote database.
type Spinner struct {
	message string
	writer  io.Writer
	active  bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{message: message, writer: w}
}

// Start begins the animation. Without a terminal it prints the message
// once instead.
func (s *Spinner) Start() {
	if !EnableColors() {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.spin()
}

func (s *Spinner) spin() {
	defer s.wg.Done()
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := paint(styleProgress, spinnerFrames[s.current])
			msg := s.message
			s.current = (s.current + 1) % len(spinnerFrames)
			s.mu.Unlock()
			fmt.Fprintf(s.writer, "\r%s %s", frame, msg)
		}
	}
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	fmt.Fprintln(s.writer, Success("✓")+" "+message)
}

// StopWithError stops the spinner and prints a failure line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	fmt.Fprintln(s.writer, Error("✗")+" "+message)
}
