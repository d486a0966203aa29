package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

// terminal prints toasts to stderr and remembers the last route the session
// asked for.
type terminal struct {
	mu    sync.Mutex
	w     io.Writer
	route string
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: w}
}

func (t *terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, successStyle.Render("ok: "+msg))
}

func (t *terminal) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, failureStyle.Render("error: "+msg))
}

func (t *terminal) Navigate(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
}

func (t *terminal) Route() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}
