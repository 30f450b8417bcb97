// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned Cmds are run with a short timeout.
// Timer Cmds such as tea.Tick block longer than the timeout and are
// dropped, so tests deliver tick messages themselves with Send.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// cmdTimeout separates message factories, which return at once, from
// timer Cmds, which block for their interval.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a model of concrete type M.
type Driver[M tea.Model] struct {
	t     *testing.T
	model M

	// Quitting is set once tea.Quit has been returned.
	Quitting bool
}

// New wraps model. Call Init to process the model's Init command.
func New[M tea.Model](t *testing.T, model M) *Driver[M] {
	t.Helper()
	return &Driver[M]{t: t, model: model}
}

// Init runs the model's Init command and drains what it produces.
func (d *Driver[M]) Init() *Driver[M] {
	d.t.Helper()
	d.drain(d.model.Init(), 0)
	return d
}

// Resize sends a WindowSizeMsg.
func (d *Driver[M]) Resize(w, h int) *Driver[M] {
	d.t.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
	return d
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver[M]) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.update(msg), 0)
}

// Press sends a key by its bubbletea name: a single rune such as "q", or
// a named key such as "esc" or "ctrl+c".
func (d *Driver[M]) Press(name string) {
	d.t.Helper()
	d.Send(keyMsg(name))
}

// Model returns the current model.
func (d *Driver[M]) Model() M {
	return d.model
}

// View renders the current model.
func (d *Driver[M]) View() string {
	return d.model.View()
}

func (d *Driver[M]) update(msg tea.Msg) tea.Cmd {
	next, cmd := d.model.Update(msg)
	m, ok := next.(M)
	if !ok {
		d.t.Fatalf("teatest: Update returned %T, want %T", next, d.model)
	}
	d.model = m
	return cmd
}

func (d *Driver[M]) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.t.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		d.drain(d.update(msg), depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
