package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers a message to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Relay forwards messages from request goroutines to the program so the
// board is only mutated on the UI loop. Messages sent before Attach are dropped.
type Relay struct {
	mu sync.RWMutex
	p  Sender
}

// Attach sets the program that receives relayed messages.
func (r *Relay) Attach(p Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

// Send relays msg. It must not be called from the UI loop.
func (r *Relay) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.p
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Alert implements toggle.Notifier.
func (r *Relay) Alert(message string) {
	r.Send(AlertMsg{Text: message})
}

// DateField is the board's date selector, read by the toggle controller at
// the moment of each change.
type DateField struct {
	mu sync.RWMutex
	v  string
}

// Date implements toggle.DateSelector.
func (d *DateField) Date() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.v
}

// Set replaces the selected date.
func (d *DateField) Set(date string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.v = date
}

// cell is the toggle.Control for one meal checkbox on one date.
type cell struct {
	relay     *Relay
	date      string
	studentID string
	mealType  string
	loaded    bool
}

// Checked reports the state the cell was loaded with.
func (c cell) Checked() bool { return c.loaded }

// SetChecked asks the board to redraw the cell; the board drops it if the
// cell was toggled again since generation gen.
func (c cell) SetChecked(checked bool, gen uint64) {
	c.relay.Send(RollbackMsg{Date: c.date, StudentID: c.studentID, MealType: c.mealType, Checked: checked, Generation: gen})
}

// navTarget records the last navigation made on the UI loop.
type navTarget struct{ target string }

func (n *navTarget) Navigate(target string) { n.target = target }

// linkTarget holds the current report download link.
type linkTarget struct{ href string }

func (l *linkTarget) SetHref(href string) { l.href = href }
