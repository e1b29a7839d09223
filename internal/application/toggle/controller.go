// Package toggle applies attendance checkbox changes optimistically and
// rolls a control back when the server does not confirm the change.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"messhall/internal/adapters/attendanceapi"
	"messhall/internal/domain/meal"
)

// DefaultRequestTimeout bounds one update request.
const DefaultRequestTimeout = 10 * time.Second

// Alert texts shown to the user.
const (
	alertPrefix         = "Error updating attendance: "
	alertUnknownReason  = "Unknown error"
	alertTransportError = "Error updating attendance. Please check the log for details."
)

// Updater sends one attendance change to the server.
type Updater interface {
	UpdateAttendance(ctx context.Context, u attendanceapi.Update) error
}

// Notifier surfaces a user-visible alert.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

// DateSelector is the page-level date control. An empty value means today.
type DateSelector interface {
	Date() string
}

// DateFunc adapts a function to DateSelector.
type DateFunc func() string

func (f DateFunc) Date() string { return f() }

// Control is one attendance checkbox.
// SetChecked may be called from a request goroutine and may land late. gen is
// the handler generation the rollback belongs to; the control must drop it
// unless Handler.Current(gen) holds when the new state is drawn.
type Control interface {
	Checked() bool
	SetChecked(checked bool, gen uint64)
}

// Config wires a Controller. Only Updater is required.
type Config struct {
	Updater        Updater
	Notifier       Notifier
	Dates          DateSelector
	Now            func() time.Time
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// Controller owns the handlers bound to attendance controls.
type Controller struct {
	updater  Updater
	notifier Notifier
	dates    DateSelector
	now      func() time.Time
	logger   *slog.Logger
	timeout  time.Duration

	wg sync.WaitGroup
}

// New constructs a Controller, filling defaults for optional dependencies.
// PRE: cfg.Updater is non-nil
func New(cfg Config) *Controller {
	c := &Controller{
		updater:  cfg.Updater,
		notifier: cfg.Notifier,
		dates:    cfg.Dates,
		now:      cfg.Now,
		logger:   cfg.Logger,
		timeout:  cfg.RequestTimeout,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(string) {})
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultRequestTimeout
	}
	return c
}

// Wait blocks until no update request is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Bind attaches a handler to control. The control's current state is taken
// as confirmed by the server.
func (c *Controller) Bind(studentID, mealType string, control Control) *Handler {
	return &Handler{
		c:         c,
		studentID: studentID,
		mealType:  mealType,
		control:   control,
		confirmed: control.Checked(),
	}
}

// change is one desired state captured at interaction time.
type change struct {
	ctx     context.Context
	checked bool
	date    string
	gen     uint64
}

// Handler serializes the updates of one control.
// INVARIANT: at most one request per control is in flight; queued holds only
// the newest desired state; gen counts user changes.
type Handler struct {
	c         *Controller
	studentID string
	mealType  string
	control   Control

	mu        sync.Mutex
	confirmed bool
	inflight  bool
	queued    *change
	gen       uint64
}

// Confirmed returns the last state the server accepted.
func (h *Handler) Confirmed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.confirmed
}

// Current reports whether no user change happened after generation gen.
func (h *Handler) Current(gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen == gen
}

// Changed reports that the user set the control to checked. The host has
// already drawn the new state; the request runs in the background.
// POST: returns without waiting for the server
func (h *Handler) Changed(ctx context.Context, checked bool) {
	ch := &change{ctx: ctx, checked: checked, date: h.c.effectiveDate()}

	h.mu.Lock()
	h.gen++
	ch.gen = h.gen
	if h.inflight {
		h.queued = ch
		h.mu.Unlock()
		return
	}
	h.inflight = true
	h.mu.Unlock()

	h.c.wg.Add(1)
	go h.run(ch)
}

func (h *Handler) run(ch *change) {
	defer h.c.wg.Done()
	for ch != nil {
		u := attendanceapi.Update{
			StudentID: h.studentID,
			MealType:  h.mealType,
			Action:    string(meal.ActionFor(ch.checked)),
			Date:      ch.date,
		}
		err := h.send(ch.ctx, u)

		h.mu.Lock()
		if err == nil {
			h.confirmed = ch.checked
		}
		// A failure followed by a newer change is superseded: the control
		// already shows the newer state, which is sent or already confirmed.
		superseded := h.gen != ch.gen
		next := h.queued
		h.queued = nil
		if next != nil && next.checked == h.confirmed {
			next = nil
		}
		if next == nil {
			h.inflight = false
		}
		confirmed := h.confirmed
		h.mu.Unlock()

		if err != nil {
			h.fail(u, err, superseded, confirmed, ch.gen)
		}
		ch = next
	}
}

func (h *Handler) send(ctx context.Context, u attendanceapi.Update) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, h.c.timeout)
	defer cancel()
	return h.c.updater.UpdateAttendance(ctx, u)
}

func (h *Handler) fail(u attendanceapi.Update, err error, superseded, confirmed bool, gen uint64) {
	h.c.logger.Error("attendance_event",
		"event", "update_failed",
		"student_id", u.StudentID,
		"meal_type", u.MealType,
		"action", u.Action,
		"date", u.Date,
		"superseded", superseded,
		"error", err,
	)
	if superseded {
		return
	}
	h.control.SetChecked(confirmed, gen)
	if !h.Current(gen) {
		return
	}
	h.c.notifier.Alert(AlertMessage(err))
}

func (c *Controller) effectiveDate() string {
	if c.dates != nil {
		if d := c.dates.Date(); d != "" {
			return d
		}
	}
	return c.now().Format(meal.DateLayout)
}

// AlertMessage renders the user-visible text for a failed update.
func AlertMessage(err error) string {
	var appErr *attendanceapi.ApplicationError
	if errors.As(err, &appErr) {
		if appErr.Reason == "" {
			return alertPrefix + alertUnknownReason
		}
		return alertPrefix + appErr.Reason
	}
	return alertTransportError
}
