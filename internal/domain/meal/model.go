package meal

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for meal dates.
const DateLayout = "2006-01-02"

// Type identifies one of the daily meals.
type Type string

const (
	Breakfast Type = "breakfast"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
)

// Types lists the meals in serving order.
var Types = []Type{Breakfast, Lunch, Dinner}

// Action is the attendance transition requested for one meal.
type Action string

const (
	ActionMark   Action = "mark"
	ActionUnmark Action = "unmark"
)

// Domain errors
var (
	ErrInvalidType   = errors.New("meal type must be one of: breakfast, lunch, dinner")
	ErrInvalidAction = errors.New("action must be one of: mark, unmark")
	ErrEmptyStudent  = errors.New("meal record must be associated with a student")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
)

// ParseType converts a form value into a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Breakfast, Lunch, Dinner:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// ParseAction converts a form value into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionMark, ActionUnmark:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// ActionFor returns the token for a checkbox transitioning to checked.
func ActionFor(checked bool) Action {
	if checked {
		return ActionMark
	}
	return ActionUnmark
}

// Marks reports whether the action sets the meal as taken.
func (a Action) Marks() bool {
	return a == ActionMark
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DateOrToday returns s when it is a valid date, otherwise today's date.
func DateOrToday(s string, now time.Time) string {
	if _, err := ParseDate(s); err == nil {
		return s
	}
	return FormatDate(now)
}

// Meal holds one student's attendance for one day.
type Meal struct {
	ID        string
	StudentID string
	Date      string // YYYY-MM-DD
	Breakfast bool
	Lunch     bool
	Dinner    bool
}

// Validate checks if the Meal has valid data.
// INVARIANT: StudentID must not be empty, Date must be YYYY-MM-DD
func (m *Meal) Validate() error {
	if m.StudentID == "" {
		return ErrEmptyStudent
	}
	if _, err := ParseDate(m.Date); err != nil {
		return err
	}
	return nil
}

// Has reports whether meal t was taken.
func (m *Meal) Has(t Type) bool {
	switch t {
	case Breakfast:
		return m.Breakfast
	case Lunch:
		return m.Lunch
	case Dinner:
		return m.Dinner
	}
	return false
}

// Count returns the number of meals taken that day.
func (m *Meal) Count() int {
	n := 0
	for _, t := range Types {
		if m.Has(t) {
			n++
		}
	}
	return n
}
