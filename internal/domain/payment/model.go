package payment

import (
	"errors"
	"time"
)

// Status constants
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Domain errors
var (
	ErrEmptyStudent  = errors.New("payment must be associated with a student")
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")
	ErrInvalidStatus = errors.New("status must be one of: pending, paid")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
)

// Payment is money received from a student towards meal dues.
type Payment struct {
	ID        string
	StudentID string
	Date      string // YYYY-MM-DD
	Amount    float64
	Status    string
}

// Validate checks if the Payment has valid data.
// INVARIANT: Amount > 0, Status is pending or paid
func (p *Payment) Validate() error {
	if p.StudentID == "" {
		return ErrEmptyStudent
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.Status != StatusPending && p.Status != StatusPaid {
		return ErrInvalidStatus
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the YYYY-MM bucket of the payment date.
// PRE: Date has been validated
func (p *Payment) Month() string {
	if len(p.Date) < 7 {
		return ""
	}
	return p.Date[:7]
}
