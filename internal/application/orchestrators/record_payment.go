package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"messhall/internal/domain/meal"
	"messhall/internal/domain/payment"
)

// PaymentStoreForRecord defines the store interface needed by RecordPayment.
type PaymentStoreForRecord interface {
	Save(ctx context.Context, p payment.Payment) error
}

// RecordPaymentInput carries a payment taken at the mess office.
type RecordPaymentInput struct {
	StudentID string
	Amount    float64
	Date      string // optional; invalid or empty means today
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	AccountStore StudentLookup
	PaymentStore PaymentStoreForRecord
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRecordPayment stores a paid payment for a student.
// PRE: StudentID refers to a student, Amount > 0
// POST: Payment persisted with status paid
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (payment.Payment, error) {
	if _, err := loadStudent(ctx, deps.AccountStore, input.StudentID); err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return payment.Payment{}, ErrStudentNotFound
		}
		return payment.Payment{}, err
	}
	generateID := deps.GenerateID
	if generateID == nil {
		generateID = func() string { return uuid.New().String() }
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	p := payment.Payment{
		ID:        generateID(),
		StudentID: input.StudentID,
		Date:      meal.DateOrToday(input.Date, now()),
		Amount:    input.Amount,
		Status:    payment.StatusPaid,
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	slog.Info("payment_event", "event", "recorded", "payment_id", p.ID, "student_id", p.StudentID, "amount", p.Amount)
	return p, nil
}
