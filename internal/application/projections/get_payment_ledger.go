package projections

import (
	"context"

	"messhall/internal/domain/account"
)

// GetPaymentLedgerDeps holds dependencies for the admin payments page.
type GetPaymentLedgerDeps struct {
	AccountStore AccountStore
	PaymentStore PaymentStore
}

// LedgerRow is one payment with the payer's name.
type LedgerRow struct {
	ID          string
	Date        string
	StudentID   string
	StudentName string
	RollNo      string
	Amount      float64
	Status      string
}

// PaymentLedger lists all payments, newest first, plus the students who can pay.
type PaymentLedger struct {
	Payments []LedgerRow
	Students []account.Account
}

// QueryGetPaymentLedger builds the admin payments page.
func QueryGetPaymentLedger(ctx context.Context, deps GetPaymentLedgerDeps) (PaymentLedger, error) {
	students, err := listStudents(ctx, deps.AccountStore)
	if err != nil {
		return PaymentLedger{}, err
	}
	idx := studentIndex(students)
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return PaymentLedger{}, err
	}

	ledger := PaymentLedger{Students: students, Payments: make([]LedgerRow, 0, len(payments))}
	for _, p := range payments {
		s := idx[p.StudentID]
		ledger.Payments = append(ledger.Payments, LedgerRow{
			ID:          p.ID,
			Date:        p.Date,
			StudentID:   p.StudentID,
			StudentName: s.DisplayName(),
			RollNo:      s.RollNo,
			Amount:      p.Amount,
			Status:      p.Status,
		})
	}
	return ledger, nil
}
