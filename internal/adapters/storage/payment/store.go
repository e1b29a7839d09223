package payment

import (
	"context"

	domain "messhall/internal/domain/payment"
)

// Store persists Payment state.
type Store interface {
	Save(ctx context.Context, value domain.Payment) error
	List(ctx context.Context) ([]domain.Payment, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error)
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]domain.Payment, error)
	SumByStudent(ctx context.Context, studentID, startDate, endDate string) (float64, error)
	SumAll(ctx context.Context) (float64, error)
	SumPerStudent(ctx context.Context) (map[string]float64, error)
}
