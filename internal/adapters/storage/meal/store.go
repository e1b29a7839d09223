package meal

import (
	"context"

	domain "messhall/internal/domain/meal"
)

// Store persists Meal state.
type Store interface {
	GetByStudentAndDate(ctx context.Context, studentID, date string) (domain.Meal, error)
	SetFlag(ctx context.Context, studentID, date string, t domain.Type, taken bool) error
	ListByDate(ctx context.Context, date string) ([]domain.Meal, error)
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]domain.Meal, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.Meal, error)
	ListByStudentAndDateRange(ctx context.Context, studentID, startDate, endDate string) ([]domain.Meal, error)
	CountTakenByStudent(ctx context.Context, studentID, startDate, endDate string) (int, error)
	CountTakenPerStudent(ctx context.Context) (map[string]int, error)
}
