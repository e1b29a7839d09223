package projections

import (
	"context"

	accountStore "messhall/internal/adapters/storage/account"
	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
	"messhall/internal/domain/payment"
)

// AccountStore interface for account queries.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	List(ctx context.Context, filter accountStore.ListFilter) ([]account.Account, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// MealStore interface for meal queries.
type MealStore interface {
	GetByStudentAndDate(ctx context.Context, studentID, date string) (meal.Meal, error)
	ListByDate(ctx context.Context, date string) ([]meal.Meal, error)
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]meal.Meal, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]meal.Meal, error)
	ListByStudentAndDateRange(ctx context.Context, studentID, startDate, endDate string) ([]meal.Meal, error)
	CountTakenByStudent(ctx context.Context, studentID, startDate, endDate string) (int, error)
	CountTakenPerStudent(ctx context.Context) (map[string]int, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	List(ctx context.Context) ([]payment.Payment, error)
	ListByStudent(ctx context.Context, studentID string) ([]payment.Payment, error)
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]payment.Payment, error)
	SumByStudent(ctx context.Context, studentID, startDate, endDate string) (float64, error)
	SumAll(ctx context.Context) (float64, error)
	SumPerStudent(ctx context.Context) (map[string]float64, error)
}

// listStudents returns every student account ordered by name.
func listStudents(ctx context.Context, store AccountStore) ([]account.Account, error) {
	return store.List(ctx, accountStore.ListFilter{Role: account.RoleStudent})
}

// studentIndex maps student id to account.
func studentIndex(students []account.Account) map[string]account.Account {
	idx := make(map[string]account.Account, len(students))
	for _, s := range students {
		idx[s.ID] = s
	}
	return idx
}
