package projections

import "context"

// GetStudentListDeps holds dependencies for the admin student list.
type GetStudentListDeps struct {
	AccountStore AccountStore
	MealStore    MealStore
	PaymentStore PaymentStore
	MealCost     float64
}

// QueryGetStudentList returns every student with their current balance.
func QueryGetStudentList(ctx context.Context, deps GetStudentListDeps) ([]StudentBalance, error) {
	return studentBalances(ctx, deps.AccountStore, deps.MealStore, deps.PaymentStore, deps.MealCost)
}
