package projections

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
)

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	AccountStore AccountStore
	MealStore    MealStore
	PaymentStore PaymentStore
	MealCost     float64
}

// AdminDashboardResult carries the admin landing page figures.
type AdminDashboardResult struct {
	Date           string
	BreakfastCount int
	LunchCount     int
	DinnerCount    int
	TotalStudents  int
	TotalPayments  float64
	TotalDues      float64
}

// QueryGetAdminDashboard aggregates today's meal counts and money totals.
// The independent queries run concurrently.
func QueryGetAdminDashboard(ctx context.Context, deps GetAdminDashboardDeps, now time.Time) (AdminDashboardResult, error) {
	result := AdminDashboardResult{Date: meal.FormatDate(now)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		meals, err := deps.MealStore.ListByDate(gctx, result.Date)
		if err != nil {
			return err
		}
		for _, m := range meals {
			if m.Breakfast {
				result.BreakfastCount++
			}
			if m.Lunch {
				result.LunchCount++
			}
			if m.Dinner {
				result.DinnerCount++
			}
		}
		return nil
	})

	g.Go(func() error {
		total, err := deps.PaymentStore.SumAll(gctx)
		result.TotalPayments = total
		return err
	})

	g.Go(func() error {
		n, err := deps.AccountStore.CountByRole(gctx, account.RoleStudent)
		result.TotalStudents = n
		return err
	})

	g.Go(func() error {
		balances, err := studentBalances(gctx, deps.AccountStore, deps.MealStore, deps.PaymentStore, deps.MealCost)
		if err != nil {
			return err
		}
		for _, sb := range balances {
			result.TotalDues += sb.Balance.Outstanding()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return AdminDashboardResult{}, err
	}
	return result, nil
}

// StudentBalance pairs a student with their balance.
type StudentBalance struct {
	Student account.Account
	Balance Balance
}

// studentBalances computes every student's all-time balance, ordered by name.
func studentBalances(ctx context.Context, accounts AccountStore, meals MealStore, payments PaymentStore, mealCost float64) ([]StudentBalance, error) {
	students, err := listStudents(ctx, accounts)
	if err != nil {
		return nil, err
	}
	taken, err := meals.CountTakenPerStudent(ctx)
	if err != nil {
		return nil, err
	}
	paid, err := payments.SumPerStudent(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StudentBalance, 0, len(students))
	for _, s := range students {
		out = append(out, StudentBalance{Student: s, Balance: NewBalance(taken[s.ID], paid[s.ID], mealCost)})
	}
	return out, nil
}
