package projections

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	accountStore "messhall/internal/adapters/storage/account"
	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
	"messhall/internal/domain/payment"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memStore implements AccountStore, MealStore and PaymentStore over slices.
type memStore struct {
	accounts []account.Account
	meals    []meal.Meal
	payments []payment.Payment
	failWith error
}

func (m *memStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
}

func (m *memStore) List(_ context.Context, filter accountStore.ListFilter) ([]account.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []account.Account
	for _, a := range m.accounts {
		if filter.Role == "" || a.Role == filter.Role {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CountByRole(ctx context.Context, role string) (int, error) {
	list, err := m.List(ctx, accountStore.ListFilter{Role: role})
	return len(list), err
}

func (m *memStore) GetByStudentAndDate(_ context.Context, studentID, date string) (meal.Meal, error) {
	for _, ml := range m.meals {
		if ml.StudentID == studentID && ml.Date == date {
			return ml, nil
		}
	}
	return meal.Meal{}, fmt.Errorf("meal not found: %w", sql.ErrNoRows)
}

func (m *memStore) ListByDate(ctx context.Context, date string) ([]meal.Meal, error) {
	return m.ListByDateRange(ctx, date, date)
}

func (m *memStore) ListByDateRange(_ context.Context, start, end string) ([]meal.Meal, error) {
	var out []meal.Meal
	for _, ml := range m.meals {
		if ml.Date >= start && ml.Date <= end {
			out = append(out, ml)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}

func (m *memStore) ListByStudent(_ context.Context, studentID string, limit int) ([]meal.Meal, error) {
	var out []meal.Meal
	for _, ml := range m.meals {
		if ml.StudentID == studentID {
			out = append(out, ml)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListByStudentAndDateRange(ctx context.Context, studentID, start, end string) ([]meal.Meal, error) {
	all, _ := m.ListByDateRange(ctx, start, end)
	var out []meal.Meal
	for _, ml := range all {
		if ml.StudentID == studentID {
			out = append(out, ml)
		}
	}
	return out, nil
}

func (m *memStore) CountTakenByStudent(_ context.Context, studentID, start, end string) (int, error) {
	n := 0
	for _, ml := range m.meals {
		if ml.StudentID == studentID && (start == "" || ml.Date >= start) && (end == "" || ml.Date <= end) {
			n += ml.Count()
		}
	}
	return n, nil
}

func (m *memStore) CountTakenPerStudent(_ context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, ml := range m.meals {
		out[ml.StudentID] += ml.Count()
	}
	return out, nil
}

func (m *memStore) paymentsOf(studentID string) []payment.Payment {
	var out []payment.Payment
	for _, p := range m.payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out
}

// paymentView adapts memStore to PaymentStore; the method set overlaps with
// MealStore on ListByStudent and ListByDateRange.
type paymentView struct{ m *memStore }

func (v paymentView) List(_ context.Context) ([]payment.Payment, error) {
	out := append([]payment.Payment(nil), v.m.payments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (v paymentView) ListByStudent(_ context.Context, studentID string) ([]payment.Payment, error) {
	return v.m.paymentsOf(studentID), nil
}

func (v paymentView) ListByDateRange(_ context.Context, start, end string) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range v.m.payments {
		if p.Date >= start && p.Date <= end {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (v paymentView) SumByStudent(_ context.Context, studentID, start, end string) (float64, error) {
	total := 0.0
	for _, p := range v.m.payments {
		if p.StudentID == studentID && (start == "" || p.Date >= start) && (end == "" || p.Date <= end) {
			total += p.Amount
		}
	}
	return total, nil
}

func (v paymentView) SumAll(_ context.Context) (float64, error) {
	total := 0.0
	for _, p := range v.m.payments {
		total += p.Amount
	}
	return total, nil
}

func (v paymentView) SumPerStudent(_ context.Context) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, p := range v.m.payments {
		out[p.StudentID] += p.Amount
	}
	return out, nil
}

// fixture: three students, an admin, meals around 1 March 2024 and payments.
//
//	asha:  4 meals taken, paid 100  -> due 200 at cost 50, balance -100
//	bala:  2 meals taken, paid 500  -> due 100, balance +400
//	chitra: 1 meal taken, paid 0    -> due 50, balance -50
func newFixture() *memStore {
	return &memStore{
		accounts: []account.Account{
			{ID: "a1", Username: "admin", Role: account.RoleAdmin},
			{ID: "s1", Username: "asha", Name: "Asha", RollNo: "R1", RoomNo: "B1", Role: account.RoleStudent},
			{ID: "s2", Username: "bala", Name: "Bala", RollNo: "R2", RoomNo: "B2", Role: account.RoleStudent},
			{ID: "s3", Username: "chitra", Name: "Chitra", RollNo: "R3", RoomNo: "B3", Role: account.RoleStudent},
		},
		meals: []meal.Meal{
			{StudentID: "s1", Date: "2024-02-28", Breakfast: true, Lunch: true, Dinner: true},
			{StudentID: "s1", Date: "2024-03-01", Lunch: true},
			{StudentID: "s2", Date: "2024-03-01", Breakfast: true, Dinner: true},
			{StudentID: "s3", Date: "2024-01-15", Dinner: true},
		},
		payments: []payment.Payment{
			{ID: "p1", StudentID: "s1", Date: "2024-01-20", Amount: 100, Status: payment.StatusPaid},
			{ID: "p2", StudentID: "s2", Date: "2024-02-10", Amount: 300, Status: payment.StatusPaid},
			{ID: "p3", StudentID: "s2", Date: "2024-02-25", Amount: 200, Status: payment.StatusPaid},
		},
	}
}
