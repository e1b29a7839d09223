package orchestrators

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
	"messhall/internal/domain/payment"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// mockAccountStore is an in-memory account store keyed by id.
type mockAccountStore struct {
	accounts map[string]account.Account
	getErr   error
	saveErr  error
	saves    int
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range accts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	if m.getErr != nil {
		return account.Account{}, m.getErr
	}
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
	}
	return a, nil
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
}

func (m *mockAccountStore) GetByRollNo(_ context.Context, rollNo string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.RollNo != "" && a.RollNo == rollNo {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

// mockMealStore records SetFlag calls on top of a (student|date) map.
type mockMealStore struct {
	meals  map[string]meal.Meal
	setErr error
}

func newMockMealStore() *mockMealStore {
	return &mockMealStore{meals: make(map[string]meal.Meal)}
}

func (m *mockMealStore) SetFlag(_ context.Context, studentID, date string, t meal.Type, taken bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	key := studentID + "|" + date
	row := m.meals[key]
	row.StudentID, row.Date = studentID, date
	switch t {
	case meal.Breakfast:
		row.Breakfast = taken
	case meal.Lunch:
		row.Lunch = taken
	case meal.Dinner:
		row.Dinner = taken
	default:
		return meal.ErrInvalidType
	}
	m.meals[key] = row
	return nil
}

// mockPaymentStore collects saved payments.
type mockPaymentStore struct {
	saved []payment.Payment
}

func (m *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	m.saved = append(m.saved, p)
	return nil
}

// studentFixture returns a student with a known password.
func studentFixture(id, username, rollNo string) account.Account {
	a := account.Account{
		ID: id, Username: username, Role: account.RoleStudent, CreatedAt: testNow,
		Name: "Student " + id, RollNo: rollNo, RoomNo: "A1", Contact: "12345",
	}
	if err := a.SetPassword("correct-horse-battery"); err != nil {
		panic(err)
	}
	return a
}
