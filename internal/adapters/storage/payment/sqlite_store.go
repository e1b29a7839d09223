package payment

import (
	"context"
	"database/sql"

	"messhall/internal/adapters/storage"
	domain "messhall/internal/domain/payment"
)

const paymentColumns = "id, student_id, date, amount, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PaymentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a Payment (insert or update by id).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payment ("+paymentColumns+") VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET date=excluded.date, amount=excluded.amount, status=excluded.status",
		entity.ID, entity.StudentID, entity.Date, entity.Amount, entity.Status,
	)
	return err
}

// List returns every payment, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT "+paymentColumns+" FROM payment ORDER BY date DESC, id")
}

// ListByStudent returns a student's payments, newest first.
func (s *SQLiteStore) ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT "+paymentColumns+" FROM payment WHERE student_id = ? ORDER BY date DESC, id", studentID)
}

// ListByDateRange returns payments in [startDate, endDate], oldest first.
func (s *SQLiteStore) ListByDateRange(ctx context.Context, startDate, endDate string) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT "+paymentColumns+" FROM payment WHERE date BETWEEN ? AND ? ORDER BY date, id", startDate, endDate)
}

// SumByStudent totals a student's payments in range. Empty bounds are open-ended.
func (s *SQLiteStore) SumByStudent(ctx context.Context, studentID, startDate, endDate string) (float64, error) {
	if startDate == "" {
		startDate = "0000-01-01"
	}
	if endDate == "" {
		endDate = "9999-12-31"
	}
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT SUM(amount) FROM payment WHERE student_id = ? AND date BETWEEN ? AND ?",
		studentID, startDate, endDate,
	).Scan(&total)
	return total.Float64, err
}

// SumAll totals every payment ever recorded.
func (s *SQLiteStore) SumAll(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, "SELECT SUM(amount) FROM payment").Scan(&total)
	return total.Float64, err
}

// SumPerStudent returns all-time payment totals keyed by student id.
func (s *SQLiteStore) SumPerStudent(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT student_id, SUM(amount) FROM payment GROUP BY student_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var id string
		var total float64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		totals[id] = total
	}
	return totals, rows.Err()
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Date, &p.Amount, &p.Status); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
