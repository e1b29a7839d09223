package meal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"messhall/internal/adapters/storage"
	domain "messhall/internal/domain/meal"
)

const mealColumns = "id, student_id, date, breakfast, lunch, dinner"

// takenExpr counts the meals in one row.
const takenExpr = "(breakfast + lunch + dinner)"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MealStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByStudentAndDate retrieves the meal row for one student and day.
// POST: Returns an error wrapping sql.ErrNoRows when no meals were recorded that day
func (s *SQLiteStore) GetByStudentAndDate(ctx context.Context, studentID, date string) (domain.Meal, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+mealColumns+" FROM meal WHERE student_id = ? AND date = ?", studentID, date)
	entity, err := scanMeal(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Meal{}, fmt.Errorf("meal not found: %w", err)
	}
	return entity, err
}

// SetFlag sets one meal flag, creating the day's row if needed. Other flags
// on an existing row are left untouched, so concurrent toggles of different
// meals for the same student and day do not overwrite each other.
// PRE: t is a valid meal type
func (s *SQLiteStore) SetFlag(ctx context.Context, studentID, date string, t domain.Type, taken bool) error {
	row := domain.Meal{StudentID: studentID, Date: date}
	if err := row.Validate(); err != nil {
		return err
	}
	column, err := flagColumn(t)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		"INSERT INTO meal (id, student_id, date, %[1]s) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT(student_id, date) DO UPDATE SET %[1]s=excluded.%[1]s",
		column,
	)
	_, err = s.db.ExecContext(ctx, query, uuid.New().String(), studentID, date, boolToInt(taken))
	return err
}

// ListByDate returns every recorded meal row for a day.
func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	return s.list(ctx, "SELECT "+mealColumns+" FROM meal WHERE date = ? ORDER BY student_id", date)
}

// ListByDateRange returns meal rows in [startDate, endDate], ordered by date then student.
func (s *SQLiteStore) ListByDateRange(ctx context.Context, startDate, endDate string) ([]domain.Meal, error) {
	return s.list(ctx, "SELECT "+mealColumns+" FROM meal WHERE date BETWEEN ? AND ? ORDER BY date, student_id", startDate, endDate)
}

// ListByStudent returns a student's most recent meal rows, newest first.
// A non-positive limit returns all rows.
func (s *SQLiteStore) ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.Meal, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.list(ctx, "SELECT "+mealColumns+" FROM meal WHERE student_id = ? ORDER BY date DESC LIMIT ?", studentID, limit)
}

// ListByStudentAndDateRange returns a student's meal rows in range, oldest first.
func (s *SQLiteStore) ListByStudentAndDateRange(ctx context.Context, studentID, startDate, endDate string) ([]domain.Meal, error) {
	return s.list(ctx, "SELECT "+mealColumns+" FROM meal WHERE student_id = ? AND date BETWEEN ? AND ? ORDER BY date", studentID, startDate, endDate)
}

// CountTakenByStudent sums the meals a student took in range.
// Empty bounds are open-ended.
func (s *SQLiteStore) CountTakenByStudent(ctx context.Context, studentID, startDate, endDate string) (int, error) {
	if startDate == "" {
		startDate = "0000-01-01"
	}
	if endDate == "" {
		endDate = "9999-12-31"
	}
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT SUM("+takenExpr+") FROM meal WHERE student_id = ? AND date BETWEEN ? AND ?",
		studentID, startDate, endDate,
	).Scan(&total)
	return int(total.Int64), err
}

// CountTakenPerStudent returns all-time meals taken keyed by student id.
func (s *SQLiteStore) CountTakenPerStudent(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT student_id, SUM("+takenExpr+") FROM meal GROUP BY student_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Meal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Meal
	for rows.Next() {
		entity, err := scanMeal(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanMeal(scan func(dest ...any) error) (domain.Meal, error) {
	var entity domain.Meal
	var breakfast, lunch, dinner int
	if err := scan(&entity.ID, &entity.StudentID, &entity.Date, &breakfast, &lunch, &dinner); err != nil {
		return domain.Meal{}, err
	}
	entity.Breakfast = breakfast != 0
	entity.Lunch = lunch != 0
	entity.Dinner = dinner != 0
	return entity, nil
}

func flagColumn(t domain.Type) (string, error) {
	switch t {
	case domain.Breakfast, domain.Lunch, domain.Dinner:
		return string(t), nil
	}
	return "", domain.ErrInvalidType
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
