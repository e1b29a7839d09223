package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
)

// StudentLookup resolves an account by id.
type StudentLookup interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// MealStoreForMark defines the store interface needed by MarkMeal.
type MealStoreForMark interface {
	SetFlag(ctx context.Context, studentID, date string, t meal.Type, taken bool) error
}

// MarkMealInput carries the raw attendance update parameters.
type MarkMealInput struct {
	StudentID string
	MealType  string
	Action    string
	Date      string // optional; invalid or empty means today
}

// MarkMealResult describes the flag that was written.
type MarkMealResult struct {
	StudentID string
	Date      string
	MealType  meal.Type
	Taken     bool
}

// MarkMealDeps holds dependencies for MarkMeal.
type MarkMealDeps struct {
	AccountStore StudentLookup
	MealStore    MealStoreForMark
	Now          func() time.Time
}

var ErrMissingParameters = errors.New("missing parameters")

// ExecuteMarkMeal records or clears one meal for one student and day.
// PRE: none; all parameters are validated here
// POST: The day's meal record exists and only the requested flag changed
func ExecuteMarkMeal(ctx context.Context, input MarkMealInput, deps MarkMealDeps) (MarkMealResult, error) {
	if input.StudentID == "" || input.MealType == "" || input.Action == "" {
		return MarkMealResult{}, ErrMissingParameters
	}
	mealType, err := meal.ParseType(input.MealType)
	if err != nil {
		return MarkMealResult{}, err
	}
	action, err := meal.ParseAction(input.Action)
	if err != nil {
		return MarkMealResult{}, err
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	date := meal.DateOrToday(input.Date, now())

	if _, err := loadStudent(ctx, deps.AccountStore, input.StudentID); err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return MarkMealResult{}, ErrStudentNotFound
		}
		return MarkMealResult{}, err
	}

	if err := deps.MealStore.SetFlag(ctx, input.StudentID, date, mealType, action.Marks()); err != nil {
		return MarkMealResult{}, fmt.Errorf("set %s for %s on %s: %w", mealType, input.StudentID, date, err)
	}

	slog.Info("attendance_event", "event", string(action), "student_id", input.StudentID, "meal_type", mealType, "date", date)
	return MarkMealResult{
		StudentID: input.StudentID,
		Date:      date,
		MealType:  mealType,
		Taken:     action.Marks(),
	}, nil
}
