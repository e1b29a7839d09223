package projections

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"messhall/internal/domain/meal"
	"messhall/internal/domain/payment"
)

// RecentMealsLimit is the number of meal rows on the student dashboard.
const RecentMealsLimit = 10

// StudentAttendanceLookbackDays is the default span of the student attendance page.
const StudentAttendanceLookbackDays = 30

// GetStudentViewDeps holds dependencies for the student-facing projections.
type GetStudentViewDeps struct {
	MealStore    MealStore
	PaymentStore PaymentStore
	MealCost     float64
}

// StudentDashboardResult carries the student landing page.
type StudentDashboardResult struct {
	Today       meal.Meal
	Balance     Balance
	RecentMeals []meal.Meal
}

// QueryGetStudentDashboard returns today's meals, the balance and recent history.
func QueryGetStudentDashboard(ctx context.Context, studentID string, deps GetStudentViewDeps, now time.Time) (StudentDashboardResult, error) {
	today := meal.FormatDate(now)
	todayMeal, err := deps.MealStore.GetByStudentAndDate(ctx, studentID, today)
	if err != nil && !isNotFound(err) {
		return StudentDashboardResult{}, err
	}
	if todayMeal.StudentID == "" {
		todayMeal = meal.Meal{StudentID: studentID, Date: today}
	}

	balance, err := QueryGetStudentBalance(ctx, studentID, deps, now)
	if err != nil {
		return StudentDashboardResult{}, err
	}
	recent, err := deps.MealStore.ListByStudent(ctx, studentID, RecentMealsLimit)
	if err != nil {
		return StudentDashboardResult{}, err
	}
	return StudentDashboardResult{Today: todayMeal, Balance: balance, RecentMeals: recent}, nil
}

// QueryGetStudentBalance computes a student's balance up to and including
// today. Meals and payments dated in the future are not counted yet.
func QueryGetStudentBalance(ctx context.Context, studentID string, deps GetStudentViewDeps, now time.Time) (Balance, error) {
	today := meal.FormatDate(now)
	taken, err := deps.MealStore.CountTakenByStudent(ctx, studentID, "", today)
	if err != nil {
		return Balance{}, err
	}
	paid, err := deps.PaymentStore.SumByStudent(ctx, studentID, "", today)
	if err != nil {
		return Balance{}, err
	}
	return NewBalance(taken, paid, deps.MealCost), nil
}

// StudentAttendanceQuery selects a student's meal history range.
type StudentAttendanceQuery struct {
	StudentID string
	StartDate string
	EndDate   string
}

// StudentAttendanceResult carries a student's meals in range.
type StudentAttendanceResult struct {
	StartDate  string
	EndDate    string
	Meals      []meal.Meal
	MealsTaken int
}

// QueryGetStudentAttendance lists the student's meals in range. Missing or
// invalid bounds default to the last 30 days ending today.
func QueryGetStudentAttendance(ctx context.Context, query StudentAttendanceQuery, deps GetStudentViewDeps, now time.Time) (StudentAttendanceResult, error) {
	start := query.StartDate
	if _, err := meal.ParseDate(start); err != nil {
		start = meal.FormatDate(now.AddDate(0, 0, -StudentAttendanceLookbackDays))
	}
	end := meal.DateOrToday(query.EndDate, now)

	meals, err := deps.MealStore.ListByStudentAndDateRange(ctx, query.StudentID, start, end)
	if err != nil {
		return StudentAttendanceResult{}, err
	}
	result := StudentAttendanceResult{StartDate: start, EndDate: end, Meals: meals}
	for _, m := range meals {
		result.MealsTaken += m.Count()
	}
	return result, nil
}

// QueryGetStudentPayments lists a student's payments, newest first.
func QueryGetStudentPayments(ctx context.Context, studentID string, deps GetStudentViewDeps) ([]payment.Payment, error) {
	return deps.PaymentStore.ListByStudent(ctx, studentID)
}

// isNotFound reports whether err means no row exists.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
