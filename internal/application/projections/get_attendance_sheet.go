package projections

import (
	"context"
	"time"

	"messhall/internal/domain/meal"
)

// GetAttendanceSheetDeps holds dependencies for the attendance sheet projection.
type GetAttendanceSheetDeps struct {
	AccountStore AccountStore
	MealStore    MealStore
}

// SheetRow is one student's meals for the sheet date.
type SheetRow struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	RollNo    string `json:"roll_no"`
	RoomNo    string `json:"room_no"`
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
}

// Has reports whether meal t is marked.
func (r SheetRow) Has(t meal.Type) bool {
	m := meal.Meal{Breakfast: r.Breakfast, Lunch: r.Lunch, Dinner: r.Dinner}
	return m.Has(t)
}

// AttendanceSheet lists every student and their meals for one date.
type AttendanceSheet struct {
	Date     string     `json:"date"`
	PrevDate string     `json:"prev_date"`
	NextDate string     `json:"next_date"`
	Rows     []SheetRow `json:"students"`
}

// QueryGetAttendanceSheet builds the sheet for date; an empty or invalid date means today.
// POST: every student appears exactly once; missing meal records read as all false
func QueryGetAttendanceSheet(ctx context.Context, date string, deps GetAttendanceSheetDeps, now time.Time) (AttendanceSheet, error) {
	date = meal.DateOrToday(date, now)
	day, _ := meal.ParseDate(date)

	students, err := listStudents(ctx, deps.AccountStore)
	if err != nil {
		return AttendanceSheet{}, err
	}
	meals, err := deps.MealStore.ListByDate(ctx, date)
	if err != nil {
		return AttendanceSheet{}, err
	}
	byStudent := make(map[string]meal.Meal, len(meals))
	for _, m := range meals {
		byStudent[m.StudentID] = m
	}

	sheet := AttendanceSheet{
		Date:     date,
		PrevDate: meal.FormatDate(day.AddDate(0, 0, -1)),
		NextDate: meal.FormatDate(day.AddDate(0, 0, 1)),
		Rows:     make([]SheetRow, 0, len(students)),
	}
	for _, s := range students {
		m := byStudent[s.ID]
		sheet.Rows = append(sheet.Rows, SheetRow{
			StudentID: s.ID,
			Name:      s.DisplayName(),
			RollNo:    s.RollNo,
			RoomNo:    s.RoomNo,
			Breakfast: m.Breakfast,
			Lunch:     m.Lunch,
			Dinner:    m.Dinner,
		})
	}
	return sheet, nil
}
