package projections

import (
	"context"
	"sort"
	"time"

	"messhall/internal/domain/report"
)

// GetReportDeps holds dependencies for the report projection.
type GetReportDeps struct {
	AccountStore AccountStore
	MealStore    MealStore
	PaymentStore PaymentStore
	MealCost     float64
}

// AttendanceReportRow is one meal record in the attendance report.
type AttendanceReportRow struct {
	Date        string
	StudentName string
	RollNo      string
	Breakfast   bool
	Lunch       bool
	Dinner      bool
	Total       int
}

// DefaulterRow is a student whose balance is negative.
type DefaulterRow struct {
	StudentName string
	RollNo      string
	TotalPaid   float64
	TotalDue    float64
	Balance     float64
}

// CollectionRow is the money collected in one month.
type CollectionRow struct {
	Month string // e.g. "January 2024"
	Total float64
}

// PaymentReportRow is one payment in the payments report.
type PaymentReportRow struct {
	Date        string
	StudentName string
	RollNo      string
	Amount      float64
	Status      string
}

// Report is the result of one report query. Only the slice matching
// Filter.Type is populated.
type Report struct {
	Filter      report.Filter
	Attendance  []AttendanceReportRow
	Defaulters  []DefaulterRow
	Collections []CollectionRow
	Payments    []PaymentReportRow
}

// QueryGetReport runs the report selected by filter. Empty filter fields
// take their defaults relative to now.
// PRE: none
// POST: returns report.ErrInvalidType, ErrInvalidDate or ErrInvertedSpan for bad filters
func QueryGetReport(ctx context.Context, filter report.Filter, deps GetReportDeps, now time.Time) (Report, error) {
	filter = filter.WithDefaults(now)
	if err := filter.Validate(); err != nil {
		return Report{}, err
	}
	out := Report{Filter: filter}

	switch filter.Type {
	case report.TypeAttendance:
		rows, err := attendanceReport(ctx, filter, deps)
		if err != nil {
			return Report{}, err
		}
		out.Attendance = rows
	case report.TypeDefaulters:
		balances, err := studentBalances(ctx, deps.AccountStore, deps.MealStore, deps.PaymentStore, deps.MealCost)
		if err != nil {
			return Report{}, err
		}
		for _, sb := range balances {
			if !sb.Balance.IsDefaulter() {
				continue
			}
			out.Defaulters = append(out.Defaulters, DefaulterRow{
				StudentName: sb.Student.DisplayName(),
				RollNo:      sb.Student.RollNo,
				TotalPaid:   sb.Balance.Paid,
				TotalDue:    sb.Balance.Due,
				Balance:     sb.Balance.Balance,
			})
		}
	case report.TypeCollections:
		payments, err := deps.PaymentStore.ListByDateRange(ctx, filter.StartDate, filter.EndDate)
		if err != nil {
			return Report{}, err
		}
		totals := make(map[string]float64)
		for _, p := range payments {
			totals[p.Month()] += p.Amount
		}
		months := make([]string, 0, len(totals))
		for m := range totals {
			months = append(months, m)
		}
		sort.Strings(months)
		for _, m := range months {
			out.Collections = append(out.Collections, CollectionRow{Month: report.MonthLabel(m), Total: totals[m]})
		}
	case report.TypePayments:
		rows, err := paymentsReport(ctx, filter, deps)
		if err != nil {
			return Report{}, err
		}
		out.Payments = rows
	}
	return out, nil
}

func attendanceReport(ctx context.Context, filter report.Filter, deps GetReportDeps) ([]AttendanceReportRow, error) {
	students, err := listStudents(ctx, deps.AccountStore)
	if err != nil {
		return nil, err
	}
	idx := studentIndex(students)
	meals, err := deps.MealStore.ListByDateRange(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	rows := make([]AttendanceReportRow, 0, len(meals))
	for _, m := range meals {
		s := idx[m.StudentID]
		rows = append(rows, AttendanceReportRow{
			Date:        m.Date,
			StudentName: s.DisplayName(),
			RollNo:      s.RollNo,
			Breakfast:   m.Breakfast,
			Lunch:       m.Lunch,
			Dinner:      m.Dinner,
			Total:       m.Count(),
		})
	}
	return rows, nil
}

func paymentsReport(ctx context.Context, filter report.Filter, deps GetReportDeps) ([]PaymentReportRow, error) {
	students, err := listStudents(ctx, deps.AccountStore)
	if err != nil {
		return nil, err
	}
	idx := studentIndex(students)
	payments, err := deps.PaymentStore.ListByDateRange(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	rows := make([]PaymentReportRow, 0, len(payments))
	for _, p := range payments {
		s := idx[p.StudentID]
		rows = append(rows, PaymentReportRow{
			Date:        p.Date,
			StudentName: s.DisplayName(),
			RollNo:      s.RollNo,
			Amount:      p.Amount,
			Status:      p.Status,
		})
	}
	return rows, nil
}

// CSVRecords renders the report as CSV rows, header first. Amounts carry
// the currency symbol.
func (r Report) CSVRecords(currency string) [][]string {
	money := func(v float64) string { return report.FormatMoney(currency, v) }
	var records [][]string

	switch r.Filter.Type {
	case report.TypeAttendance:
		records = append(records, []string{"Date", "Student Name", "Roll No", "Breakfast", "Lunch", "Dinner"})
		for _, row := range r.Attendance {
			records = append(records, []string{
				row.Date, row.StudentName, row.RollNo,
				report.YesNo(row.Breakfast), report.YesNo(row.Lunch), report.YesNo(row.Dinner),
			})
		}
	case report.TypeDefaulters:
		records = append(records, []string{"Student Name", "Roll No", "Total Paid", "Total Dues", "Balance"})
		for _, row := range r.Defaulters {
			records = append(records, []string{row.StudentName, row.RollNo, money(row.TotalPaid), money(row.TotalDue), money(row.Balance)})
		}
	case report.TypeCollections:
		records = append(records, []string{"Month", "Total Collection"})
		for _, row := range r.Collections {
			records = append(records, []string{row.Month, money(row.Total)})
		}
	case report.TypePayments:
		records = append(records, []string{"Date", "Student Name", "Roll No", "Amount", "Status"})
		for _, row := range r.Payments {
			records = append(records, []string{row.Date, row.StudentName, row.RollNo, money(row.Amount), row.Status})
		}
	}
	return records
}
