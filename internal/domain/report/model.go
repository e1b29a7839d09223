package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
)

// Report types
const (
	TypeAttendance  = "attendance"
	TypeDefaulters  = "defaulters"
	TypeCollections = "collections"
	TypePayments    = "payments"
)

// ValidTypes lists the report types in menu order.
var ValidTypes = []string{TypeAttendance, TypeDefaulters, TypeCollections, TypePayments}

// DefaultLookbackDays is the span of the default report range.
const DefaultLookbackDays = 7

// Domain errors
var (
	ErrInvalidType  = errors.New("report type must be one of: attendance, defaulters, collections, payments")
	ErrInvalidDate  = errors.New("report dates must be in YYYY-MM-DD format")
	ErrInvertedSpan = errors.New("end date cannot be before start date")
)

var validate = validator.New()

// Filter selects a report and its date range.
type Filter struct {
	Type      string `validate:"required,oneof=attendance defaulters collections payments"`
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

// DefaultFilter returns the attendance report for the last week ending at now.
func DefaultFilter(now time.Time) Filter {
	return Filter{
		Type:      TypeAttendance,
		StartDate: now.AddDate(0, 0, -DefaultLookbackDays).Format("2006-01-02"),
		EndDate:   now.Format("2006-01-02"),
	}
}

// WithDefaults fills empty fields from DefaultFilter(now).
func (f Filter) WithDefaults(now time.Time) Filter {
	d := DefaultFilter(now)
	if f.Type == "" {
		f.Type = d.Type
	}
	if f.StartDate == "" {
		f.StartDate = d.StartDate
	}
	if f.EndDate == "" {
		f.EndDate = d.EndDate
	}
	return f
}

// Validate checks type and dates.
// POST: nil means StartDate <= EndDate and both parse
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Type" {
			return ErrInvalidType
		}
		return ErrInvalidDate
	}
	if f.EndDate < f.StartDate {
		return ErrInvertedSpan
	}
	return nil
}

// Filename returns the CSV attachment name for the filter.
func (f Filter) Filename() string {
	return fmt.Sprintf("%s_report_%s_to_%s.csv", f.Type, f.StartDate, f.EndDate)
}

// MonthLabel turns a YYYY-MM bucket into "January 2024".
func MonthLabel(bucket string) string {
	t, err := time.Parse("2006-01", bucket)
	if err != nil {
		return bucket
	}
	return t.Format("January 2006")
}

// FormatMoney renders an amount with the currency symbol, thousands
// separators and two decimals.
func FormatMoney(symbol string, amount float64) string {
	return symbol + humanize.FormatFloat("#,###.##", amount)
}

// YesNo renders a meal flag for exports.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
