package web

import (
	"errors"
	"net/http"

	"messhall/internal/application/orchestrators"
	"messhall/internal/application/projections"
	"messhall/internal/domain/meal"
)

// attendanceResponse is the body of the attendance update endpoint.
type attendanceResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleAdminAttendance handles GET (sheet) and POST (update one meal) for /admin/attendance.
func handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		handleGetAttendanceSheet(w, r)
		return
	}
	if r.Method == "POST" {
		handlePostAttendanceUpdate(w, r)
		return
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleGetAttendanceSheet renders the sheet for ?date=, as a page or as JSON.
// An empty or invalid date shows today.
func handleGetAttendanceSheet(w http.ResponseWriter, r *http.Request) {
	deps := projections.GetAttendanceSheetDeps{
		AccountStore: stores.AccountStore,
		MealStore:    stores.MealStore,
	}
	sheet, err := projections.QueryGetAttendanceSheet(r.Context(), r.URL.Query().Get("date"), deps, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	if wantsJSON(r) {
		if sheet.Rows == nil {
			sheet.Rows = []projections.SheetRow{}
		}
		writeJSON(w, http.StatusOK, sheet)
		return
	}
	renderTemplate(w, r, "admin_attendance.html", map[string]any{
		"Sheet": sheet,
	})
}

// handlePostAttendanceUpdate records or clears one meal flag.
// PRE: form carries student_id, meal_type, action and optionally date
// POST: responds {"success": true} or {"success": false, "error": reason}
// INVARIANT: application failures answer 200 so clients can tell them from transport failures
func handlePostAttendanceUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, attendanceResponse{Error: "Invalid form submission"})
		return
	}

	date := r.PostForm.Get("date")
	if date == "" {
		date = r.URL.Query().Get("date")
	}
	input := orchestrators.MarkMealInput{
		StudentID: r.PostForm.Get("student_id"),
		MealType:  r.PostForm.Get("meal_type"),
		Action:    r.PostForm.Get("action"),
		Date:      date,
	}
	deps := orchestrators.MarkMealDeps{
		AccountStore: stores.AccountStore,
		MealStore:    stores.MealStore,
		Now:          timeNow,
	}

	if _, err := orchestrators.ExecuteMarkMeal(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrMissingParameters):
			writeJSON(w, http.StatusOK, attendanceResponse{Error: "Missing parameters"})
		case errors.Is(err, orchestrators.ErrStudentNotFound),
			errors.Is(err, meal.ErrInvalidType),
			errors.Is(err, meal.ErrInvalidAction):
			writeJSON(w, http.StatusOK, attendanceResponse{Error: err.Error()})
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, attendanceResponse{Success: true})
}
