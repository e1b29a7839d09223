package web

import (
	"errors"
	"net/http"
	"strings"

	"messhall/internal/adapters/http/middleware"
	"messhall/internal/application/orchestrators"
	"messhall/internal/application/projections"
	"messhall/internal/domain/account"
)

func studentViewDeps() projections.GetStudentViewDeps {
	return projections.GetStudentViewDeps{
		MealStore:    stores.MealStore,
		PaymentStore: stores.PaymentStore,
		MealCost:     settings.MealCost,
	}
}

// handleStudentDashboard handles GET /student/dashboard.
func handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetStudentDashboard(r.Context(), sess.AccountID, studentViewDeps(), timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "student_dashboard.html", map[string]any{
		"Dashboard": result,
	})
}

// handleStudentAttendance handles GET /student/attendance?start_date=&end_date=.
func handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	query := projections.StudentAttendanceQuery{
		StudentID: sess.AccountID,
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	result, err := projections.QueryGetStudentAttendance(r.Context(), query, studentViewDeps(), timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "student_attendance.html", map[string]any{
		"Attendance": result,
	})
}

// handleStudentPayments handles GET /student/payments.
func handleStudentPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	deps := studentViewDeps()

	payments, err := projections.QueryGetStudentPayments(r.Context(), sess.AccountID, deps)
	if err != nil {
		internalError(w, err)
		return
	}
	balance, err := projections.QueryGetStudentBalance(r.Context(), sess.AccountID, deps, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "student_payments.html", map[string]any{
		"Payments": payments,
		"Balance":  balance,
	})
}

// handleStudentProfile handles GET (form) and POST (update) for /student/profile.
func handleStudentProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
		acct, err := stores.AccountStore.GetByID(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "student_profile.html", map[string]any{
			"Account": acct,
			"Saved":   r.URL.Query().Get("saved") == "1",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.UpdateProfileInput{
			AccountID: sess.AccountID,
			Name:      strings.TrimSpace(r.FormValue("name")),
			RollNo:    strings.TrimSpace(r.FormValue("roll_no")),
			RoomNo:    strings.TrimSpace(r.FormValue("room_no")),
			Contact:   strings.TrimSpace(r.FormValue("contact")),
			Password:  r.FormValue("password"),
		}
		if input.Password != r.FormValue("confirm_password") {
			renderProfileError(w, r, input, "passwords do not match")
			return
		}

		deps := orchestrators.ManageStudentsDeps{AccountStore: stores.AccountStore}
		if _, err := orchestrators.ExecuteUpdateProfile(ctx, input, deps); err != nil {
			if errors.Is(err, orchestrators.ErrStudentNotFound) {
				internalError(w, err)
				return
			}
			renderProfileError(w, r, input, err.Error())
			return
		}

		http.Redirect(w, r, "/student/profile?saved=1", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// renderProfileError re-renders the profile form with the submitted values.
func renderProfileError(w http.ResponseWriter, r *http.Request, input orchestrators.UpdateProfileInput, msg string) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	renderTemplateStatus(w, r, http.StatusBadRequest, "student_profile.html", map[string]any{
		"Account": account.Account{
			Username: sess.Username,
			Name:     input.Name,
			RollNo:   input.RollNo,
			RoomNo:   input.RoomNo,
			Contact:  input.Contact,
		},
		"Error": msg,
	})
}
