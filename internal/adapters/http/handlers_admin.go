package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"messhall/internal/application/orchestrators"
	"messhall/internal/application/projections"
	"messhall/internal/domain/account"
	"messhall/internal/domain/payment"
)

// handleAdminDashboard handles GET /admin/dashboard.
// POST: renders today's meal counts and money totals
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetAdminDashboardDeps{
		AccountStore: stores.AccountStore,
		MealStore:    stores.MealStore,
		PaymentStore: stores.PaymentStore,
		MealCost:     settings.MealCost,
	}
	result, err := projections.QueryGetAdminDashboard(r.Context(), deps, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"date":            result.Date,
			"breakfast_count": result.BreakfastCount,
			"lunch_count":     result.LunchCount,
			"dinner_count":    result.DinnerCount,
			"total_students":  result.TotalStudents,
			"total_payments":  result.TotalPayments,
			"total_dues":      result.TotalDues,
		})
		return
	}
	renderTemplate(w, r, "admin_dashboard.html", map[string]any{
		"Dashboard": result,
	})
}

// handleAdminStudents handles GET (list) and POST (create, update, delete) for /admin/students.
// The POST form field "action" selects the operation.
func handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		renderStudentsPage(w, r, http.StatusOK, r.URL.Query().Get("edit"), "")
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		manageDeps := orchestrators.ManageStudentsDeps{AccountStore: stores.AccountStore}
		studentID := r.FormValue("student_id")

		var err error
		switch r.FormValue("action") {
		case "create":
			_, err = orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
				Username: strings.TrimSpace(r.FormValue("username")),
				Password: r.FormValue("password"),
				Role:     account.RoleStudent,
				Name:     strings.TrimSpace(r.FormValue("name")),
				RollNo:   strings.TrimSpace(r.FormValue("roll_no")),
				RoomNo:   strings.TrimSpace(r.FormValue("room_no")),
				Contact:  strings.TrimSpace(r.FormValue("contact")),
			}, orchestrators.CreateAccountDeps{
				AccountStore: stores.AccountStore,
				GenerateID:   generateID,
				Now:          timeNow,
			})
		case "update":
			_, err = orchestrators.ExecuteUpdateStudent(ctx, orchestrators.UpdateStudentInput{
				StudentID: studentID,
				Username:  strings.TrimSpace(r.FormValue("username")),
				Name:      strings.TrimSpace(r.FormValue("name")),
				RollNo:    strings.TrimSpace(r.FormValue("roll_no")),
				RoomNo:    strings.TrimSpace(r.FormValue("room_no")),
				Contact:   strings.TrimSpace(r.FormValue("contact")),
				Password:  r.FormValue("password"),
			}, manageDeps)
		case "delete":
			err = orchestrators.ExecuteDeleteStudent(ctx, studentID, manageDeps)
			if err == nil {
				sessions.DeleteAccount(studentID)
			}
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}

		if err != nil {
			slog.Warn("student_event", "event", "rejected", "action", r.FormValue("action"), "student_id", studentID, "error", err.Error())
			editID := ""
			if r.FormValue("action") == "update" {
				editID = studentID
			}
			renderStudentsPage(w, r, http.StatusBadRequest, editID, err.Error())
			return
		}

		http.Redirect(w, r, "/admin/students", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// renderStudentsPage renders the student list with an optional edit form.
func renderStudentsPage(w http.ResponseWriter, r *http.Request, status int, editID, errMsg string) {
	ctx := r.Context()
	list, err := projections.QueryGetStudentList(ctx, projections.GetStudentListDeps{
		AccountStore: stores.AccountStore,
		MealStore:    stores.MealStore,
		PaymentStore: stores.PaymentStore,
		MealCost:     settings.MealCost,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Students": list,
		"Error":    errMsg,
	}
	if editID != "" {
		for _, sb := range list {
			if sb.Student.ID == editID {
				data["Editing"] = sb.Student
				break
			}
		}
	}
	renderTemplateStatus(w, r, status, "admin_students.html", data)
}

// handleAdminPayments handles GET (ledger) and POST (record payment) for /admin/payments.
func handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		renderPaymentsPage(w, r, http.StatusOK, "")
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
		if err != nil {
			renderPaymentsPage(w, r, http.StatusBadRequest, "amount must be a number")
			return
		}

		_, err = orchestrators.ExecuteRecordPayment(ctx, orchestrators.RecordPaymentInput{
			StudentID: r.FormValue("student_id"),
			Amount:    amount,
			Date:      r.FormValue("date"),
		}, orchestrators.RecordPaymentDeps{
			AccountStore: stores.AccountStore,
			PaymentStore: stores.PaymentStore,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrStudentNotFound) || errors.Is(err, payment.ErrInvalidAmount) {
				renderPaymentsPage(w, r, http.StatusBadRequest, err.Error())
				return
			}
			internalError(w, err)
			return
		}

		http.Redirect(w, r, "/admin/payments", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func renderPaymentsPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ledger, err := projections.QueryGetPaymentLedger(r.Context(), projections.GetPaymentLedgerDeps{
		AccountStore: stores.AccountStore,
		PaymentStore: stores.PaymentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplateStatus(w, r, status, "admin_payments.html", map[string]any{
		"Ledger": ledger,
		"Today":  timeNow().Format("2006-01-02"),
		"Error":  errMsg,
	})
}
