package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"messhall/internal/adapters/http/middleware"
	"messhall/internal/adapters/storage"
	accountStore "messhall/internal/adapters/storage/account"
	mealStore "messhall/internal/adapters/storage/meal"
	paymentStore "messhall/internal/adapters/storage/payment"
	"messhall/internal/application/orchestrators"
	"messhall/internal/application/projections"
	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const testPassword = "correct-horse-battery"

// testApp holds the seeded accounts of an in-memory deployment.
type testApp struct {
	admin   account.Account
	student account.Account
}

// setupTestApp points the package globals at fresh in-memory SQLite stores
// and seeds one admin and one student.
func setupTestApp(t *testing.T) testApp {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stores = &Stores{
		AccountStore: accountStore.NewSQLiteStore(db),
		MealStore:    mealStore.NewSQLiteStore(db),
		PaymentStore: paymentStore.NewSQLiteStore(db),
	}
	settings = Settings{MealCost: 50, Currency: "₹"}
	sessions = middleware.NewSessionStore()

	prevNow := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = prevNow })

	deps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, Now: timeNow}
	ctx := context.Background()
	admin, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Username: "warden", Password: testPassword, Role: account.RoleAdmin,
	}, deps)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	student, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Username: "asha", Password: testPassword, Role: account.RoleStudent,
		Name: "Asha Rao", RollNo: "CS-101", RoomNo: "B12", Contact: "9876543210",
	}, deps)
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return testApp{admin: admin, student: student}
}

// withSession attaches a session for acct to the request.
func withSession(r *http.Request, acct account.Account) *http.Request {
	sess := middleware.Session{AccountID: acct.ID, Username: acct.Username, Role: acct.Role, CreatedAt: testNow}
	return r.WithContext(middleware.ContextWithSession(r.Context(), sess))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeAttendance(t *testing.T, rr *httptest.ResponseRecorder) attendanceResponse {
	t.Helper()
	var resp attendanceResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

// TestPostAttendanceUpdate covers the update endpoint's success and failure bodies.
func TestPostAttendanceUpdate(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name        string
		form        url.Values
		wantSuccess bool
		wantError   string
	}{
		{
			name:      "missing student",
			form:      url.Values{"meal_type": {"lunch"}, "action": {"mark"}},
			wantError: "Missing parameters",
		},
		{
			name:      "missing action",
			form:      url.Values{"student_id": {app.student.ID}, "meal_type": {"lunch"}},
			wantError: "Missing parameters",
		},
		{
			name:      "unknown meal type",
			form:      url.Values{"student_id": {app.student.ID}, "meal_type": {"supper"}, "action": {"mark"}},
			wantError: "meal type must be one of",
		},
		{
			name:      "unknown action",
			form:      url.Values{"student_id": {app.student.ID}, "meal_type": {"lunch"}, "action": {"toggle"}},
			wantError: "action must be one of",
		},
		{
			name:      "unknown student",
			form:      url.Values{"student_id": {"nobody"}, "meal_type": {"lunch"}, "action": {"mark"}},
			wantError: "student not found",
		},
		{
			name:      "admin is not a student",
			form:      url.Values{"student_id": {app.admin.ID}, "meal_type": {"lunch"}, "action": {"mark"}},
			wantError: "student not found",
		},
		{
			name:        "mark",
			form:        url.Values{"student_id": {app.student.ID}, "meal_type": {"lunch"}, "action": {"mark"}, "date": {"2024-03-01"}},
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withSession(postForm("/admin/attendance", tt.form), app.admin)
			rr := httptest.NewRecorder()
			handleAdminAttendance(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			resp := decodeAttendance(t, rr)
			if resp.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if !strings.Contains(resp.Error, tt.wantError) {
				t.Errorf("error = %q, want to contain %q", resp.Error, tt.wantError)
			}
		})
	}
}

// lockedAccounts fails every id lookup the way a busy database does.
type lockedAccounts struct {
	accountStore.Store
}

func (lockedAccounts) GetByID(context.Context, string) (account.Account, error) {
	return account.Account{}, errors.New("database is locked")
}

// TestPostAttendanceUpdate_StorageFailure verifies a failed student lookup
// answers 500 instead of reporting a missing student.
func TestPostAttendanceUpdate_StorageFailure(t *testing.T) {
	app := setupTestApp(t)
	stores.AccountStore = lockedAccounts{Store: stores.AccountStore}

	form := url.Values{"student_id": {app.student.ID}, "meal_type": {"lunch"}, "action": {"mark"}}
	rr := httptest.NewRecorder()
	handleAdminAttendance(rr, withSession(postForm("/admin/attendance", form), app.admin))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body %q", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "student not found") {
		t.Errorf("storage failure reported as not found: %q", rr.Body.String())
	}
}

// TestPostAttendanceUpdate_MarkThenUnmark verifies the flag follows the last action
// and other meals on the same day are untouched.
func TestPostAttendanceUpdate_MarkThenUnmark(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	send := func(mealType, action string) {
		form := url.Values{"student_id": {app.student.ID}, "meal_type": {mealType}, "action": {action}, "date": {"2024-02-28"}}
		rr := httptest.NewRecorder()
		handleAdminAttendance(rr, withSession(postForm("/admin/attendance", form), app.admin))
		if resp := decodeAttendance(t, rr); !resp.Success {
			t.Fatalf("%s %s failed: %s", action, mealType, resp.Error)
		}
	}

	send("dinner", "mark")
	send("lunch", "mark")
	send("lunch", "unmark")

	got, err := stores.MealStore.GetByStudentAndDate(ctx, app.student.ID, "2024-02-28")
	if err != nil {
		t.Fatalf("GetByStudentAndDate: %v", err)
	}
	if got.Lunch || !got.Dinner || got.Breakfast {
		t.Errorf("unexpected meal flags: %+v", got)
	}
}

// TestPostAttendanceUpdate_DateFallbacks verifies the query date and today defaults.
func TestPostAttendanceUpdate_DateFallbacks(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	form := url.Values{"student_id": {app.student.ID}, "meal_type": {"breakfast"}, "action": {"mark"}}
	rr := httptest.NewRecorder()
	handleAdminAttendance(rr, withSession(postForm("/admin/attendance?date=2024-02-20", form), app.admin))
	if resp := decodeAttendance(t, rr); !resp.Success {
		t.Fatalf("query date update failed: %s", resp.Error)
	}
	if m, err := stores.MealStore.GetByStudentAndDate(ctx, app.student.ID, "2024-02-20"); err != nil || !m.Breakfast {
		t.Errorf("expected breakfast on 2024-02-20, got %+v (%v)", m, err)
	}

	form.Set("date", "not-a-date")
	rr = httptest.NewRecorder()
	handleAdminAttendance(rr, withSession(postForm("/admin/attendance", form), app.admin))
	if resp := decodeAttendance(t, rr); !resp.Success {
		t.Fatalf("invalid date update failed: %s", resp.Error)
	}
	if m, err := stores.MealStore.GetByStudentAndDate(ctx, app.student.ID, "2024-03-01"); err != nil || !m.Breakfast {
		t.Errorf("expected breakfast today, got %+v (%v)", m, err)
	}
}

// TestGetAttendanceSheet_JSON verifies the sheet served to API clients.
func TestGetAttendanceSheet_JSON(t *testing.T) {
	app := setupTestApp(t)
	if err := stores.MealStore.SetFlag(context.Background(), app.student.ID, "2024-03-01", meal.Lunch, true); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/attendance?date=2024-03-01", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handleAdminAttendance(rr, withSession(req, app.admin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var sheet projections.AttendanceSheet
	if err := json.NewDecoder(rr.Body).Decode(&sheet); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sheet.Date != "2024-03-01" || sheet.PrevDate != "2024-02-29" || sheet.NextDate != "2024-03-02" {
		t.Errorf("unexpected dates: %+v", sheet)
	}
	if len(sheet.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (students only)", len(sheet.Rows))
	}
	row := sheet.Rows[0]
	if row.StudentID != app.student.ID || !row.Lunch || row.Breakfast || row.Dinner {
		t.Errorf("unexpected row: %+v", row)
	}
}

// TestGetAttendanceSheet_HTML verifies the page carries one checkbox per meal.
func TestGetAttendanceSheet_HTML(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest("GET", "/admin/attendance", nil)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	handleAdminAttendance(rr, withSession(req, app.admin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if n := strings.Count(body, `class="meal-checkbox"`); n != 3 {
		t.Errorf("checkboxes = %d, want 3", n)
	}
	if !strings.Contains(body, `value="2024-03-01"`) {
		t.Error("expected today's date in the date selector")
	}
}

// TestAdminReportsExport verifies the CSV attachment.
func TestAdminReportsExport(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	stores.MealStore.SetFlag(ctx, app.student.ID, "2024-02-27", meal.Breakfast, true)

	rr := httptest.NewRecorder()
	handleAdminReportsExport(rr, withSession(httptest.NewRequest("GET", "/admin/reports/export", nil), app.admin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	wantDisp := "attachment; filename=attendance_report_2024-02-23_to_2024-03-01.csv"
	if got := rr.Header().Get("Content-Disposition"); got != wantDisp {
		t.Errorf("Content-Disposition = %q, want %q", got, wantDisp)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row: %q", len(lines), rr.Body.String())
	}
	if strings.TrimSpace(lines[0]) != "Date,Student Name,Roll No,Breakfast,Lunch,Dinner" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "2024-02-27,Asha Rao,CS-101,Yes,No,No" {
		t.Errorf("row = %q", lines[1])
	}
}

// TestAdminReports_InvalidFilter verifies bad filters are rejected.
func TestAdminReports_InvalidFilter(t *testing.T) {
	app := setupTestApp(t)

	for _, target := range []string{
		"/admin/reports/export?type=inventory",
		"/admin/reports/export?type=payments&start_date=2024-03-05&end_date=2024-03-01",
	} {
		rr := httptest.NewRecorder()
		handleAdminReportsExport(rr, withSession(httptest.NewRequest("GET", target, nil), app.admin))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handleAdminReports(rr, withSession(httptest.NewRequest("GET", "/admin/reports?type=inventory", nil), app.admin))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("view: status = %d, want 400", rr.Code)
	}
}

// TestAdminReports_View verifies the page links to the matching export.
func TestAdminReports_View(t *testing.T) {
	app := setupTestApp(t)

	rr := httptest.NewRecorder()
	handleAdminReports(rr, withSession(httptest.NewRequest("GET", "/admin/reports?type=defaulters&start_date=2024-02-01&end_date=2024-02-29", nil), app.admin))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	want := `/admin/reports/export?type=defaulters&amp;start_date=2024-02-01&amp;end_date=2024-02-29`
	if !strings.Contains(rr.Body.String(), want) {
		t.Errorf("expected download link %s in page", want)
	}
}

// TestAdminStudents_CreateUpdateDelete walks a student through its lifecycle.
func TestAdminStudents_CreateUpdateDelete(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	handleAdminStudents(rr, withSession(postForm("/admin/students", url.Values{
		"action": {"create"}, "username": {"bala"}, "password": {testPassword},
		"name": {"Bala K"}, "roll_no": {"CS-102"}, "room_no": {"A1"}, "contact": {"99"},
	}), app.admin))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create: status = %d, want 303: %s", rr.Code, rr.Body.String())
	}
	created, err := stores.AccountStore.GetByUsername(ctx, "bala")
	if err != nil {
		t.Fatalf("created student missing: %v", err)
	}

	rr = httptest.NewRecorder()
	handleAdminStudents(rr, withSession(postForm("/admin/students", url.Values{
		"action": {"create"}, "username": {"bala2"}, "password": {testPassword},
		"name": {"Dup"}, "roll_no": {"CS-102"},
	}), app.admin))
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "roll number is already registered") {
		t.Errorf("duplicate roll no: status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handleAdminStudents(rr, withSession(postForm("/admin/students", url.Values{
		"action": {"update"}, "student_id": {created.ID}, "username": {"bala"},
		"name": {"Bala Krishnan"}, "roll_no": {"CS-102"}, "room_no": {"A2"}, "contact": {"99"},
	}), app.admin))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("update: status = %d, want 303: %s", rr.Code, rr.Body.String())
	}
	if got, _ := stores.AccountStore.GetByID(ctx, created.ID); got.Name != "Bala Krishnan" || got.RoomNo != "A2" {
		t.Errorf("update not applied: %+v", got)
	}

	token, _ := sessions.Create(created.ID, created.Username, created.Role)
	stores.MealStore.SetFlag(ctx, created.ID, "2024-03-01", meal.Dinner, true)
	rr = httptest.NewRecorder()
	handleAdminStudents(rr, withSession(postForm("/admin/students", url.Values{
		"action": {"delete"}, "student_id": {created.ID},
	}), app.admin))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete: status = %d, want 303", rr.Code)
	}
	if _, err := stores.AccountStore.GetByID(ctx, created.ID); err == nil {
		t.Error("student should be deleted")
	}
	if _, ok := sessions.Get(token); ok {
		t.Error("deleted student's session should be revoked")
	}
	if _, err := stores.MealStore.GetByStudentAndDate(ctx, created.ID, "2024-03-01"); err == nil {
		t.Error("meals should cascade on delete")
	}

	rr = httptest.NewRecorder()
	handleAdminStudents(rr, withSession(httptest.NewRequest("GET", "/admin/students", nil), app.admin))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Asha Rao") {
		t.Errorf("list: status = %d", rr.Code)
	}
}

// TestAdminPayments_Record verifies recording and validation of payments.
func TestAdminPayments_Record(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	handleAdminPayments(rr, withSession(postForm("/admin/payments", url.Values{
		"student_id": {app.student.ID}, "amount": {"1250.50"}, "date": {"2024-02-15"},
	}), app.admin))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rr.Code, rr.Body.String())
	}
	paid, err := stores.PaymentStore.SumByStudent(ctx, app.student.ID, "", "")
	if err != nil || paid != 1250.50 {
		t.Errorf("paid = %v (%v), want 1250.50", paid, err)
	}

	for _, amount := range []string{"abc", "0", "-5"} {
		rr = httptest.NewRecorder()
		handleAdminPayments(rr, withSession(postForm("/admin/payments", url.Values{
			"student_id": {app.student.ID}, "amount": {amount},
		}), app.admin))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("amount %q: status = %d, want 400", amount, rr.Code)
		}
	}

	rr = httptest.NewRecorder()
	handleAdminPayments(rr, withSession(httptest.NewRequest("GET", "/admin/payments", nil), app.admin))
	if !strings.Contains(rr.Body.String(), "₹1,250.50") {
		t.Errorf("ledger should show the formatted amount")
	}
}

// TestAdminDashboard_JSON verifies today's counts and totals.
func TestAdminDashboard_JSON(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	stores.MealStore.SetFlag(ctx, app.student.ID, "2024-03-01", meal.Breakfast, true)
	stores.MealStore.SetFlag(ctx, app.student.ID, "2024-03-01", meal.Lunch, true)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handleAdminDashboard(rr, withSession(req, app.admin))

	var got map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["breakfast_count"] != 1.0 || got["dinner_count"] != 0.0 || got["total_students"] != 1.0 || got["total_dues"] != 100.0 {
		t.Errorf("unexpected dashboard: %v", got)
	}
}

// TestStudentPages verifies the student views render their own data.
func TestStudentPages(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	stores.MealStore.SetFlag(ctx, app.student.ID, "2024-03-01", meal.Lunch, true)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  string
		want    string
	}{
		{"dashboard", handleStudentDashboard, "/student/dashboard", "₹50"},
		{"attendance", handleStudentAttendance, "/student/attendance", "1 meals between 2024-01-31 and 2024-03-01"},
		{"payments", handleStudentPayments, "/student/payments", "No payments recorded."},
		{"profile", handleStudentProfile, "/student/profile", "CS-101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, withSession(httptest.NewRequest("GET", tt.target, nil), app.student))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

// TestLayout_AdminNavFollowsSession verifies the admin menu is drawn only for
// admin sessions.
func TestLayout_AdminNavFollowsSession(t *testing.T) {
	app := setupTestApp(t)
	const adminLink = `href="/admin/students"`

	rr := httptest.NewRecorder()
	handleAdminReports(rr, withSession(httptest.NewRequest("GET", "/admin/reports", nil), app.admin))
	if !strings.Contains(rr.Body.String(), adminLink) {
		t.Errorf("admin page missing admin menu")
	}

	rr = httptest.NewRecorder()
	handleStudentProfile(rr, withSession(httptest.NewRequest("GET", "/student/profile", nil), app.student))
	if strings.Contains(rr.Body.String(), adminLink) {
		t.Errorf("student page shows admin menu")
	}
}

// TestStudentProfile_Update verifies profile edits and the password check.
func TestStudentProfile_Update(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	handleStudentProfile(rr, withSession(postForm("/student/profile", url.Values{
		"name": {"Asha R"}, "roll_no": {"CS-101"}, "room_no": {"C7"}, "contact": {"1"},
		"password": {"another-long-secret"}, "confirm_password": {"different-secret!"},
	}), app.student))
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "passwords do not match") {
		t.Errorf("mismatch: status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handleStudentProfile(rr, withSession(postForm("/student/profile", url.Values{
		"name": {"Asha R"}, "roll_no": {"CS-101"}, "room_no": {"C7"}, "contact": {"1"},
	}), app.student))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rr.Code, rr.Body.String())
	}
	if got, _ := stores.AccountStore.GetByID(ctx, app.student.ID); got.RoomNo != "C7" || got.Name != "Asha R" {
		t.Errorf("profile not updated: %+v", got)
	}
}

// TestRegister verifies self-registration creates a student.
func TestRegister(t *testing.T) {
	setupTestApp(t)

	rr := httptest.NewRecorder()
	handleRegister(rr, postForm("/register", url.Values{
		"username": {"chitra"}, "password": {testPassword}, "name": {"Chitra M"},
		"roll_no": {"CS-103"}, "room_no": {"D4"}, "contact": {"12345"},
	}))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login?registered=1" {
		t.Fatalf("status = %d, location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if _, err := stores.AccountStore.GetByUsername(context.Background(), "chitra"); err != nil {
		t.Errorf("registered account missing: %v", err)
	}

	rr = httptest.NewRecorder()
	handleRegister(rr, postForm("/register", url.Values{"username": {"dev"}, "password": {testPassword}}))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("incomplete form: status = %d, want 400", rr.Code)
	}
}

// TestLogin verifies credentials, session creation and redirects.
func TestLogin(t *testing.T) {
	setupTestApp(t)

	tests := []struct {
		name         string
		username     string
		password     string
		wantStatus   int
		wantLocation string
	}{
		{"admin", "warden", testPassword, http.StatusSeeOther, "/admin/dashboard"},
		{"student", "asha", testPassword, http.StatusSeeOther, "/student/dashboard"},
		{"wrong password", "asha", "nope", http.StatusUnauthorized, ""},
		{"unknown user", "ghost", testPassword, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleLogin(rr, postForm("/login", url.Values{"username": {tt.username}, "password": {tt.password}}))
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if rr.Header().Get("Location") != tt.wantLocation {
				t.Errorf("location = %q, want %q", rr.Header().Get("Location"), tt.wantLocation)
			}
			hasCookie := false
			for _, c := range rr.Result().Cookies() {
				if c.Name == middleware.SessionCookieName && c.Value != "" {
					hasCookie = true
				}
			}
			if hasCookie != (tt.wantStatus == http.StatusSeeOther) {
				t.Errorf("session cookie set = %v", hasCookie)
			}
		})
	}
}

// TestIndex verifies the role redirects.
func TestIndex(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"anonymous", httptest.NewRequest("GET", "/", nil), "/login"},
		{"admin", withSession(httptest.NewRequest("GET", "/", nil), app.admin), "/admin/dashboard"},
		{"student", withSession(httptest.NewRequest("GET", "/", nil), app.student), "/student/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleIndex(rr, tt.req)
			if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != tt.want {
				t.Errorf("got %d %q, want 303 %q", rr.Code, rr.Header().Get("Location"), tt.want)
			}
		})
	}

	rr := httptest.NewRecorder()
	handleIndex(rr, httptest.NewRequest("GET", "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path: status = %d, want 404", rr.Code)
	}
}
