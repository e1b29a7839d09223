package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"messhall/internal/adapters/http/middleware"
	"messhall/internal/application/orchestrators"
	"messhall/internal/domain/account"
	"messhall/internal/domain/meal"
	"messhall/internal/domain/report"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// wantsJSON reports whether the client asked for JSON rather than a page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") && !isHTMLRequest(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// homeFor returns the landing page for a role.
func homeFor(role string) string {
	if role == account.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/student/dashboard"
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders templateName inside the layout with the given status.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	username := ""
	if ok {
		role = sess.Role
		username = sess.Username
	}

	funcMap := template.FuncMap{
		"currentRole":     func() string { return role },
		"currentUsername": func() string { return username },
		"isLoggedIn":      func() bool { return role != "" },
		"isAdmin":         sess.IsAdmin,
		"csrfToken":       func() string { return csrf.Token(r) },
		"csrfField":       func() template.HTML { return csrf.TemplateField(r) },
		"money":           func(amount float64) string { return report.FormatMoney(settings.Currency, amount) },
		"yesNo":           report.YesNo,
		"mealTypes":       func() []meal.Type { return meal.Types },
		"reportTypes":     func() []string { return report.ValidTypes },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tpl.Execute(w, data); err != nil {
		slog.Error("render_failed", "template", templateName, "error", err.Error())
	}
}

// handleIndex sends visitors to their dashboard or the login page.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, homeFor(sess.Role), http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, homeFor(sess.Role), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"Registered": r.URL.Query().Get("registered") == "1",
			"Username":   "",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
		}
		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
			Now:          timeNow,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
				internalError(w, err)
				return
			}
			renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
				"Error":    err.Error(),
				"Username": input.Username,
			})
			return
		}

		token, err := sessions.Create(result.AccountID, result.Username, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, homeFor(result.Role), http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "account_id", sess.AccountID)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create student) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "register.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.RegisterStudentInput{
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
			Name:     strings.TrimSpace(r.FormValue("name")),
			RollNo:   strings.TrimSpace(r.FormValue("roll_no")),
			RoomNo:   strings.TrimSpace(r.FormValue("room_no")),
			Contact:  strings.TrimSpace(r.FormValue("contact")),
		}
		deps := orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
			GenerateID:   generateID,
			Now:          timeNow,
		}

		if _, err := orchestrators.ExecuteRegisterStudent(r.Context(), input, deps); err != nil {
			renderTemplateStatus(w, r, http.StatusBadRequest, "register.html", map[string]any{
				"Error": err.Error(),
				"Form":  input,
			})
			return
		}

		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleCSRFToken handles GET /api/csrf for clients that cannot read the page.
// POST: returns {"token": "..."} and sets the CSRF cookie
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}
