package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"messhall/internal/adapters/http/middleware"
	accountStore "messhall/internal/adapters/storage/account"
	mealStore "messhall/internal/adapters/storage/meal"
	paymentStore "messhall/internal/adapters/storage/payment"
	"messhall/internal/domain/account"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	MealStore    mealStore.Store
	PaymentStore paymentStore.Store
}

// Settings carries the server options the handlers and middleware need.
type Settings struct {
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // requests per second per IP
	SlowRequestMs  int
	MealCost       float64
	Currency       string
}

// DefaultRateLimit applies when Settings.RateLimit is not positive.
const DefaultRateLimit = 10

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global settings (set by NewMux)
var settings Settings

// NewMux wires HTTP handlers for the app.
// PRE: s has all stores set; cfg.CSRFKey is 32 bytes
func NewMux(s *Stores, cfg Settings) http.Handler {
	stores = s
	settings = cfg
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.SecureCookies

	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	registerRoutes(mux)

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(cfg.CSRFKey, middleware.CSRFOptions{
			Secure:         cfg.SecureCookies,
			TrustedOrigins: cfg.TrustedOrigins,
		}),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(cfg.SlowRequestMs),
	)
}

// registerRoutes maps paths to handlers. Admin and student pages are gated
// by role; everything else is public.
func registerRoutes(mux *http.ServeMux) {
	admin := middleware.RequireRole(account.RoleAdmin)
	student := middleware.RequireRole(account.RoleStudent)

	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("/api/csrf", handleCSRFToken)

	mux.Handle("/admin/dashboard", admin(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("/admin/students", admin(http.HandlerFunc(handleAdminStudents)))
	mux.Handle("/admin/attendance", admin(http.HandlerFunc(handleAdminAttendance)))
	mux.Handle("/admin/payments", admin(http.HandlerFunc(handleAdminPayments)))
	mux.Handle("/admin/reports", admin(http.HandlerFunc(handleAdminReports)))
	mux.Handle("/admin/reports/export", admin(http.HandlerFunc(handleAdminReportsExport)))

	mux.Handle("/student/dashboard", student(http.HandlerFunc(handleStudentDashboard)))
	mux.Handle("/student/attendance", student(http.HandlerFunc(handleStudentAttendance)))
	mux.Handle("/student/payments", student(http.HandlerFunc(handleStudentPayments)))
	mux.Handle("/student/profile", student(http.HandlerFunc(handleStudentProfile)))
}
