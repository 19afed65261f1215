package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Session       SessionSnapshotter   // Required
	Accounts      AccountService       // Required
	Appointments  AppointmentsService  // Required
	Directory     DirectoryService     // Required
	Scans         ScanFlows            // Required
	Notifications NotificationsService // Optional: without it /api/notifications is not mounted

	TemplateFS fs.FS // Required

	// Optional: Prometheus exposition handler for /metrics
	MetricsHandler http.Handler
	Metrics        *metrics.Portal

	// Configuration
	CORSAllowedOrigins []string
	IsDev              bool
	Logger             *slog.Logger
}

func (s RouterServices) validate() error {
	switch {
	case s.Session == nil:
		return errors.New("router requires Session")
	case s.Accounts == nil:
		return errors.New("router requires Accounts")
	case s.Appointments == nil:
		return errors.New("router requires Appointments")
	case s.Directory == nil:
		return errors.New("router requires Directory")
	case s.Scans == nil:
		return errors.New("router requires Scans")
	case s.TemplateFS == nil:
		return errors.New("router requires TemplateFS")
	}
	return nil
}

// NewRouter creates the portal's HTTP handler: public pages, gated pages,
// the JSON API and operational endpoints.
func NewRouter(services RouterServices) (http.Handler, error) {
	if err := services.validate(); err != nil {
		return nil, err
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: services.TemplateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:             tr,
		Session:       services.Session,
		Notifications: services.Notifications,
		Accounts:      services.Accounts,
		Appointments:  services.Appointments,
		Directory:     services.Directory,
		Scans:         services.Scans,
		IsDev:         services.IsDev,
		Logger:        logger,
	}
	api := &APIHandlers{Session: services.Session, Notifications: services.Notifications}

	gated := RequireSession(GateOptions{Session: services.Session, Metrics: services.Metrics})
	doctorOnly := func(h http.HandlerFunc) http.Handler {
		return gated(RequireRole(domainauth.RoleDoctor)(h))
	}

	mux := http.NewServeMux()
	registerPublicRoutes(mux, ui)
	registerAccountRoutes(mux, ui)
	registerPatientRoutes(mux, ui, gated)
	registerDoctorRoutes(mux, ui, doctorOnly)
	registerAPIRoutes(mux, api, gated)

	mux.Handle("GET /healthz", healthHandler(services.Session))
	mux.Handle("HEAD /healthz", healthHandler(services.Session))
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}
	mux.HandleFunc("/", ui.NotFound)

	var handler http.Handler = mux
	handler = CSRFProtection(CSRFOptions{Logger: logger})(handler)
	if len(services.CORSAllowedOrigins) > 0 {
		handler = corsForAPI(services.CORSAllowedOrigins, handler)
	}
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)
	return handler, nil
}

func registerPublicRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET /{$}", ui.Home)
	mux.HandleFunc("GET /services", ui.Services)
	mux.HandleFunc("GET /about", ui.About)
	mux.HandleFunc("GET /contact", ui.Contact)
	mux.HandleFunc("GET /scan-result", ui.ScanResult)
}

func registerAccountRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET /login", ui.LoginPage)
	mux.HandleFunc("POST /login", ui.Login)
	mux.HandleFunc("POST /logout", ui.Logout)
	mux.HandleFunc("GET /signUp", ui.SignUpPage)
	mux.HandleFunc("POST /signUp", ui.SignUp)
	mux.HandleFunc("GET /reset-password", ui.ResetPasswordPage)
	mux.HandleFunc("POST /reset-password/request", ui.ResetPasswordRequest)
	mux.HandleFunc("POST /reset-password/verify", ui.ResetPasswordVerify)
	mux.HandleFunc("POST /reset-password/confirm", ui.ResetPasswordConfirm)
}

func registerPatientRoutes(mux *http.ServeMux, ui *UIHandlers, gated func(http.Handler) http.Handler) {
	mux.Handle("GET /booking", gated(http.HandlerFunc(ui.BookingPage)))
	mux.Handle("POST /booking", gated(http.HandlerFunc(ui.Book)))
	mux.Handle("GET /scan", gated(http.HandlerFunc(ui.ScanPage)))
	mux.Handle("POST /scan", gated(http.HandlerFunc(ui.Scan)))
	mux.Handle("GET /patient-profile", gated(http.HandlerFunc(ui.PatientProfile)))
	mux.Handle("POST /patient-profile", gated(http.HandlerFunc(ui.UpdatePatientProfile)))
	mux.Handle("GET /profile", gated(http.HandlerFunc(ui.Profile)))
}

func registerDoctorRoutes(mux *http.ServeMux, ui *UIHandlers, doctorOnly func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /doctor-dashboard", doctorOnly(ui.DoctorDashboard))
	mux.Handle("GET /doctor-profile", doctorOnly(ui.DoctorProfile))
	mux.Handle("POST /doctor-profile", doctorOnly(ui.UpdateDoctorProfile))
	mux.Handle("GET /all-appointments", doctorOnly(ui.Schedule))
	mux.Handle("POST /all-appointments/{id}/status", doctorOnly(ui.UpdateAppointmentStatus))
	mux.Handle("POST /all-appointments/{id}/delete", doctorOnly(ui.DeleteAppointment))
	mux.Handle("GET /patients", doctorOnly(ui.Patients))
	mux.Handle("GET /clinic-info", doctorOnly(ui.ClinicInfo))
	mux.Handle("POST /clinic-info", doctorOnly(ui.UpdateClinicInfo))
}

func registerAPIRoutes(mux *http.ServeMux, api *APIHandlers, gated func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/session", api.GetSession)
	if api.Notifications == nil {
		return
	}
	mux.Handle("GET /api/notifications", gated(http.HandlerFunc(api.ListNotifications)))
	mux.Handle("POST /api/notifications/refresh", gated(http.HandlerFunc(api.RefreshNotifications)))
	mux.Handle("POST /api/notifications/read-all", gated(http.HandlerFunc(api.MarkAllNotificationsRead)))
	mux.Handle("POST /api/notifications/{id}/read", gated(http.HandlerFunc(api.MarkNotificationRead)))
	mux.Handle("DELETE /api/notifications/{id}", gated(http.HandlerFunc(api.DeleteNotification)))
}

// corsForAPI applies CORS to /api/ paths only; pages are same-origin.
func corsForAPI(origins []string, next http.Handler) http.Handler {
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			withCORS.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
