package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	// Public pages.
	PageHome          = "home"
	PageServices      = "services"
	PageAbout         = "about"
	PageContact       = "contact"
	PageLogin         = "login"
	PageSignUp        = "signup"
	PageResetPassword = "reset-password"
	PageScanResult    = "scan-result"
	PageNotFound      = "not-found"

	// Patient pages.
	PageBooking        = "booking"
	PageScan           = "scan"
	PagePatientProfile = "patient-profile"

	// Doctor pages.
	PageDoctorDashboard = "doctor-dashboard"
	PageAppointments    = "all-appointments"
	PagePatients        = "patients"
	PageClinicInfo      = "clinic-info"
	PageDoctorProfile   = "doctor-profile"
)

// Reset password steps, in order.
const (
	ResetStepRequest = "request"
	ResetStepVerify  = "verify"
	ResetStepConfirm = "confirm"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:            "home-content",
	PageServices:        "services-content",
	PageAbout:           "about-content",
	PageContact:         "contact-content",
	PageLogin:           "login-content",
	PageSignUp:          "signup-content",
	PageResetPassword:   "reset-password-content",
	PageScanResult:      "scan-result-content",
	PageNotFound:        "not-found-content",
	PageBooking:         "booking-content",
	PageScan:            "scan-content",
	PagePatientProfile:  "profile-content",
	PageDoctorProfile:   "profile-content",
	PageDoctorDashboard: "doctor-dashboard-content",
	PageAppointments:    "appointments-content",
	PagePatients:        "patients-content",
	PageClinicInfo:      "clinic-info-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages render the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
