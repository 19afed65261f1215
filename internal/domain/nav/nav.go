// Package nav maps a role to its navigation menu and profile landing page.
package nav

import "github.com/medscan/portal/internal/domain/auth"

// Landing paths.
const (
	DoctorLanding  = "/doctor-dashboard"
	PatientLanding = "/patient-profile"
)

// MenuItem is one navigation entry.
type MenuItem struct {
	Label string
	Path  string
}

// Navigation is what a role sees in the header.
type Navigation struct {
	MenuItems          []MenuItem
	ProfileLandingPath string
}

func baseMenu() []MenuItem {
	return []MenuItem{
		{Label: "Home", Path: "/"},
		{Label: "Services", Path: "/services"},
		{Label: "About", Path: "/about"},
		{Label: "Contact", Path: "/contact"},
		{Label: "Scan", Path: "/scan"},
		{Label: "Booking", Path: "/booking"},
	}
}

func doctorMenu() []MenuItem {
	return []MenuItem{
		{Label: "Dashboard", Path: DoctorLanding},
		{Label: "Schedule", Path: "/all-appointments"},
		{Label: "Patients", Path: "/patients"},
		{Label: "Clinic Info", Path: "/clinic-info"},
		{Label: "Profile", Path: "/doctor-profile"},
	}
}

// ForRole returns the navigation for role. Every call allocates fresh slices,
// so callers may modify the result.
func ForRole(role auth.Role) Navigation {
	if role == auth.RoleDoctor {
		return Navigation{
			MenuItems:          append(doctorMenu(), baseMenu()...),
			ProfileLandingPath: DoctorLanding,
		}
	}
	return Navigation{
		MenuItems:          baseMenu(),
		ProfileLandingPath: PatientLanding,
	}
}

// LandingPath is shorthand for ForRole(role).ProfileLandingPath.
func LandingPath(role auth.Role) string {
	if role == auth.RoleDoctor {
		return DoctorLanding
	}
	return PatientLanding
}
