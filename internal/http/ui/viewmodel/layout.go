// Package viewmodel holds the shapes templates render.
package viewmodel

import "github.com/medscan/portal/internal/domain/nav"

// User represents the logged-in user exposed to templates.
type User struct {
	UserName string
	Role     string
}

// MenuItem is a navigation entry with its active flag resolved.
type MenuItem struct {
	Label  string
	Path   string
	Active bool
}

// Layout captures shared chrome metadata: titles, navigation and the notification badge.
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	IsAuthenticated bool
	IsDoctor        bool
	User            *User
	Menu            []MenuItem
	ProfilePath     string
	UnreadCount     int
	// CSRFToken is echoed by every POST form.
	CSRFToken string
}

// MenuFrom marks the entry whose path equals currentPath as active.
func MenuFrom(n nav.Navigation, currentPath string) []MenuItem {
	out := make([]MenuItem, 0, len(n.MenuItems))
	for _, item := range n.MenuItems {
		out = append(out, MenuItem{Label: item.Label, Path: item.Path, Active: item.Path == currentPath})
	}
	return out
}
