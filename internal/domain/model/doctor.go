package model

import "strings"

// Doctor as listed by GET /Doctor/all.
type Doctor struct {
	ID                ID     `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Specialization    string `json:"specialization"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// FullName joins first and last name.
func (d Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Profile is the logged-in user's profile from /User/profile.
// Specialization and Bio are only meaningful for doctors.
type Profile struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"           validate:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
	DateOfBirth    string `json:"dateOfBirth"`
	Gender         string `json:"gender"`
	Specialization string `json:"specialization,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// Initials returns the two-letter avatar text, using fallback letters for blank names.
func (p Profile) Initials(fallbackFirst, fallbackLast string) string {
	first, last := p.FirstName, p.LastName
	if first == "" {
		first = fallbackFirst
	}
	if last == "" {
		last = fallbackLast
	}
	return strings.ToUpper(firstRune(first) + firstRune(last))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
