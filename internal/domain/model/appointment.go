package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AppointmentStatus mirrors the API's numeric status enum.
type AppointmentStatus int

const (
	AppointmentPending   AppointmentStatus = 0
	AppointmentConfirmed AppointmentStatus = 1
	AppointmentCompleted AppointmentStatus = 2
)

// DefaultReason is sent when the patient leaves the notes blank.
const DefaultReason = "General Checkup"

// DefaultAppointmentType is displayed when the API sends no type.
const DefaultAppointmentType = "Routine Checkup"

func (s AppointmentStatus) String() string {
	switch s {
	case AppointmentPending:
		return "pending"
	case AppointmentConfirmed:
		return "confirmed"
	case AppointmentCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three known statuses.
func (s AppointmentStatus) Valid() bool {
	return s >= AppointmentPending && s <= AppointmentCompleted
}

// ParseAppointmentStatus accepts a status name or its number.
func ParseAppointmentStatus(v string) (AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "pending", "0":
		return AppointmentPending, nil
	case "confirmed", "1":
		return AppointmentConfirmed, nil
	case "completed", "2":
		return AppointmentCompleted, nil
	default:
		return 0, fmt.Errorf("invalid appointment status %q", v)
	}
}

// PatientRef is the embedded patient summary on doctor-side appointment listings.
type PatientRef struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Appointment as returned by GET /Appointment.
type Appointment struct {
	ID              ID                `json:"id"`
	DoctorID        ID                `json:"doctorId"`
	DoctorName      string            `json:"doctorName"`
	PatientID       ID                `json:"patientId"`
	PatientName     string            `json:"patientName"`
	Patient         *PatientRef       `json:"patient,omitempty"`
	AppointmentDate Timestamp         `json:"appointmentDate"`
	AppointmentType string            `json:"appointmentType"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status"`
	IsNewPatient    bool              `json:"isNewPatient"`
}

// TypeLabel returns the appointment type or the default label.
func (a Appointment) TypeLabel() string {
	if a.AppointmentType == "" {
		return DefaultAppointmentType
	}
	return a.AppointmentType
}

// BookingRequest is the patient's booking form.
type BookingRequest struct {
	DoctorID string `json:"doctorId" validate:"required"`
	Date     string `json:"date"     validate:"required,datetime=2006-01-02"`
	Time     string `json:"time"     validate:"required,datetime=15:04"`
	Notes    string `json:"notes"    validate:"max=1000"`
}

// CreateAppointment is the POST /Appointment payload.
type CreateAppointment struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	Reason          string `json:"reason"`
}

// Payload converts the form into the API payload.
// The date and time are sent as typed, suffixed with ":00Z".
func (r BookingRequest) Payload() CreateAppointment {
	reason := strings.TrimSpace(r.Notes)
	if reason == "" {
		reason = DefaultReason
	}
	return CreateAppointment{
		DoctorID:        strings.TrimSpace(r.DoctorID),
		AppointmentDate: fmt.Sprintf("%sT%s:00Z", r.Date, r.Time),
		Reason:          reason,
	}
}

// DateFilter narrows appointments by date relative to now.
type DateFilter string

const (
	DateAll      DateFilter = "all"
	DateToday    DateFilter = "today"
	DateTomorrow DateFilter = "tomorrow"
	DateWeek     DateFilter = "week"
	DatePast     DateFilter = "past"
)

// AppointmentFilter is the doctor's schedule search.
// Status is a status name or "all"; an empty field matches everything.
type AppointmentFilter struct {
	Search string
	Status string
	Date   DateFilter
}

// Apply returns the appointments that match f, preserving order.
func (f AppointmentFilter) Apply(list []Appointment, now time.Time) []Appointment {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	status := strings.ToLower(strings.TrimSpace(f.Status))

	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		if search != "" && !matchesSearch(a, search) {
			continue
		}
		if status != "" && status != "all" && a.Status.String() != status {
			continue
		}
		if !matchesDate(a.AppointmentDate.Time, f.Date, now) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesSearch(a Appointment, needle string) bool {
	fields := []string{a.AppointmentType, a.PatientName}
	if a.Patient != nil {
		fields = append(fields, a.Patient.FirstName, a.Patient.LastName, a.Patient.Email)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func matchesDate(at time.Time, f DateFilter, now time.Time) bool {
	switch f {
	case DateToday:
		return sameDay(at, now)
	case DateTomorrow:
		return sameDay(at, now.AddDate(0, 0, 1))
	case DateWeek:
		return !at.Before(now) && !at.After(now.AddDate(0, 0, 7))
	case DatePast:
		return at.Before(now)
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// maxUpcoming is how many upcoming appointments the dashboard lists.
const maxUpcoming = 5

// Dashboard summarises a doctor's appointments.
type Dashboard struct {
	Today         []Appointment
	Upcoming      []Appointment
	NewPatients   int
	TotalPatients int
}

// BuildDashboard computes today's list, the next week's first five,
// new patients seen in the last week and the number of distinct patients.
func BuildDashboard(list []Appointment, now time.Time) Dashboard {
	d := Dashboard{Today: []Appointment{}, Upcoming: []Appointment{}}
	weekAhead := now.AddDate(0, 0, 7)
	weekAgo := now.AddDate(0, 0, -7)
	patients := make(map[ID]struct{})

	for _, a := range list {
		at := a.AppointmentDate.Time
		if sameDay(at, now) {
			d.Today = append(d.Today, a)
		}
		if at.After(now) && !at.After(weekAhead) && len(d.Upcoming) < maxUpcoming {
			d.Upcoming = append(d.Upcoming, a)
		}
		if !at.Before(weekAgo) && a.IsNewPatient {
			d.NewPatients++
		}
		patients[a.PatientID] = struct{}{}
	}
	d.TotalPatients = len(patients)
	return d
}

// PatientSummary aggregates a doctor's appointments per patient.
type PatientSummary struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string

	Appointments []Appointment
	Pending      int
	Confirmed    int
	Completed    int
	Last         *Appointment
	Next         *Appointment
}

// Total is the number of appointments with this patient.
func (p PatientSummary) Total() int { return len(p.Appointments) }

// SummarisePatients groups appointments by patient (id, else email), in first-seen order.
// Appointments without an embedded patient are skipped.
func SummarisePatients(list []Appointment, now time.Time) []PatientSummary {
	index := make(map[string]int)
	var out []PatientSummary

	for _, a := range list {
		if a.Patient == nil {
			continue
		}
		key := a.Patient.ID.String()
		if key == "" {
			key = a.Patient.Email
		}

		i, ok := index[key]
		if !ok {
			out = append(out, newPatientSummary(key, a.Patient))
			i = len(out) - 1
			index[key] = i
		}
		p := &out[i]
		p.Appointments = append(p.Appointments, a)

		switch a.Status {
		case AppointmentPending:
			p.Pending++
		case AppointmentConfirmed:
			p.Confirmed++
		case AppointmentCompleted:
			p.Completed++
		}

		at := a.AppointmentDate.Time
		apt := a
		if at.Before(now) {
			if p.Last == nil || at.After(p.Last.AppointmentDate.Time) {
				p.Last = &apt
			}
		} else if p.Next == nil || at.Before(p.Next.AppointmentDate.Time) {
			p.Next = &apt
		}
	}
	return out
}

func newPatientSummary(key string, ref *PatientRef) PatientSummary {
	p := PatientSummary{
		ID:        key,
		FirstName: ref.FirstName,
		LastName:  ref.LastName,
		Email:     ref.Email,
		Phone:     ref.Phone,
	}
	if p.FirstName == "" {
		p.FirstName = "Unknown"
	}
	if p.Email == "" {
		p.Email = "No email"
	}
	if p.Phone == "" {
		p.Phone = "No phone"
	}
	return p
}

// PatientSort orders patient summaries.
type PatientSort string

const (
	SortByName         PatientSort = "name"
	SortByEmail        PatientSort = "email"
	SortByAppointments PatientSort = "appointments"
	SortByLastVisit    PatientSort = "lastVisit"
)

// SortPatients sorts list in place. Unknown keys leave the order unchanged.
func SortPatients(list []PatientSummary, by PatientSort) {
	var less func(a, b PatientSummary) bool
	switch by {
	case SortByName:
		less = func(a, b PatientSummary) bool {
			return a.FirstName+" "+a.LastName < b.FirstName+" "+b.LastName
		}
	case SortByEmail:
		less = func(a, b PatientSummary) bool { return a.Email < b.Email }
	case SortByAppointments:
		less = func(a, b PatientSummary) bool { return a.Total() > b.Total() }
	case SortByLastVisit:
		less = func(a, b PatientSummary) bool { return lastVisit(a).After(lastVisit(b)) }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

func lastVisit(p PatientSummary) time.Time {
	if p.Last == nil {
		return time.Time{}
	}
	return p.Last.AppointmentDate.Time
}

// FilterPatients keeps patients whose name or email contains search (case-insensitive).
func FilterPatients(list []PatientSummary, search string) []PatientSummary {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return list
	}
	out := make([]PatientSummary, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			out = append(out, p)
		}
	}
	return out
}
