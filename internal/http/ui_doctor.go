package httpx

import (
	"context"
	"net/http"

	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
	apperrors "github.com/medscan/portal/internal/errors"
)

func clinicMeta() PageMeta {
	return PageMeta{Title: "Clinic Info", PageTitle: "Clinic information", CurrentPage: PageClinicInfo}
}

// DoctorDashboard shows today's appointments, the coming week and patient counts.
func (h *UIHandlers) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDoctorDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			dash, err := h.Appointments.Dashboard(ctx)
			if err != nil {
				return err
			}
			data["Dashboard"] = dash
			return nil
		},
	})
}

// Schedule is the doctor's schedule with search, status and date filters.
func (h *UIHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.AppointmentFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Date:   model.DateFilter(q.Get("date")),
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Schedule", PageTitle: "All appointments", CurrentPage: PageAppointments},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Filter"] = filter
			list, err := h.Appointments.List(ctx)
			if err != nil {
				return err
			}
			data["Total"] = len(list)
			data["Appointments"] = h.Appointments.Filter(list, filter)
			return nil
		},
	})
}

// UpdateAppointmentStatus confirms or completes an appointment.
func (h *UIHandlers) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	err := parseForm(r)
	if err == nil {
		var status model.AppointmentStatus
		status, err = model.ParseAppointmentStatus(r.FormValue("status"))
		if err != nil {
			err = apperrors.ValidationField("Status", err.Error())
		} else {
			err = h.Appointments.UpdateStatus(r.Context(), id, status)
		}
	}
	h.afterAppointmentChange(w, r, err, "status")
}

// DeleteAppointment removes an appointment.
func (h *UIHandlers) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	err := h.Appointments.Delete(r.Context(), model.ID(r.PathValue("id")))
	h.afterAppointmentChange(w, r, err, "deleted")
}

func (h *UIHandlers) afterAppointmentChange(w http.ResponseWriter, r *http.Request, err error, flash string) {
	if err != nil {
		h.logger().WarnContext(r.Context(), "appointment change failed",
			"id", r.PathValue("id"),
			"error", err,
		)
		h.renderForm(w, r, PageMeta{Title: "Schedule", PageTitle: "All appointments", CurrentPage: PageAppointments},
			map[string]any{"Filter": model.AppointmentFilter{}}, err)
		return
	}
	seeOther(w, r, "/all-appointments", flash)
}

// Patients lists everyone the doctor has appointments with.
func (h *UIHandlers) Patients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	sortBy := model.PatientSort(q.Get("sort"))
	if sortBy == "" {
		sortBy = model.SortByName
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Patients", PageTitle: "My patients", CurrentPage: PagePatients},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Search"] = search
			data["Sort"] = string(sortBy)
			patients, err := h.Appointments.Patients(ctx, search, sortBy)
			if err != nil {
				return err
			}
			data["Patients"] = patients
			return nil
		},
	})
}

// ClinicInfo shows the clinic form filled with the stored values.
func (h *UIHandlers) ClinicInfo(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: clinicMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			info, err := h.Directory.ClinicInfo(ctx)
			if err != nil {
				return err
			}
			data["Form"] = info
			return nil
		},
	})
}

// UpdateClinicInfo saves the clinic form.
func (h *UIHandlers) UpdateClinicInfo(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.ClinicInfo]{
		UI:         h,
		W:          w,
		R:          r,
		Parser:     parseClinicForm,
		Submit:     h.Directory.UpdateClinicInfo,
		SuccessURL: "/clinic-info",
		Flash:      "clinic",
		PageMeta:   clinicMeta(),
	})
}

// parseClinicForm reads the clinic fields plus the repeated dayOfWeek/dayHours rows.
// Rows with both cells blank are dropped; at least one row is always kept.
func parseClinicForm(r *http.Request) (model.ClinicInfo, error) {
	if err := parseForm(r); err != nil {
		return model.ClinicInfo{}, err
	}
	info := model.ClinicInfo{
		ClinicName:       formValue(r, "clinicName"),
		Address:          formValue(r, "address"),
		PhoneNumber:      formValue(r, "phoneNumber"),
		Email:            formValue(r, "email"),
		Description:      formValue(r, "description"),
		Specializations:  formValue(r, "specializations"),
		WorkingHours:     formValue(r, "workingHours"),
		EmergencyContact: formValue(r, "emergencyContact"),
		Website:          formValue(r, "website"),
		WorkingTime:      formValue(r, "workingTime"),
		WeeklySchedule:   formValue(r, "weeklySchedule"),
	}

	days := r.Form["dayOfWeek"]
	hours := r.Form["dayHours"]
	for i, day := range days {
		var hrs string
		if i < len(hours) {
			hrs = hours[i]
		}
		if day == "" && hrs == "" {
			continue
		}
		info.WorkingDays = append(info.WorkingDays, model.WorkingDay{DayOfWeek: day, WorkingHours: hrs})
	}
	if len(info.WorkingDays) == 0 {
		info.WorkingDays = []model.WorkingDay{{}}
	}
	return info, nil
}

// Profile sends the user to their role's landing page.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, nav.LandingPath(h.session(r).Role), http.StatusSeeOther)
}
