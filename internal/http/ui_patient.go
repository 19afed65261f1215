package httpx

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/medscan/portal/internal/domain/model"
	apperrors "github.com/medscan/portal/internal/errors"
)

// maxUploadBytes bounds scan uploads and multipart forms.
const maxUploadBytes = 10 << 20

func bookingMeta() PageMeta {
	return PageMeta{Title: "Booking", PageTitle: "Book an appointment", CurrentPage: PageBooking}
}

func scanMeta() PageMeta {
	return PageMeta{Title: "Scan", PageTitle: "AI scan", CurrentPage: PageScan}
}

func (h *UIHandlers) loadDoctors(ctx context.Context, data map[string]any) error {
	doctors, err := h.Directory.Doctors(ctx)
	if err != nil {
		return err
	}
	data["Doctors"] = doctors
	return nil
}

// BookingPage lists doctors and the booking form; ?doctorId= preselects one.
func (h *UIHandlers) BookingPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: bookingMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Form"] = model.BookingRequest{DoctorID: r.URL.Query().Get("doctorId")}
			return h.loadDoctors(ctx, data)
		},
	})
}

// Book creates the appointment.
func (h *UIHandlers) Book(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.BookingRequest]{
		UI: h,
		W:  w,
		R:  r,
		Parser: func(r *http.Request) (model.BookingRequest, error) {
			if err := parseForm(r); err != nil {
				return model.BookingRequest{}, err
			}
			return model.BookingRequest{
				DoctorID: formValue(r, "doctorId"),
				Date:     formValue(r, "date"),
				Time:     formValue(r, "time"),
				Notes:    formValue(r, "notes"),
			}, nil
		},
		Submit:     h.Appointments.Book,
		SuccessURL: "/patient-profile",
		Flash:      "booked",
		PageMeta:   bookingMeta(),
		Reload:     h.loadDoctors,
	})
}

// ScanPage shows the upload form.
func (h *UIHandlers) ScanPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, scanMeta(), map[string]any{"DiseaseTypes": model.DiseaseTypes}, nil)
}

// Scan uploads the image to the scan service and shows the result.
func (h *UIHandlers) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	req, err := parseScanForm(r)
	if err == nil {
		_, err = h.Scans.Submit(r.Context(), req)
	}
	if err != nil {
		h.renderForm(w, r, scanMeta(), map[string]any{
			"DiseaseTypes": model.DiseaseTypes,
			"Form":         model.ScanRequest{DiseaseType: req.DiseaseType, FileName: req.FileName},
		}, err)
		return
	}
	http.Redirect(w, r, "/scan-result", http.StatusSeeOther)
}

func parseScanForm(r *http.Request) (model.ScanRequest, error) {
	if err := parseForm(r); err != nil {
		return model.ScanRequest{}, err
	}
	req := model.ScanRequest{DiseaseType: formValue(r, "diseaseType")}

	f, hdr, err := r.FormFile("image")
	if err != nil {
		return req, apperrors.ValidationField("Image", "please select an image")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return req, apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not read the uploaded image")
	}
	req.FileName = hdr.Filename
	req.Image = data
	return req, nil
}

// ScanResult shows the last scan answer; without one the user is sent to upload.
func (h *UIHandlers) ScanResult(w http.ResponseWriter, r *http.Request) {
	res, ok := h.Scans.Last()
	if !ok {
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, PageMeta{Title: "Scan Result", PageTitle: "Scan result", CurrentPage: PageScanResult},
		map[string]any{
			"Result": res,
			"Fields": res.Fields(),
			"Raw":    string(res.Result),
		}, nil)
}

// PatientProfile shows the patient's details and their appointments.
func (h *UIHandlers) PatientProfile(w http.ResponseWriter, r *http.Request) {
	h.profilePage(w, r, PageMeta{Title: "My Profile", PageTitle: "My profile", CurrentPage: PagePatientProfile})
}

// DoctorProfile shows the doctor's details.
func (h *UIHandlers) DoctorProfile(w http.ResponseWriter, r *http.Request) {
	h.profilePage(w, r, PageMeta{Title: "Doctor Profile", PageTitle: "My profile", CurrentPage: PageDoctorProfile})
}

func (h *UIHandlers) profilePage(w http.ResponseWriter, r *http.Request, meta PageMeta) {
	h.Page(w, r, PageSpec{
		Meta: meta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			return h.loadProfile(ctx, r, data)
		},
	})
}

func (h *UIHandlers) loadProfile(ctx context.Context, r *http.Request, data map[string]any) error {
	p, err := h.Directory.Profile(ctx)
	if err != nil {
		return err
	}
	data["Profile"] = p
	data["Initials"] = p.Initials(initialFallback(h.session(r).DisplayName()), "")

	appts, err := h.Appointments.List(ctx)
	if err != nil {
		return err
	}
	data["Appointments"] = appts
	return nil
}

func initialFallback(name string) string {
	if name == "" {
		return "U"
	}
	return strings.ToUpper(name)
}

// UpdatePatientProfile saves the patient's details.
func (h *UIHandlers) UpdatePatientProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, PageMeta{Title: "My Profile", PageTitle: "My profile", CurrentPage: PagePatientProfile}, "/patient-profile")
}

// UpdateDoctorProfile saves the doctor's details.
func (h *UIHandlers) UpdateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, PageMeta{Title: "Doctor Profile", PageTitle: "My profile", CurrentPage: PageDoctorProfile}, "/doctor-profile")
}

func (h *UIHandlers) updateProfile(w http.ResponseWriter, r *http.Request, meta PageMeta, success string) {
	HandleForm(FormHandlerOpts[model.Profile]{
		UI:         h,
		W:          w,
		R:          r,
		Parser:     parseProfileForm,
		Submit:     h.Directory.UpdateProfile,
		SuccessURL: success,
		Flash:      "profile",
		PageMeta:   meta,
		// The submitted values are shown in place of the stored profile.
		Reload: func(ctx context.Context, data map[string]any) error {
			data["Profile"] = data["Form"]
			appts, err := h.Appointments.List(ctx)
			data["Appointments"] = appts
			return err
		},
	})
}

func parseProfileForm(r *http.Request) (model.Profile, error) {
	if err := parseForm(r); err != nil {
		return model.Profile{}, err
	}
	return model.Profile{
		FirstName:      formValue(r, "firstName"),
		LastName:       formValue(r, "lastName"),
		Email:          formValue(r, "email"),
		PhoneNumber:    formValue(r, "phoneNumber"),
		DateOfBirth:    formValue(r, "dateOfBirth"),
		Gender:         formValue(r, "gender"),
		Specialization: formValue(r, "specialization"),
		Bio:            formValue(r, "bio"),
	}, nil
}
