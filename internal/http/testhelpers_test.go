package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
	"github.com/medscan/portal/internal/service"
	"github.com/medscan/portal/internal/testutil"
)

// templatePathFromTest is the template directory relative to this package.
const templatePathFromTest = "../../web/templates"

// testCSRFToken is the double-submit token test requests carry in cookie and body.
const testCSRFToken = "test-csrf-token"

func withCSRF(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	return req
}

type fakeSession struct {
	mu sync.Mutex
	s  domainauth.Session
}

func (f *fakeSession) Snapshot() domainauth.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func (f *fakeSession) set(s domainauth.Session) {
	f.mu.Lock()
	f.s = s
	f.mu.Unlock()
}

func loadingSession() domainauth.Session {
	return domainauth.Session{Role: domainauth.RoleUnknown, IsLoading: true}
}

func sessionFor(name string, role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		IsAuthenticated: true,
		User:            &domainauth.User{UserName: name, Role: role},
		Role:            role,
		Token:           "secret-token",
		ExpiresAt:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type fakeAccounts struct {
	loginErr    error
	registerErr error
	resetErr    error
	logoutErr   error

	registered []model.RegisterRequest
	resetCalls []string
	loggedOut  int
}

func (f *fakeAccounts) Login(_ context.Context, email, _ string) (*service.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	role := domainauth.RolePatient
	if strings.HasPrefix(email, "dr") {
		role = domainauth.RoleDoctor
	}
	return &service.LoginResult{UserName: email, Role: role, LandingPath: nav.LandingPath(role)}, nil
}

func (f *fakeAccounts) Register(_ context.Context, req model.RegisterRequest) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	if err := model.Validate(req); err != nil {
		return "", err
	}
	f.registered = append(f.registered, req)
	return "Registered", nil
}

func (f *fakeAccounts) RequestPasswordReset(_ context.Context, email string) error {
	f.resetCalls = append(f.resetCalls, "request:"+email)
	return f.resetErr
}

func (f *fakeAccounts) VerifyResetCode(_ context.Context, email, code string) error {
	f.resetCalls = append(f.resetCalls, "verify:"+email+":"+code)
	return f.resetErr
}

func (f *fakeAccounts) ResetPassword(_ context.Context, email, code, _, _ string) error {
	f.resetCalls = append(f.resetCalls, "confirm:"+email+":"+code)
	return f.resetErr
}

func (f *fakeAccounts) Logout(context.Context) error {
	f.loggedOut++
	return f.logoutErr
}

type statusUpdate struct {
	ID     model.ID
	Status model.AppointmentStatus
}

type fakeAppointments struct {
	list    []model.Appointment
	listErr error
	bookErr error

	booked  []model.BookingRequest
	updated []statusUpdate
	deleted []model.ID
}

func (f *fakeAppointments) List(context.Context) ([]model.Appointment, error) {
	return f.list, f.listErr
}

func (f *fakeAppointments) Book(_ context.Context, req model.BookingRequest) error {
	if f.bookErr != nil {
		return f.bookErr
	}
	if err := model.Validate(req); err != nil {
		return err
	}
	f.booked = append(f.booked, req)
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id model.ID, status model.AppointmentStatus) error {
	f.updated = append(f.updated, statusUpdate{ID: id, Status: status})
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id model.ID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAppointments) Filter(list []model.Appointment, filter model.AppointmentFilter) []model.Appointment {
	return filter.Apply(list, time.Now())
}

func (f *fakeAppointments) Dashboard(context.Context) (model.Dashboard, error) {
	if f.listErr != nil {
		return model.Dashboard{}, f.listErr
	}
	return model.BuildDashboard(f.list, time.Now()), nil
}

func (f *fakeAppointments) Patients(_ context.Context, search string, by model.PatientSort) ([]model.PatientSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := model.FilterPatients(model.SummarisePatients(f.list, time.Now()), search)
	model.SortPatients(out, by)
	return out, nil
}

type fakeDirectory struct {
	doctors    []model.Doctor
	doctorsErr error
	profile    model.Profile
	clinic     model.ClinicInfo

	savedProfiles []model.Profile
	savedClinics  []model.ClinicInfo
}

func (f *fakeDirectory) Doctors(context.Context) ([]model.Doctor, error) {
	return f.doctors, f.doctorsErr
}

func (f *fakeDirectory) Profile(context.Context) (model.Profile, error) {
	return f.profile, nil
}

func (f *fakeDirectory) UpdateProfile(_ context.Context, p model.Profile) error {
	if err := model.Validate(p); err != nil {
		return err
	}
	f.savedProfiles = append(f.savedProfiles, p)
	return nil
}

func (f *fakeDirectory) ClinicInfo(context.Context) (model.ClinicInfo, error) {
	return f.clinic, nil
}

func (f *fakeDirectory) UpdateClinicInfo(_ context.Context, info model.ClinicInfo) error {
	f.savedClinics = append(f.savedClinics, info)
	return nil
}

type fakeScans struct {
	last      *model.ScanResult
	submitted []model.ScanRequest
}

func (f *fakeScans) Submit(_ context.Context, req model.ScanRequest) (model.ScanResult, error) {
	if err := model.Validate(req); err != nil {
		return model.ScanResult{}, err
	}
	f.submitted = append(f.submitted, req)
	res := model.ScanResult{
		DiseaseType: req.DiseaseType,
		Result:      []byte(`{"prediction":"benign","confidence":0.93}`),
		ReceivedAt:  time.Now(),
	}
	f.last = &res
	return res, nil
}

func (f *fakeScans) Last() (model.ScanResult, bool) {
	if f.last == nil {
		return model.ScanResult{}, false
	}
	return *f.last, true
}

type fakeNotifications struct {
	snap service.NotificationSnapshot
	err  error

	refreshed int
	read      []model.ID
	readAll   int
	deleted   []model.ID
}

func (f *fakeNotifications) Snapshot() service.NotificationSnapshot { return f.snap }

func (f *fakeNotifications) Refresh(context.Context) error {
	f.refreshed++
	return f.err
}

func (f *fakeNotifications) MarkAsRead(_ context.Context, id model.ID) error {
	f.read = append(f.read, id)
	return f.err
}

func (f *fakeNotifications) MarkAllAsRead(context.Context) error {
	f.readAll++
	return f.err
}

func (f *fakeNotifications) Delete(_ context.Context, id model.ID) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

// testPortal bundles the router with the fakes behind it.
type testPortal struct {
	handler       http.Handler
	session       *fakeSession
	accounts      *fakeAccounts
	appointments  *fakeAppointments
	directory     *fakeDirectory
	scans         *fakeScans
	notifications *fakeNotifications
}

func newTestPortal(t *testing.T, sess domainauth.Session) *testPortal {
	t.Helper()
	p := &testPortal{
		session:       &fakeSession{s: sess},
		accounts:      &fakeAccounts{},
		appointments:  &fakeAppointments{},
		directory:     &fakeDirectory{},
		scans:         &fakeScans{},
		notifications: &fakeNotifications{},
	}
	h, err := NewRouter(RouterServices{
		Session:       p.session,
		Accounts:      p.accounts,
		Appointments:  p.appointments,
		Directory:     p.directory,
		Scans:         p.scans,
		Notifications: p.notifications,
		TemplateFS:    os.DirFS(templatePathFromTest),
		Logger:        testutil.DiscardLogger(),
	})
	require.NoError(t, err)
	p.handler = h
	return p
}

func (p *testPortal) get(path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	p.handler.ServeHTTP(rec, req)
	return rec
}

func (p *testPortal) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	withToken := url.Values{CSRFCookieName: {testCSRFToken}}
	for k, v := range form {
		withToken[k] = v
	}
	req := withCSRF(httptest.NewRequest(http.MethodPost, path, strings.NewReader(withToken.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	p.handler.ServeHTTP(rec, req)
	return rec
}

func (p *testPortal) do(method, path string) *httptest.ResponseRecorder {
	req := withCSRF(httptest.NewRequest(method, path, nil))
	req.Header.Set("Accept", "application/json")
	req.Header.Set(CSRFHeaderName, testCSRFToken)
	rec := httptest.NewRecorder()
	p.handler.ServeHTTP(rec, req)
	return rec
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
