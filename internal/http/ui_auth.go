package httpx

import (
	"context"
	"net/http"

	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
)

func loginMeta() PageMeta {
	return PageMeta{Title: "Login", PageTitle: "Sign in", CurrentPage: PageLogin}
}

func signUpMeta() PageMeta {
	return PageMeta{Title: "Sign Up", PageTitle: "Create an account", CurrentPage: PageSignUp}
}

func resetMeta() PageMeta {
	return PageMeta{Title: "Reset Password", PageTitle: "Reset your password", CurrentPage: PageResetPassword}
}

// LoginPage shows the login form. A logged-in user is sent to their landing page.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess.IsAuthenticated {
		http.Redirect(w, r, nav.LandingPath(sess.Role), http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, loginMeta(), map[string]any{
		"RedirectURI": loginRedirect(r.URL.Query().Get("redirect_uri")),
	}, nil)
}

// Login submits credentials. On success the browser goes to the page the gate
// bounced it from, or to the role's landing page.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.renderForm(w, r, loginMeta(), nil, err)
		return
	}
	email := formValue(r, "email")
	redirect := loginRedirect(r.FormValue("redirect_uri"))

	res, err := h.Accounts.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		h.renderForm(w, r, loginMeta(), map[string]any{
			"Email":       email,
			"RedirectURI": redirect,
		}, err)
		return
	}

	target := res.LandingPath
	if redirect != "" {
		target = redirect
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// loginRedirect keeps only same-origin paths; "/" and invalid values mean "use the landing page".
func loginRedirect(raw string) string {
	if raw == "" {
		return ""
	}
	if p := safeRedirectPath(raw); p != "/" {
		return p
	}
	return ""
}

// Logout ends the session and returns to the login page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context()); err != nil {
		h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		h.renderForm(w, r, loginMeta(), nil, err)
		return
	}
	seeOther(w, r, "/login", "logged-out")
}

// SignUpPage shows the registration form.
func (h *UIHandlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, signUpMeta(), map[string]any{
		"Form": model.RegisterRequest{Role: "Patient"},
	}, nil)
}

// SignUp registers the account and sends the user to log in.
func (h *UIHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.RegisterRequest]{
		UI:     h,
		W:      w,
		R:      r,
		Parser: parseRegisterForm,
		Submit: func(ctx context.Context, req model.RegisterRequest) error {
			_, err := h.Accounts.Register(ctx, req)
			return err
		},
		SuccessURL: "/login",
		Flash:      "registered",
		PageMeta:   signUpMeta(),
	})
}

func parseRegisterForm(r *http.Request) (model.RegisterRequest, error) {
	if err := parseForm(r); err != nil {
		return model.RegisterRequest{}, err
	}
	return model.RegisterRequest{
		FirstName:         formValue(r, "firstName"),
		LastName:          formValue(r, "lastName"),
		UserName:          formValue(r, "userName"),
		Email:             formValue(r, "email"),
		Password:          r.FormValue("password"),
		ConfirmPassword:   r.FormValue("confirmPassword"),
		PhoneNumber:       formValue(r, "phoneNumber"),
		Gender:            formValue(r, "gender"),
		DateOfBirth:       formValue(r, "dateOfBirth"),
		Role:              formValue(r, "role"),
		Specialization:    formValue(r, "specialization"),
		Bio:               formValue(r, "bio"),
		ProfilePictureURL: formValue(r, "profilePictureUrl"),
	}, nil
}

// ResetPasswordPage shows the first step of the reset flow.
func (h *UIHandlers) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderReset(w, r, resetState{Step: ResetStepRequest}, nil)
}

// resetState is carried between the three reset steps in hidden fields.
type resetState struct {
	Step  string
	Email string
	Code  string
}

func (h *UIHandlers) renderReset(w http.ResponseWriter, r *http.Request, st resetState, err error) {
	h.renderForm(w, r, resetMeta(), map[string]any{"Reset": st}, err)
}

// ResetPasswordRequest emails a reset code, then shows the code step.
func (h *UIHandlers) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	st := resetState{Step: ResetStepRequest}
	if err := parseForm(r); err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	st.Email = formValue(r, "email")
	if err := h.Accounts.RequestPasswordReset(r.Context(), st.Email); err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	st.Step = ResetStepVerify
	h.renderReset(w, r, st, nil)
}

// ResetPasswordVerify checks the code, then shows the new-password step.
func (h *UIHandlers) ResetPasswordVerify(w http.ResponseWriter, r *http.Request) {
	st := resetState{Step: ResetStepVerify}
	if err := parseForm(r); err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	st.Email, st.Code = formValue(r, "email"), formValue(r, "code")
	if err := h.Accounts.VerifyResetCode(r.Context(), st.Email, st.Code); err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	st.Step = ResetStepConfirm
	h.renderReset(w, r, st, nil)
}

// ResetPasswordConfirm sets the new password and sends the user to log in.
func (h *UIHandlers) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	st := resetState{Step: ResetStepConfirm}
	if err := parseForm(r); err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	st.Email, st.Code = formValue(r, "email"), formValue(r, "code")
	err := h.Accounts.ResetPassword(r.Context(), st.Email, st.Code, r.FormValue("newPassword"), r.FormValue("confirmPassword"))
	if err != nil {
		h.renderReset(w, r, st, err)
		return
	}
	seeOther(w, r, "/login", "password-reset")
}
