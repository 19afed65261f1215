package model

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest password the API accepts.
const MinPasswordLength = 6

// LoginRequest is the POST /Auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what the API returns on a successful login.
// User is present on newer API builds; older ones only send userName.
type LoginResponse struct {
	UserName string         `json:"userName"`
	Role     string         `json:"role"`
	Token    string         `json:"token"`
	IsAuth   *bool          `json:"isAuth"`
	Message  string         `json:"message"`
	User     map[string]any `json:"user"`
}

// Rejected reports an explicit isAuth=false.
func (r LoginResponse) Rejected() bool {
	return r.IsAuth != nil && !*r.IsAuth
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	FirstName         string `validate:"required"`
	LastName          string `validate:"required"`
	UserName          string `validate:"required"`
	Email             string `validate:"required,email"`
	Password          string `validate:"required,min=6"`
	ConfirmPassword   string `validate:"required,eqfield=Password"`
	PhoneNumber       string
	Gender            string
	DateOfBirth       string `validate:"omitempty,datetime=2006-01-02"`
	Role              string `validate:"required,oneof=Patient Doctor"`
	Specialization    string `validate:"required_if=Role Doctor"`
	Bio               string
	ProfilePictureURL string `validate:"omitempty,url"`
}

// RegisterPayload is the POST /Auth/register body. The API binds PascalCase names.
type RegisterPayload struct {
	FirstName         string `json:"FirstName"`
	LastName          string `json:"LastName"`
	UserName          string `json:"UserName"`
	Email             string `json:"Email"`
	Password          string `json:"Password"`
	ConfirmPassword   string `json:"ConfirmPassword"`
	PhoneNumber       string `json:"PhoneNumber"`
	Gender            string `json:"Gender"`
	DateOfBirth       string `json:"DateOfBirth"`
	Role              string `json:"Role"`
	Specialization    string `json:"Specialization"`
	Bio               string `json:"Bio"`
	ProfilePictureURL string `json:"ProfilePictureUrl"`
}

// Payload converts the form; a blank date of birth becomes now.
func (r RegisterRequest) Payload(now time.Time) RegisterPayload {
	dob := strings.TrimSpace(r.DateOfBirth)
	if dob == "" {
		dob = now.UTC().Format(time.RFC3339)
	}
	return RegisterPayload{
		FirstName:         strings.TrimSpace(r.FirstName),
		LastName:          strings.TrimSpace(r.LastName),
		UserName:          strings.TrimSpace(r.UserName),
		Email:             strings.TrimSpace(r.Email),
		Password:          r.Password,
		ConfirmPassword:   r.ConfirmPassword,
		PhoneNumber:       r.PhoneNumber,
		Gender:            r.Gender,
		DateOfBirth:       dob,
		Role:              r.Role,
		Specialization:    r.Specialization,
		Bio:               r.Bio,
		ProfilePictureURL: r.ProfilePictureURL,
	}
}

// APIResponse is the {success, message, data} envelope some endpoints use.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PasswordResetRequest starts the reset flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetCodeRequest checks the emailed code.
type VerifyResetCodeRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	ResetCode string `json:"resetCode" validate:"required"`
}

// ResetPasswordRequest sets the new password. ConfirmPassword never leaves the portal.
type ResetPasswordRequest struct {
	Email           string `json:"email"       validate:"required,email"`
	ResetCode       string `json:"resetCode"   validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"-"           validate:"required,eqfield=NewPassword"`
}
