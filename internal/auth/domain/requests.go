package domain

type SignUpRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,authemail"`
	Password string `json:"password" validate:"required,min=4,max=20"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,authemail"`
	Password string `json:"password" validate:"required,min=4,max=20"`
}

// ChangePasswordRequest.Email is filled from the authenticated caller, never
// from client input.
type ChangePasswordRequest struct {
	Email       string `json:"-" validate:"required,authemail"`
	Password    string `json:"password" validate:"required,min=4,max=20"`
	NewPassword string `json:"newpassword" validate:"required,min=4,max=20,strongpassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,authemail"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newpassword" validate:"required,strongpassword"`
}
