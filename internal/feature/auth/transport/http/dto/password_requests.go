package dto

// ForgotPasswordReq represents the request for issuing a password reset code.
type ForgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendCodeReq represents the request for re-issuing a reset code.
type ResendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq represents the request for redeeming a reset code.
type ResetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordReq represents the authenticated password change request.
type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
