// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidCredentials is returned on login failure. The message is
	// deliberately identical for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyExists is returned when attempting to register an email
	// that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrCodeInvalid is returned when no unused, unexpired reset code matches,
	// or when a concurrent reset consumed the code first.
	ErrCodeInvalid = errors.New("invalid or expired reset code")

	// ErrWrongPassword is returned when the current password check fails
	// during a password change.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrPasswordTooShort is returned when a new password does not meet the
	// minimum length requirement.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
)
