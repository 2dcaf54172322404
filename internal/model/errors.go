package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not
	// exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned on sign-up with an already registered email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned on sign-in with a wrong email or
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is raised before issuing a data query when no
	// user is resolved.
	ErrUnauthenticated = errors.New("no authenticated user")
)

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")

	ErrResetTokenExpired  = errors.New("password reset link expired")
	ErrResetTokenConsumed = errors.New("password reset link already used")
)
