package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrRoleMismatch       = errors.New("account role does not match this login")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
