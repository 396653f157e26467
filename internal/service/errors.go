package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRecord      = errors.New("invalid match record")
	ErrInvalidAccount     = errors.New("invalid account details")
)
