package services

import "errors"

// Ошибки бизнес-уровня. HTTP-слой сопоставляет их со статусами ответа.
var (
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("user not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
)
