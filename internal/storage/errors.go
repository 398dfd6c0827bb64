// Package storage содержит ошибки слоя хранения, общие для всех реализаций репозитория.
package storage

import "errors"

var (
	// ErrUserNotFound пользователь с указанным идентификатором или email не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists email уже занят другим пользователем.
	ErrUserExists = errors.New("user already exists")
)
