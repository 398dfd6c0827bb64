// Package password реализует хеширование и проверку паролей на основе bcrypt.
//
// Каждый хеш содержит собственную случайную соль, поэтому одинаковые пароли
// дают разные хеши. Сравнение выполняется функцией bcrypt за постоянное время.
package password

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes предельная длина пароля для bcrypt в байтах.
const MaxBytes = 72

// dummyHash используется, когда пользователь не найден: сравнение с ним занимает
// столько же времени, сколько сравнение с настоящим хешем.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("accounts-service/dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("password: cannot build dummy hash: %v", err))
	}
	return h
})

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хеш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хеш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хешу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompareDummy выполняет сравнение с заранее подготовленным хешем и всегда
// возвращает ошибку. Нужна, чтобы ответ для несуществующего пользователя
// не был заметно быстрее ответа для неверного пароля.
func CompareDummy(externalPassword string) error {
	const op = "password.CompareDummy"
	err := bcrypt.CompareHashAndPassword(dummyHash(), []byte(externalPassword))
	if err == nil {
		err = bcrypt.ErrMismatchedHashAndPassword
	}
	return fmt.Errorf("%s: %w", op, err)
}
