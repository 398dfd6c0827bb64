// Package jwt реализует выпуск и проверку access-токенов пользователей.
//
// Токен подписывается HS256 и содержит идентификатор пользователя (sub),
// его роль и срок действия. Токены не хранятся на сервере: валидность
// определяется только подписью и временем истечения.
package jwt

import (
	"errors"
	"time"
)

// ErrInvalidToken возвращается при любой ошибке проверки токена:
// подделанная подпись, чужой алгоритм, истёкший срок или мусор на входе.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа и TTL.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// WithClock подменяет источник текущего времени. Используется в тестах.
func (j *MakerImpl) WithClock(now func() time.Time) *MakerImpl {
	j.now = now
	return j
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
