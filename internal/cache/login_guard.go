package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const loginAttemptsPrefix = "login_attempts:"

// LoginGuard считает неудачные попытки входа по email.
type LoginGuard struct {
	cache       *Cache
	maxAttempts int64
	window      time.Duration
}

// NewLoginGuard создает счётчик попыток: после maxAttempts неудач вход
// блокируется до истечения window.
func NewLoginGuard(c *Cache, maxAttempts int, window time.Duration) *LoginGuard {
	return &LoginGuard{cache: c, maxAttempts: int64(maxAttempts), window: window}
}

func attemptsKey(email string) string {
	return loginAttemptsPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Allowed сообщает, можно ли ещё пытаться войти под email.
func (g *LoginGuard) Allowed(ctx context.Context, email string) (bool, error) {
	const op = "cache.LoginGuard.Allowed"
	n, err := g.cache.Count(ctx, attemptsKey(email))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n < g.maxAttempts, nil
}

// Fail фиксирует неудачную попытку.
func (g *LoginGuard) Fail(ctx context.Context, email string) error {
	const op = "cache.LoginGuard.Fail"
	if _, err := g.cache.Incr(ctx, attemptsKey(email), g.window); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Reset сбрасывает счётчик после успешного входа.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	const op = "cache.LoginGuard.Reset"
	if err := g.cache.Invalidate(ctx, attemptsKey(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
