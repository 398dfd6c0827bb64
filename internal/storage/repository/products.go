package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/accounts-service/internal/models"
)

// ListProductsByPoster возвращает объявления, размещённые пользователем posterID.
func (s *Storage) ListProductsByPoster(ctx context.Context, posterID string) ([]*models.Product, error) {
	const op = "storage.ListProductsByPoster"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	result := make([]*models.Product, 0)
	if !validID(posterID) {
		return result, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT uid, name, description, category, price, poster, created_at
		FROM products
		WHERE poster = $1
		ORDER BY created_at, uid`, posterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category,
			&p.Price, &p.Poster, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
