package models

import "time"

// Product объявление, размещённое пользователем (poster).
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int       `json:"price"`
	Poster      string    `json:"poster"`
	CreatedAt   time.Time `json:"createdAt"`
}
