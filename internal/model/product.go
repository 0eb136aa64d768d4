package model

import "time"

// Product is an independent catalogue record with the same lifecycle as Document.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductPatch struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Price       *Price         `json:"price"`
	Category    *string        `json:"category"`
	PhotoURL    OptionalString `json:"photo_url"`
}
