package models

import "time"

// Asset representa uma obra de arte registrada e fracionada em tokens.
type Asset struct {
	ID            uint64    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Artist        string    `json:"artist" db:"artist"`
	Description   string    `json:"description" db:"description"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	TotalSupply   uint64    `json:"total_supply" db:"total_supply"`       // Quantidade fixa de tokens emitidos para a obra
	PricePerToken uint64    `json:"price_per_token" db:"price_per_token"` // Preço primário em e8s
	Verified      bool      `json:"verified" db:"verified"`               // Só muda de false para true
	Creator       Principal `json:"creator" db:"creator"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// NewAsset carrega os dados informados pelo criador no registro de uma obra.
type NewAsset struct {
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	TotalSupply   uint64 `json:"total_supply"`
	PricePerToken uint64 `json:"price_per_token"`
}
