package models

import "time"

// OfferStatus é o estado de uma oferta de venda.
type OfferStatus string

const (
	OfferOpen      OfferStatus = "open"
	OfferFilled    OfferStatus = "filled"
	OfferCancelled OfferStatus = "cancelled"
)

// Terminal informa se nenhuma transição sai deste estado.
func (s OfferStatus) Terminal() bool {
	return s == OfferFilled || s == OfferCancelled
}

// Offer representa a intenção de um titular de vender tokens a um preço fixo.
type Offer struct {
	ID            uint64      `json:"id" db:"id"`
	Asset         uint64      `json:"asset_id" db:"asset_id"`
	Seller        Principal   `json:"seller" db:"seller"`
	TokensOffered uint64      `json:"tokens_offered" db:"tokens_offered"`
	PricePerToken uint64      `json:"price_per_token" db:"price_per_token"`
	Status        OfferStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty" db:"closed_at"`
}
