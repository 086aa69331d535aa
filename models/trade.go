package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeKind distingue compras primárias de negociações entre titulares.
type TradeKind string

const (
	TradePrimary   TradeKind = "primary"
	TradeSecondary TradeKind = "secondary"
)

// Trade é o registro imutável de uma liquidação concluída.
type Trade struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Kind          TradeKind       `json:"kind" db:"kind"`
	Asset         uint64          `json:"asset_id" db:"asset_id"`
	OfferID       uint64          `json:"offer_id,omitempty" db:"offer_id"` // Zero em compras primárias
	Seller        Principal       `json:"seller,omitempty" db:"seller"`     // Anônimo em compras primárias
	Buyer         Principal       `json:"buyer" db:"buyer"`
	Tokens        uint64          `json:"tokens" db:"tokens"`
	PricePerToken uint64          `json:"price_per_token" db:"price_per_token"`
	Cost          decimal.Decimal `json:"cost" db:"cost"`
	ExecutedAt    time.Time       `json:"executed_at" db:"executed_at"`
}
