package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingKey é a chave composta (obra, titular) de uma posição.
type HoldingKey struct {
	Asset  uint64
	Holder Principal
}

// Holding representa quantos tokens de uma obra um participante possui.
// Um registro só existe enquanto TokensHeld > 0.
type Holding struct {
	Asset       uint64          `json:"asset_id" db:"asset_id"`
	Holder      Principal       `json:"holder" db:"holder"`
	TokensHeld  uint64          `json:"tokens_held" db:"tokens_held"`
	CostBasis   decimal.Decimal `json:"cost_basis" db:"cost_basis"` // Soma do que foi pago pelos tokens, em e8s
	PurchasedAt time.Time       `json:"purchased_at" db:"purchased_at"`
}

// Key devolve a chave composta do registro.
func (h Holding) Key() HoldingKey {
	return HoldingKey{Asset: h.Asset, Holder: h.Holder}
}
