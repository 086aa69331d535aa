package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile representa o cadastro de um participante da plataforma.
type Profile struct {
	ID            Principal       `json:"id" db:"id"`
	DisplayName   string          `json:"display_name" db:"display_name"`
	Contact       string          `json:"contact" db:"contact"`
	TotalInvested decimal.Decimal `json:"total_invested" db:"total_invested"` // Nunca diminui
	Verified      bool            `json:"verified" db:"verified"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
