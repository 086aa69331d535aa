package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ferreirogomes/artshare/models"
)

// OwnershipLedger mantém as posições (obra, titular) → tokens e custo.
type OwnershipLedger struct {
	s *Store
}

// HoldingOf busca a posição de um titular em uma obra.
func (l *OwnershipLedger) HoldingOf(asset uint64, holder models.Principal) (models.Holding, bool) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.holdingOf(asset, holder)
}

// TotalSold soma os tokens em circulação de uma obra.
func (l *OwnershipLedger) TotalSold(asset uint64) uint64 {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.totalSold(asset)
}

// Credit adiciona tokens e custo à posição, criando-a se preciso. Não valida
// o limite de oferta; isso cabe a quem chama.
func (l *OwnershipLedger) Credit(asset uint64, holder models.Principal, tokens uint64, cost decimal.Decimal) models.Holding {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.credit(asset, holder, tokens, cost)
}

// Debit retira tokens da posição e apaga o registro quando ele zera.
func (l *OwnershipLedger) Debit(asset uint64, holder models.Principal, tokens uint64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.debit(asset, holder, tokens)
}

// HoldingsOf lista as posições de um titular.
func (l *OwnershipLedger) HoldingsOf(holder models.Principal) []models.Holding {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.filterHoldings(func(h models.Holding) bool { return h.Holder == holder })
}

// HoldersOf lista a distribuição de posse de uma obra.
func (l *OwnershipLedger) HoldersOf(asset uint64) []models.Holding {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.filterHoldings(func(h models.Holding) bool { return h.Asset == asset })
}

func (s *Store) holdingOf(asset uint64, holder models.Principal) (models.Holding, bool) {
	h, ok := s.holdings[models.HoldingKey{Asset: asset, Holder: holder}]
	return h, ok
}

// totalSold percorre todos os titulares; O(n) é aceitável neste volume.
func (s *Store) totalSold(asset uint64) uint64 {
	var sold uint64
	for k, h := range s.holdings {
		if k.Asset == asset {
			sold += h.TokensHeld
		}
	}
	return sold
}

func (s *Store) credit(asset uint64, holder models.Principal, tokens uint64, cost decimal.Decimal) models.Holding {
	key := models.HoldingKey{Asset: asset, Holder: holder}
	h, ok := s.holdings[key]
	if tokens == 0 {
		return h
	}
	if !ok {
		h = models.Holding{
			Asset:       asset,
			Holder:      holder,
			CostBasis:   decimal.Zero,
			PurchasedAt: s.clock.Now(),
		}
	}
	h.TokensHeld += tokens
	h.CostBasis = h.CostBasis.Add(cost)
	s.holdings[key] = h
	return h
}

func (s *Store) debit(asset uint64, holder models.Principal, tokens uint64) error {
	key := models.HoldingKey{Asset: asset, Holder: holder}
	h, ok := s.holdings[key]
	if !ok || tokens > h.TokensHeld {
		return errors.Wrapf(ErrInsufficientBalance, "%s possui %d tokens da obra %d, pedido %d",
			holder, h.TokensHeld, asset, tokens)
	}

	h.TokensHeld -= tokens
	if h.TokensHeld == 0 {
		delete(s.holdings, key)
		return nil
	}
	s.holdings[key] = h
	return nil
}
