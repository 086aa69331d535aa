package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ferreirogomes/artshare/models"
)

// SettlementEngine executa compras primárias e aceites de oferta. Cada
// operação valida tudo antes de mutar qualquer tabela, sob um único lock.
type SettlementEngine struct {
	s *Store
}

// PurchasePrimary compra tokens ainda não vendidos diretamente do catálogo.
func (e *SettlementEngine) PurchasePrimary(buyer models.Principal, assetID, tokens uint64) (models.Holding, error) {
	if buyer.IsAnonymous() {
		return models.Holding{}, errors.Wrap(ErrUnauthenticated, "compra primária")
	}

	s := e.s
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return models.Holding{}, errors.Wrapf(ErrNotFound, "obra %d", assetID)
	}
	if tokens == 0 {
		return models.Holding{}, errors.Wrap(ErrInvalidAmount, "tokens comprados")
	}

	sold := s.totalSold(assetID)
	if sold > asset.TotalSupply || tokens > asset.TotalSupply-sold {
		return models.Holding{}, errors.Wrapf(ErrSupplyExceeded, "obra %d: %d vendidos de %d, pedido %d",
			assetID, sold, asset.TotalSupply, tokens)
	}

	cost := totalCost(tokens, asset.PricePerToken)
	h := s.credit(assetID, buyer, tokens, cost)
	s.addInvested(buyer, cost)
	s.record(models.Trade{
		Kind:          models.TradePrimary,
		Asset:         assetID,
		Buyer:         buyer,
		Tokens:        tokens,
		PricePerToken: asset.PricePerToken,
		Cost:          cost,
	})
	return h, nil
}

// AcceptOffer transfere os tokens da oferta do vendedor para o comprador e
// fecha a oferta. Se o vendedor não tiver mais saldo, nada muda e a oferta
// continua aberta.
func (e *SettlementEngine) AcceptOffer(offerID uint64, buyer models.Principal) (models.Trade, error) {
	if buyer.IsAnonymous() {
		return models.Trade{}, errors.Wrap(ErrUnauthenticated, "aceite de oferta")
	}

	s := e.s
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return models.Trade{}, errors.Wrapf(ErrNotFound, "oferta %d", offerID)
	}
	if offer.Status != models.OfferOpen {
		return models.Trade{}, errors.Wrapf(ErrAlreadyClosed, "oferta %d está %s", offerID, offer.Status)
	}
	if offer.Seller == buyer {
		return models.Trade{}, errors.Wrapf(ErrSelfTrade, "oferta %d", offerID)
	}

	if err := s.debit(offer.Asset, offer.Seller, offer.TokensOffered); err != nil {
		return models.Trade{}, errors.WithMessagef(err, "liquidação da oferta %d", offerID)
	}

	cost := totalCost(offer.TokensOffered, offer.PricePerToken)
	s.credit(offer.Asset, buyer, offer.TokensOffered, cost)

	// O estado já foi conferido acima; closeOffer não falha aqui.
	_ = closeOffer(&offer, models.OfferFilled, s.clock.Now())
	s.offers[offerID] = offer

	s.addInvested(buyer, cost)
	return s.record(models.Trade{
		Kind:          models.TradeSecondary,
		Asset:         offer.Asset,
		OfferID:       offer.ID,
		Seller:        offer.Seller,
		Buyer:         buyer,
		Tokens:        offer.TokensOffered,
		PricePerToken: offer.PricePerToken,
		Cost:          cost,
	}), nil
}

// Trades devolve o diário de liquidações em ordem de execução.
func (e *SettlementEngine) Trades(asset *uint64) []models.Trade {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	out := make([]models.Trade, 0, len(e.s.trades))
	for _, t := range e.s.trades {
		if asset == nil || t.Asset == *asset {
			out = append(out, t)
		}
	}
	return out
}

// addInvested soma ao total investido do comprador; sem perfil, não faz nada.
func (s *Store) addInvested(buyer models.Principal, cost decimal.Decimal) {
	p, ok := s.profiles[buyer]
	if !ok {
		return
	}
	p.TotalInvested = p.TotalInvested.Add(cost)
	s.profiles[buyer] = p
}

func (s *Store) record(t models.Trade) models.Trade {
	t.ID = s.newTradeID()
	t.ExecutedAt = s.clock.Now()
	s.trades = append(s.trades, t)
	return t
}
