package ledger

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ferreirogomes/artshare/models"
)

// TradeOfferBook guarda as ofertas de venda e seu ciclo de vida:
// open → filled ou open → cancelled, sem volta.
type TradeOfferBook struct {
	s *Store
}

// Open publica uma oferta de venda. O saldo do vendedor é conferido agora,
// mas não fica reservado; a liquidação confere de novo.
func (b *TradeOfferBook) Open(seller models.Principal, asset, tokens, pricePerToken uint64) (models.Offer, error) {
	if seller.IsAnonymous() {
		return models.Offer{}, errors.Wrap(ErrUnauthenticated, "abertura de oferta")
	}
	if tokens == 0 {
		return models.Offer{}, errors.Wrap(ErrInvalidAmount, "tokens ofertados")
	}

	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	h, _ := b.s.holdingOf(asset, seller)
	if h.TokensHeld < tokens {
		return models.Offer{}, errors.Wrapf(ErrInsufficientBalance, "%s possui %d tokens da obra %d, ofertou %d",
			seller, h.TokensHeld, asset, tokens)
	}

	offer := models.Offer{
		ID:            b.s.nextOfferID,
		Asset:         asset,
		Seller:        seller,
		TokensOffered: tokens,
		PricePerToken: pricePerToken,
		Status:        models.OfferOpen,
		CreatedAt:     b.s.clock.Now(),
	}
	b.s.offers[offer.ID] = offer
	b.s.nextOfferID++
	return offer, nil
}

// Cancel encerra uma oferta aberta a pedido do próprio vendedor.
func (b *TradeOfferBook) Cancel(offerID uint64, caller models.Principal) error {
	if caller.IsAnonymous() {
		return errors.Wrap(ErrUnauthenticated, "cancelamento de oferta")
	}

	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	offer, ok := b.s.offers[offerID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "oferta %d", offerID)
	}
	if offer.Seller != caller {
		return errors.Wrapf(ErrNotOwner, "oferta %d", offerID)
	}
	if err := closeOffer(&offer, models.OfferCancelled, b.s.clock.Now()); err != nil {
		return err
	}
	b.s.offers[offerID] = offer
	return nil
}

// Get busca uma oferta em qualquer estado.
func (b *TradeOfferBook) Get(offerID uint64) (models.Offer, bool) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	o, ok := b.s.offers[offerID]
	return o, ok
}

// List devolve as ofertas abertas, opcionalmente só as de uma obra.
func (b *TradeOfferBook) List(asset *uint64) []models.Offer {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	return b.s.filterOffers(func(o models.Offer) bool {
		return o.Status == models.OfferOpen && (asset == nil || o.Asset == *asset)
	})
}

func closeOffer(o *models.Offer, to models.OfferStatus, at time.Time) error {
	if o.Status != models.OfferOpen {
		return errors.Wrapf(ErrAlreadyClosed, "oferta %d está %s", o.ID, o.Status)
	}
	o.Status = to
	o.ClosedAt = &at
	return nil
}
