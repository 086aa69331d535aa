// Package ledger mantém as tabelas de obras, posições, ofertas e perfis e
// executa sobre elas as operações de emissão, negociação e liquidação.
package ledger

import (
	"math/big"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ferreirogomes/artshare/models"
)

const (
	sampleAssetID = 1
	firstOfferID  = 1
)

// Store é dono das quatro tabelas do livro-razão e do diário de liquidações.
// Toda operação de escrita segura o lock exclusivo do início da validação
// até o fim da aplicação; leituras devolvem cópias sob o lock compartilhado.
type Store struct {
	mu sync.RWMutex

	clock      Clock
	newTradeID func() uuid.UUID

	assets   map[uint64]models.Asset
	holdings map[models.HoldingKey]models.Holding
	offers   map[uint64]models.Offer
	profiles map[models.Principal]models.Profile
	trades   []models.Trade

	nextAssetID uint64
	nextOfferID uint64
}

type storeOptions struct {
	clock Clock
	seed  bool
}

// Option ajusta a construção do Store.
type Option func(*storeOptions)

// WithClock troca o relógio usado nos carimbos de tempo.
func WithClock(c Clock) Option {
	return func(o *storeOptions) { o.clock = c }
}

// WithoutSeed não pré-carrega a obra de exemplo; a primeira obra registrada
// recebe então o id 1.
func WithoutSeed() Option {
	return func(o *storeOptions) { o.seed = false }
}

// NewStore cria um Store. Por padrão a obra de exemplo ocupa o id 1 e a
// próxima obra registrada recebe o id 2.
func NewStore(opts ...Option) *Store {
	o := storeOptions{seed: true}
	for _, opt := range opts {
		opt(&o)
	}

	s := newEmptyStore(o.clock)
	if o.seed {
		s.assets[sampleAssetID] = models.Asset{
			ID:            sampleAssetID,
			Title:         "Digital Renaissance",
			Artist:        "CryptoArtist",
			Description:   "A stunning digital artwork representing the fusion of classical art with blockchain technology.",
			ImageURL:      "https://images.unsplash.com/photo-1541961017774-22349e4a1262?w=800",
			TotalSupply:   1000,
			PricePerToken: 100_000,
			Verified:      true,
			Creator:       models.Anonymous,
			CreatedAt:     s.clock.Now(),
		}
		s.nextAssetID = sampleAssetID + 1
	}
	return s
}

func newEmptyStore(clock Clock) *Store {
	if clock == nil {
		clock = NewMonotonicClock(nil)
	}
	return &Store{
		clock:       clock,
		newTradeID:  uuid.New,
		assets:      make(map[uint64]models.Asset),
		holdings:    make(map[models.HoldingKey]models.Holding),
		offers:      make(map[uint64]models.Offer),
		profiles:    make(map[models.Principal]models.Profile),
		nextAssetID: sampleAssetID,
		nextOfferID: firstOfferID,
	}
}

// Catalog devolve o catálogo de obras.
func (s *Store) Catalog() *AssetCatalog { return &AssetCatalog{s: s} }

// Ownership devolve o livro de posições.
func (s *Store) Ownership() *OwnershipLedger { return &OwnershipLedger{s: s} }

// Offers devolve o livro de ofertas.
func (s *Store) Offers() *TradeOfferBook { return &TradeOfferBook{s: s} }

// Settlement devolve o motor de liquidação.
func (s *Store) Settlement() *SettlementEngine { return &SettlementEngine{s: s} }

// Profiles devolve o cadastro de participantes.
func (s *Store) Profiles() *ProfileRegistry { return &ProfileRegistry{s: s} }

// Stats devolve as agregações derivadas.
func (s *Store) Stats() *StatisticsView { return &StatisticsView{s: s} }

// Snapshot devolve uma cópia consistente de todas as tabelas.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Snapshot{
		Assets:      s.sortedAssets(),
		Holdings:    s.filterHoldings(func(models.Holding) bool { return true }),
		Offers:      s.filterOffers(func(models.Offer) bool { return true }),
		Profiles:    make([]models.Profile, 0, len(s.profiles)),
		Trades:      append([]models.Trade(nil), s.trades...),
		NextAssetID: s.nextAssetID,
		NextOfferID: s.nextOfferID,
	}
	for _, p := range s.profiles {
		snap.Profiles = append(snap.Profiles, p)
	}
	sort.Slice(snap.Profiles, func(i, j int) bool { return snap.Profiles[i].ID < snap.Profiles[j].ID })
	return snap
}

// Restore reconstrói um Store a partir de um snapshot, recusando estados que
// violem a conservação de oferta, contenham posições zeradas ou registros
// anônimos, ou tenham ofertas de obras inexistentes.
func Restore(snap models.Snapshot, opts ...Option) (*Store, error) {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	s := newEmptyStore(o.clock)

	for _, a := range snap.Assets {
		if _, dup := s.assets[a.ID]; dup {
			return nil, errors.Errorf("obra %d duplicada no snapshot", a.ID)
		}
		s.assets[a.ID] = a
		if a.ID >= s.nextAssetID {
			s.nextAssetID = a.ID + 1
		}
	}

	sold := make(map[uint64]uint64)
	for _, h := range snap.Holdings {
		asset, ok := s.assets[h.Asset]
		if !ok {
			return nil, errors.Errorf("posição de %s referencia obra inexistente %d", h.Holder, h.Asset)
		}
		if h.Holder.IsAnonymous() {
			return nil, errors.Errorf("posição anônima na obra %d", h.Asset)
		}
		if h.TokensHeld == 0 {
			return nil, errors.Errorf("posição zerada de %s na obra %d", h.Holder, h.Asset)
		}
		if _, dup := s.holdings[h.Key()]; dup {
			return nil, errors.Errorf("posição duplicada de %s na obra %d", h.Holder, h.Asset)
		}
		if h.TokensHeld > asset.TotalSupply-sold[h.Asset] {
			return nil, errors.Wrapf(ErrSupplyExceeded, "snapshot da obra %d", h.Asset)
		}
		sold[h.Asset] += h.TokensHeld
		s.holdings[h.Key()] = h
	}

	for _, off := range snap.Offers {
		switch off.Status {
		case models.OfferOpen, models.OfferFilled, models.OfferCancelled:
		default:
			return nil, errors.Errorf("oferta %d com estado desconhecido %q", off.ID, off.Status)
		}
		if _, ok := s.assets[off.Asset]; !ok {
			return nil, errors.Errorf("oferta %d referencia obra inexistente %d", off.ID, off.Asset)
		}
		if off.Seller.IsAnonymous() {
			return nil, errors.Errorf("oferta %d sem vendedor", off.ID)
		}
		if _, dup := s.offers[off.ID]; dup {
			return nil, errors.Errorf("oferta %d duplicada no snapshot", off.ID)
		}
		s.offers[off.ID] = off
		if off.ID >= s.nextOfferID {
			s.nextOfferID = off.ID + 1
		}
	}

	for _, p := range snap.Profiles {
		if p.ID.IsAnonymous() {
			return nil, errors.New("perfil anônimo no snapshot")
		}
		if p.TotalInvested.IsNegative() {
			return nil, errors.Errorf("perfil %s com total investido negativo", p.ID)
		}
		if _, dup := s.profiles[p.ID]; dup {
			return nil, errors.Errorf("perfil %s duplicado no snapshot", p.ID)
		}
		s.profiles[p.ID] = p
	}
	s.trades = append(s.trades, snap.Trades...)

	if snap.NextAssetID > s.nextAssetID {
		s.nextAssetID = snap.NextAssetID
	}
	if snap.NextOfferID > s.nextOfferID {
		s.nextOfferID = snap.NextOfferID
	}
	return s, nil
}

func (s *Store) sortedAssets() []models.Asset {
	out := make([]models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) filterHoldings(keep func(models.Holding) bool) []models.Holding {
	out := make([]models.Holding, 0)
	for _, h := range s.holdings {
		if keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Asset != out[j].Asset {
			return out[i].Asset < out[j].Asset
		}
		return out[i].Holder < out[j].Holder
	})
	return out
}

func (s *Store) filterOffers(keep func(models.Offer) bool) []models.Offer {
	out := make([]models.Offer, 0)
	for _, o := range s.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// totalCost calcula tokens * preço sem risco de overflow.
func totalCost(tokens, pricePerToken uint64) decimal.Decimal {
	return decimalFromUint64(tokens).Mul(decimalFromUint64(pricePerToken))
}

func decimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
