package services

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/models"
)

// ErrForbidden indica operação administrativa pedida por quem não é autoridade.
var ErrForbidden = errors.New("chamador não é autoridade da plataforma")

// Authority decide quem pode verificar obras e participantes.
type Authority interface {
	IsAuthority(p models.Principal) bool
}

// MarketplaceService expõe o livro-razão para a camada HTTP, aplicando o
// controle de autoridade e registrando cada operação.
type MarketplaceService struct {
	Store     *ledger.Store
	authority Authority
	revision  atomic.Uint64
}

// NewMarketplaceService cria uma nova instância do serviço.
func NewMarketplaceService(store *ledger.Store, authority Authority) *MarketplaceService {
	return &MarketplaceService{Store: store, authority: authority}
}

// Revision conta as mutações bem-sucedidas desde a criação do serviço.
func (s *MarketplaceService) Revision() uint64 {
	return s.revision.Load()
}

// Snapshot devolve o estado atual para persistência.
func (s *MarketplaceService) Snapshot() models.Snapshot {
	return s.Store.Snapshot()
}

func (s *MarketplaceService) RegisterAsset(caller models.Principal, req models.NewAsset) (models.Asset, error) {
	asset, err := s.Store.Catalog().Register(caller, req)
	if s.audit("register_asset", caller, err) {
		log.Info().Uint64("asset_id", asset.ID).Uint64("total_supply", asset.TotalSupply).
			Str("title", asset.Title).Msg("obra registrada")
	}
	return asset, err
}

func (s *MarketplaceService) Asset(id uint64) (models.Asset, error) {
	a, ok := s.Store.Catalog().Get(id)
	if !ok {
		return models.Asset{}, errors.Wrapf(ledger.ErrNotFound, "obra %d", id)
	}
	return a, nil
}

func (s *MarketplaceService) Assets() []models.Asset {
	return s.Store.Catalog().List()
}

// VerifyAsset só é aceito de uma autoridade.
func (s *MarketplaceService) VerifyAsset(caller models.Principal, id uint64) error {
	err := s.requireAuthority(caller)
	if err == nil {
		err = s.Store.Catalog().MarkVerified(id)
	}
	if s.audit("verify_asset", caller, err) {
		log.Info().Uint64("asset_id", id).Msg("obra verificada")
	}
	return err
}

func (s *MarketplaceService) Purchase(caller models.Principal, assetID, tokens uint64) (models.Holding, error) {
	h, err := s.Store.Settlement().PurchasePrimary(caller, assetID, tokens)
	if s.audit("purchase_primary", caller, err) {
		log.Info().Uint64("asset_id", assetID).Uint64("tokens", tokens).
			Uint64("tokens_held", h.TokensHeld).Msg("compra primária liquidada")
	}
	return h, err
}

func (s *MarketplaceService) OpenOffer(caller models.Principal, assetID, tokens, pricePerToken uint64) (models.Offer, error) {
	o, err := s.Store.Offers().Open(caller, assetID, tokens, pricePerToken)
	if s.audit("open_offer", caller, err) {
		log.Info().Uint64("offer_id", o.ID).Uint64("asset_id", assetID).Uint64("tokens", tokens).
			Uint64("price_per_token", pricePerToken).Msg("oferta aberta")
	}
	return o, err
}

func (s *MarketplaceService) CancelOffer(caller models.Principal, offerID uint64) error {
	err := s.Store.Offers().Cancel(offerID, caller)
	if s.audit("cancel_offer", caller, err) {
		log.Info().Uint64("offer_id", offerID).Msg("oferta cancelada")
	}
	return err
}

func (s *MarketplaceService) AcceptOffer(caller models.Principal, offerID uint64) (models.Trade, error) {
	t, err := s.Store.Settlement().AcceptOffer(offerID, caller)
	if s.audit("accept_offer", caller, err) {
		log.Info().Uint64("offer_id", offerID).Str("trade_id", t.ID.String()).
			Uint64("tokens", t.Tokens).Str("cost", t.Cost.String()).Msg("oferta liquidada")
	}
	return t, err
}

func (s *MarketplaceService) Offer(id uint64) (models.Offer, error) {
	o, ok := s.Store.Offers().Get(id)
	if !ok {
		return models.Offer{}, errors.Wrapf(ledger.ErrNotFound, "oferta %d", id)
	}
	return o, nil
}

func (s *MarketplaceService) OpenOffers(asset *uint64) []models.Offer {
	return s.Store.Offers().List(asset)
}

func (s *MarketplaceService) CreateProfile(caller models.Principal, displayName, contact string) (models.Profile, error) {
	p, err := s.Store.Profiles().Create(caller, displayName, contact)
	if s.audit("create_profile", caller, err) {
		log.Info().Stringer("profile", p.ID).Msg("perfil criado")
	}
	return p, err
}

func (s *MarketplaceService) Profile(id models.Principal) (models.Profile, error) {
	p, ok := s.Store.Profiles().Get(id)
	if !ok {
		return models.Profile{}, errors.Wrapf(ledger.ErrNotFound, "perfil %s", id)
	}
	return p, nil
}

// VerifyProfile só é aceito de uma autoridade.
func (s *MarketplaceService) VerifyProfile(caller, id models.Principal) error {
	err := s.requireAuthority(caller)
	if err == nil {
		err = s.Store.Profiles().MarkVerified(id)
	}
	if s.audit("verify_profile", caller, err) {
		log.Info().Stringer("profile", id).Msg("perfil verificado")
	}
	return err
}

func (s *MarketplaceService) Holdings(holder models.Principal) []models.Holding {
	return s.Store.Ownership().HoldingsOf(holder)
}

// Holders devolve a distribuição de posse de uma obra existente.
func (s *MarketplaceService) Holders(assetID uint64) ([]models.Holding, error) {
	if _, err := s.Asset(assetID); err != nil {
		return nil, err
	}
	return s.Store.Ownership().HoldersOf(assetID), nil
}

func (s *MarketplaceService) AssetStats(assetID uint64) (ledger.AssetStats, error) {
	return s.Store.Stats().AssetStats(assetID)
}

func (s *MarketplaceService) PlatformStats() ledger.PlatformStats {
	return s.Store.Stats().PlatformStats()
}

func (s *MarketplaceService) Trades(asset *uint64) []models.Trade {
	return s.Store.Settlement().Trades(asset)
}

func (s *MarketplaceService) requireAuthority(caller models.Principal) error {
	if caller.IsAnonymous() {
		return errors.Wrap(ledger.ErrUnauthenticated, "operação administrativa")
	}
	if s.authority == nil || !s.authority.IsAuthority(caller) {
		return errors.Wrapf(ErrForbidden, "%s", caller)
	}
	return nil
}

// audit registra recusas e conta mutações; devolve true quando a operação passou.
func (s *MarketplaceService) audit(op string, caller models.Principal, err error) bool {
	if err != nil {
		log.Warn().Err(err).Str("op", op).Stringer("caller", caller).Msg("operação recusada")
		return false
	}
	s.revision.Add(1)
	return true
}
