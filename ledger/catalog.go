package ledger

import (
	"github.com/pkg/errors"

	"github.com/ferreirogomes/artshare/models"
)

// AssetCatalog registra obras e sua oferta total de tokens.
type AssetCatalog struct {
	s *Store
}

// Register cria uma obra nova, ainda não verificada, em nome do criador.
func (c *AssetCatalog) Register(creator models.Principal, req models.NewAsset) (models.Asset, error) {
	if creator.IsAnonymous() {
		return models.Asset{}, errors.Wrap(ErrUnauthenticated, "registro de obra")
	}
	if req.TotalSupply == 0 {
		return models.Asset{}, errors.Wrap(ErrInvalidAmount, "oferta total da obra")
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	asset := models.Asset{
		ID:            c.s.nextAssetID,
		Title:         req.Title,
		Artist:        req.Artist,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		TotalSupply:   req.TotalSupply,
		PricePerToken: req.PricePerToken,
		Creator:       creator,
		CreatedAt:     c.s.clock.Now(),
	}
	c.s.assets[asset.ID] = asset
	c.s.nextAssetID++
	return asset, nil
}

// Get busca uma obra pelo id.
func (c *AssetCatalog) Get(id uint64) (models.Asset, bool) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	a, ok := c.s.assets[id]
	return a, ok
}

// List devolve todas as obras. A ordem por id é apenas conveniência.
func (c *AssetCatalog) List() []models.Asset {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.s.sortedAssets()
}

// MarkVerified marca a obra como verificada. Repetir a chamada não é erro.
func (c *AssetCatalog) MarkVerified(id uint64) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	a, ok := c.s.assets[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "obra %d", id)
	}
	a.Verified = true
	c.s.assets[id] = a
	return nil
}
