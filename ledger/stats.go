package ledger

import (
	"github.com/pkg/errors"

	"github.com/ferreirogomes/artshare/models"
)

// AssetStats resume a distribuição de uma obra.
type AssetStats struct {
	TotalSupply uint64 `json:"total_supply"`
	TotalSold   uint64 `json:"total_sold"`
	HolderCount uint64 `json:"holder_count"`
}

// PlatformStats resume a plataforma inteira.
type PlatformStats struct {
	AssetCount       uint64 `json:"asset_count"`
	ParticipantCount uint64 `json:"participant_count"`
	OfferCount       uint64 `json:"offer_count"`
	OpenOfferCount   uint64 `json:"open_offer_count"`
}

// StatisticsView calcula agregados a cada chamada, sem cache.
type StatisticsView struct {
	s *Store
}

// AssetStats soma os tokens vendidos e conta os titulares de uma obra.
func (v *StatisticsView) AssetStats(asset uint64) (AssetStats, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	a, ok := v.s.assets[asset]
	if !ok {
		return AssetStats{}, errors.Wrapf(ErrNotFound, "obra %d", asset)
	}
	stats := AssetStats{TotalSupply: a.TotalSupply}
	for k, h := range v.s.holdings {
		if k.Asset == asset {
			stats.TotalSold += h.TokensHeld
			stats.HolderCount++
		}
	}
	return stats, nil
}

// PlatformStats conta obras, participantes com perfil e ofertas, abertas ou não.
func (v *StatisticsView) PlatformStats() PlatformStats {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	stats := PlatformStats{
		AssetCount:       uint64(len(v.s.assets)),
		ParticipantCount: uint64(len(v.s.profiles)),
		OfferCount:       uint64(len(v.s.offers)),
	}
	for _, o := range v.s.offers {
		if o.Status == models.OfferOpen {
			stats.OpenOfferCount++
		}
	}
	return stats
}
