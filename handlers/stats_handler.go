package handlers

import (
	"net/http"

	"github.com/ferreirogomes/artshare/services"
)

// StatsHandler expõe os agregados da plataforma e o diário de liquidações.
type StatsHandler struct {
	Service *services.MarketplaceService
}

// NewStatsHandler cria uma nova instância do handler de estatísticas.
func NewStatsHandler(s *services.MarketplaceService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// GetPlatformStats devolve os totais da plataforma.
// GET /stats
func (h *StatsHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.PlatformStats())
}

// ListTrades lista as liquidações em ordem de execução.
// GET /trades?asset={id}
func (h *StatsHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := assetFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Trades(filter))
}
