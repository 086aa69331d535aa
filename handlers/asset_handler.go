package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/models"
	"github.com/ferreirogomes/artshare/services"
)

// AssetHandler lida com requisições HTTP relacionadas a obras.
type AssetHandler struct {
	Service *services.MarketplaceService
}

// NewAssetHandler cria uma nova instância do handler de obras.
func NewAssetHandler(s *services.MarketplaceService) *AssetHandler {
	return &AssetHandler{Service: s}
}

// CreateAsset registra uma nova obra em nome do chamador.
// POST /assets
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var requestBody models.NewAsset
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.RegisterAsset(auth.CallerFrom(r.Context()), requestBody)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// ListAssets lista todas as obras.
// GET /assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Assets())
}

// GetAssetByID obtém uma obra pelo ID.
// GET /assets/{id}
func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.Asset(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// VerifyAsset marca a obra como verificada; exige autoridade.
// POST /assets/{id}/verify
func (h *AssetHandler) VerifyAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyAsset(auth.CallerFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAssetStats devolve oferta total, tokens vendidos e número de titulares.
// GET /assets/{id}/stats
func (h *AssetHandler) GetAssetStats(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := h.Service.AssetStats(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetAssetHolders devolve a distribuição de posse da obra.
// GET /assets/{id}/holders
func (h *AssetHandler) GetAssetHolders(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	holders, err := h.Service.Holders(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holders)
}

// PurchaseRequest é o corpo de uma compra primária.
type PurchaseRequest struct {
	Tokens uint64 `json:"tokens"`
}

// PurchaseTokens compra tokens não vendidos da obra.
// POST /assets/{id}/purchase
func (h *AssetHandler) PurchaseTokens(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	holding, err := h.Service.Purchase(auth.CallerFrom(r.Context()), id, req.Tokens)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}
