package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/services"
)

// OfferHandler lida com o livro de ofertas e sua liquidação.
type OfferHandler struct {
	Service *services.MarketplaceService
}

// NewOfferHandler cria uma nova instância do handler de ofertas.
func NewOfferHandler(s *services.MarketplaceService) *OfferHandler {
	return &OfferHandler{Service: s}
}

// CreateOfferRequest é o corpo da abertura de uma oferta de venda.
type CreateOfferRequest struct {
	AssetID       uint64 `json:"asset_id"`
	Tokens        uint64 `json:"tokens"`
	PricePerToken uint64 `json:"price_per_token"`
}

// CreateOffer abre uma oferta de venda dos tokens do chamador.
// POST /offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	offer, err := h.Service.OpenOffer(auth.CallerFrom(r.Context()), req.AssetID, req.Tokens, req.PricePerToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// ListOffers lista as ofertas abertas.
// GET /offers?asset={id}
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	filter, err := assetFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.OpenOffers(filter))
}

// GetOfferByID obtém uma oferta pelo ID, em qualquer estado.
// GET /offers/{id}
func (h *OfferHandler) GetOfferByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	offer, err := h.Service.Offer(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// CancelOffer encerra uma oferta aberta do chamador.
// POST /offers/{id}/cancel
func (h *OfferHandler) CancelOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.CancelOffer(auth.CallerFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptOffer compra todos os tokens da oferta em nome do chamador.
// POST /offers/{id}/accept
func (h *OfferHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trade, err := h.Service.AcceptOffer(auth.CallerFrom(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}
