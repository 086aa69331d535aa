package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/models"
	"github.com/ferreirogomes/artshare/services"
)

// ProfileHandler lida com requisições HTTP relacionadas a participantes.
type ProfileHandler struct {
	Service *services.MarketplaceService
}

// NewProfileHandler cria uma nova instância do handler de perfis.
func NewProfileHandler(s *services.MarketplaceService) *ProfileHandler {
	return &ProfileHandler{Service: s}
}

// CreateProfile cadastra o perfil do chamador.
// POST /profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		DisplayName string `json:"display_name"`
		Contact     string `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.Service.CreateProfile(auth.CallerFrom(r.Context()), requestBody.DisplayName, requestBody.Contact)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// GetProfile obtém um perfil pelo ID; "me" é o próprio chamador.
// GET /profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.Service.Profile(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// VerifyProfile marca o participante como verificado; exige autoridade.
// POST /profiles/{id}/verify
func (h *ProfileHandler) VerifyProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.VerifyProfile(auth.CallerFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfileHoldings lista as posições do participante.
// GET /profiles/{id}/holdings
func (h *ProfileHandler) GetProfileHoldings(w http.ResponseWriter, r *http.Request) {
	id, err := profileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Holdings(id))
}

func profileParam(r *http.Request) (models.Principal, error) {
	raw := chi.URLParam(r, "id")
	if raw != "me" {
		return models.Principal(raw), nil
	}
	caller := auth.CallerFrom(r.Context())
	if caller.IsAnonymous() {
		return models.Anonymous, ledger.ErrUnauthenticated
	}
	return caller, nil
}
