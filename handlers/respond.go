package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/services"
)

// statusFor traduz os erros do livro-razão em códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden), errors.Is(err, ledger.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyExists),
		errors.Is(err, ledger.ErrAlreadyClosed),
		errors.Is(err, ledger.ErrSupplyExceeded),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrSelfTrade), errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("erro inesperado ao atender requisição")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("falha ao codificar resposta")
	}
}

// uintParam lê um parâmetro numérico da rota.
func uintParam(r *http.Request, name string) (uint64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("parâmetro %s inválido: %q", name, raw)
	}
	return v, nil
}

// assetFilter lê o filtro opcional ?asset= das listagens.
func assetFilter(r *http.Request) (*uint64, error) {
	raw := r.URL.Query().Get("asset")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.Errorf("filtro asset inválido: %q", raw)
	}
	return &v, nil
}
