package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ferreirogomes/artshare/auth"
)

// CallerIdentity resolve o chamador de cada requisição. Requisições sem
// credenciais seguem como anônimas; credenciais inválidas são recusadas.
func CallerIdentity(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := v.Authenticate(r)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("credenciais recusadas")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
		})
	}
}
