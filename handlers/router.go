package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/services"
)

// NewRouter monta as rotas da API sobre o serviço.
func NewRouter(svc *services.MarketplaceService, verifier *auth.Verifier) http.Handler {
	assetHandler := NewAssetHandler(svc)
	offerHandler := NewOfferHandler(svc)
	profileHandler := NewProfileHandler(svc)
	statsHandler := NewStatsHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CallerIdentity(verifier))

	r.Route("/assets", func(r chi.Router) {
		r.Post("/", assetHandler.CreateAsset)
		r.Get("/", assetHandler.ListAssets)
		r.Get("/{id}", assetHandler.GetAssetByID)
		r.Post("/{id}/verify", assetHandler.VerifyAsset)
		r.Get("/{id}/stats", assetHandler.GetAssetStats)
		r.Get("/{id}/holders", assetHandler.GetAssetHolders)
		r.Post("/{id}/purchase", assetHandler.PurchaseTokens)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", offerHandler.CreateOffer)
		r.Get("/", offerHandler.ListOffers)
		r.Get("/{id}", offerHandler.GetOfferByID)
		r.Post("/{id}/cancel", offerHandler.CancelOffer)
		r.Post("/{id}/accept", offerHandler.AcceptOffer)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Post("/", profileHandler.CreateProfile)
		r.Get("/{id}", profileHandler.GetProfile)
		r.Post("/{id}/verify", profileHandler.VerifyProfile)
		r.Get("/{id}/holdings", profileHandler.GetProfileHoldings)
	})

	r.Get("/stats", statsHandler.GetPlatformStats)
	r.Get("/trades", statsHandler.ListTrades)

	return r
}
