package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/handlers"
	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/models"
	"github.com/ferreirogomes/artshare/services"
)

type testAPI struct {
	router http.Handler
	admin  solana.PrivateKey
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	admin, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	svc := services.NewMarketplaceService(
		ledger.NewStore(ledger.WithoutSeed()),
		auth.ParseAllowlist(admin.PublicKey().String()),
	)
	return &testAPI{
		router: handlers.NewRouter(svc, auth.NewVerifier(time.Minute)),
		admin:  admin,
	}
}

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

// do executa a requisição; key nil envia como anônimo.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, key solana.PrivateKey) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if key != nil {
		require.NoError(t, auth.SignRequest(req, key, time.Now()))
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

func (a *testAPI) registerAsset(t *testing.T, creator solana.PrivateKey, supply uint64) models.Asset {
	t.Helper()
	rr := a.do(t, "POST", "/assets", models.NewAsset{
		Title: "Paisagem", Artist: "Tarsila", TotalSupply: supply, PricePerToken: 50,
	}, creator)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var asset models.Asset
	decode(t, rr, &asset)
	return asset
}

func TestCreateAssetRequiresSignedCaller(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, "POST", "/assets", models.NewAsset{Title: "Paisagem", TotalSupply: 10}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	artist := newKey(t)
	asset := api.registerAsset(t, artist, 10)
	assert.Equal(t, uint64(1), asset.ID)
	assert.Equal(t, models.Principal(artist.PublicKey().String()), asset.Creator)
	assert.False(t, asset.Verified)

	rr = api.do(t, "GET", "/assets/1", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(t, "GET", "/assets", nil, nil)
	var list []models.Asset
	decode(t, rr, &list)
	assert.Len(t, list, 1)
}

func TestInvalidSignatureIsRejected(t *testing.T) {
	api := newTestAPI(t)
	key := newKey(t)

	req := httptest.NewRequest("POST", "/assets/1/purchase", bytes.NewBufferString(`{"tokens":1}`))
	require.NoError(t, auth.SignRequest(req, key, time.Now()))
	req.URL.Path = "/assets/2/purchase"
	rr := httptest.NewRecorder()
	api.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest("GET", "/assets", nil)
	require.NoError(t, auth.SignRequest(req, key, time.Now().Add(-time.Hour)))
	rr = httptest.NewRecorder()
	api.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCapturedSignatureCannotBeReused(t *testing.T) {
	api := newTestAPI(t)
	artist := newKey(t)
	buyer := newKey(t)
	api.registerAsset(t, artist, 1000)

	signed := httptest.NewRequest("POST", "/assets/1/purchase", bytes.NewBufferString(`{"tokens":1}`))
	require.NoError(t, auth.SignRequest(signed, buyer, time.Now()))
	headers := signed.Header.Clone()
	rr := httptest.NewRecorder()
	api.router.ServeHTTP(rr, signed)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	for _, body := range []string{`{"tokens":999}`, `{"tokens":1}`} {
		replay := httptest.NewRequest("POST", "/assets/1/purchase", bytes.NewBufferString(body))
		replay.Header = headers.Clone()
		rr = httptest.NewRecorder()
		api.router.ServeHTTP(rr, replay)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
	}

	var stats ledger.AssetStats
	decode(t, api.do(t, "GET", "/assets/1/stats", nil, nil), &stats)
	assert.Equal(t, uint64(1), stats.TotalSold)
}

func TestErrorStatusMapping(t *testing.T) {
	api := newTestAPI(t)
	artist := newKey(t)
	buyer := newKey(t)
	api.registerAsset(t, artist, 100)

	assert.Equal(t, http.StatusBadRequest, api.do(t, "GET", "/assets/abc", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/assets/9", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/assets/9/holders", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, "GET", "/offers?asset=x", nil, nil).Code)

	rr := api.do(t, "POST", "/assets/1/purchase", handlers.PurchaseRequest{Tokens: 101}, buyer)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = api.do(t, "POST", "/assets/1/purchase", handlers.PurchaseRequest{Tokens: 0}, buyer)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	rr = api.do(t, "POST", "/offers", handlers.CreateOfferRequest{AssetID: 1, Tokens: 5, PricePerToken: 60}, buyer)
	assert.Equal(t, http.StatusConflict, rr.Code)

	req := httptest.NewRequest("POST", "/assets", bytes.NewBufferString("{"))
	require.NoError(t, auth.SignRequest(req, artist, time.Now()))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyAssetNeedsAuthority(t *testing.T) {
	api := newTestAPI(t)
	artist := newKey(t)
	api.registerAsset(t, artist, 10)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, "POST", "/assets/1/verify", nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, "POST", "/assets/1/verify", nil, artist).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, "POST", "/assets/1/verify", nil, api.admin).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "POST", "/assets/7/verify", nil, api.admin).Code)

	var asset models.Asset
	decode(t, api.do(t, "GET", "/assets/1", nil, nil), &asset)
	assert.True(t, asset.Verified)
}

func TestPurchaseAndSecondaryTradeOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	artist := newKey(t)
	seller := newKey(t)
	buyer := newKey(t)
	api.registerAsset(t, artist, 100)

	rr := api.do(t, "POST", "/assets/1/purchase", handlers.PurchaseRequest{Tokens: 40}, seller)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var holding models.Holding
	decode(t, rr, &holding)
	assert.Equal(t, uint64(40), holding.TokensHeld)
	assert.Equal(t, "2000", holding.CostBasis.String())

	rr = api.do(t, "POST", "/offers", handlers.CreateOfferRequest{AssetID: 1, Tokens: 15, PricePerToken: 80}, seller)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var offer models.Offer
	decode(t, rr, &offer)
	assert.Equal(t, models.OfferOpen, offer.Status)

	var open []models.Offer
	decode(t, api.do(t, "GET", "/offers?asset=1", nil, nil), &open)
	assert.Len(t, open, 1)

	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, "POST", "/offers/1/accept", nil, seller).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, "POST", "/offers/1/accept", nil, nil).Code)

	rr = api.do(t, "POST", "/offers/1/accept", nil, buyer)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var trade models.Trade
	decode(t, rr, &trade)
	assert.Equal(t, models.TradeSecondary, trade.Kind)
	assert.Equal(t, uint64(15), trade.Tokens)
	assert.Equal(t, "1200", trade.Cost.String())

	assert.Equal(t, http.StatusConflict, api.do(t, "POST", "/offers/1/accept", nil, buyer).Code)
	assert.Equal(t, http.StatusConflict, api.do(t, "POST", "/offers/1/cancel", nil, seller).Code)

	var holders []models.Holding
	decode(t, api.do(t, "GET", "/assets/1/holders", nil, nil), &holders)
	assert.Len(t, holders, 2)

	var stats ledger.AssetStats
	decode(t, api.do(t, "GET", "/assets/1/stats", nil, nil), &stats)
	assert.Equal(t, ledger.AssetStats{TotalSupply: 100, TotalSold: 40, HolderCount: 2}, stats)

	var trades []models.Trade
	decode(t, api.do(t, "GET", "/trades?asset=1", nil, nil), &trades)
	require.Len(t, trades, 2)
	assert.Equal(t, models.TradePrimary, trades[0].Kind)

	var platform ledger.PlatformStats
	decode(t, api.do(t, "GET", "/stats", nil, nil), &platform)
	assert.Equal(t, uint64(1), platform.AssetCount)
	assert.Equal(t, uint64(1), platform.OfferCount)
	assert.Equal(t, uint64(0), platform.OpenOfferCount)
}

func TestCancelOfferOwnership(t *testing.T) {
	api := newTestAPI(t)
	artist := newKey(t)
	seller := newKey(t)
	api.registerAsset(t, artist, 10)
	require.Equal(t, http.StatusOK, api.do(t, "POST", "/assets/1/purchase", handlers.PurchaseRequest{Tokens: 5}, seller).Code)
	require.Equal(t, http.StatusCreated,
		api.do(t, "POST", "/offers", handlers.CreateOfferRequest{AssetID: 1, Tokens: 5, PricePerToken: 1}, seller).Code)

	assert.Equal(t, http.StatusForbidden, api.do(t, "POST", "/offers/1/cancel", nil, artist).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "POST", "/offers/2/cancel", nil, seller).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, "POST", "/offers/1/cancel", nil, seller).Code)

	var offer models.Offer
	decode(t, api.do(t, "GET", "/offers/1", nil, nil), &offer)
	assert.Equal(t, models.OfferCancelled, offer.Status)
	assert.NotNil(t, offer.ClosedAt)
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t)
	user := newKey(t)
	id := user.PublicKey().String()

	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/profiles/me", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/profiles/me", nil, user).Code)

	body := map[string]string{"display_name": "Ana", "contact": "ana@example.com"}
	assert.Equal(t, http.StatusCreated, api.do(t, "POST", "/profiles", body, user).Code)
	assert.Equal(t, http.StatusConflict, api.do(t, "POST", "/profiles", body, user).Code)

	var profile models.Profile
	decode(t, api.do(t, "GET", "/profiles/me", nil, user), &profile)
	assert.Equal(t, models.Principal(id), profile.ID)
	assert.Equal(t, "Ana", profile.DisplayName)

	assert.Equal(t, http.StatusForbidden, api.do(t, "POST", "/profiles/"+id+"/verify", nil, user).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, "POST", "/profiles/"+id+"/verify", nil, api.admin).Code)
	decode(t, api.do(t, "GET", "/profiles/"+id, nil, nil), &profile)
	assert.True(t, profile.Verified)

	var holdings []models.Holding
	decode(t, api.do(t, "GET", "/profiles/"+id+"/holdings", nil, nil), &holdings)
	assert.Empty(t, holdings)
}
