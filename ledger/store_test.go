package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/models"
)

func TestProfileCreationIsIdempotent(t *testing.T) {
	s := newStore(t)

	first, err := s.Profiles().Create(buyer1, "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, first.TotalInvested.IsZero())

	_, err = s.Profiles().Create(buyer1, "Impostora", "x@example.com")
	assert.ErrorIs(t, err, ledger.ErrAlreadyExists)

	got, ok := s.Profiles().Get(buyer1)
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, err = s.Profiles().Create(models.Anonymous, "Ninguém", "")
	assert.ErrorIs(t, err, ledger.ErrUnauthenticated)
}

func TestProfileVerification(t *testing.T) {
	s := newStore(t)
	_, err := s.Profiles().Create(buyer1, "Ana", "")
	require.NoError(t, err)

	require.NoError(t, s.Profiles().MarkVerified(buyer1))
	p, _ := s.Profiles().Get(buyer1)
	assert.True(t, p.Verified)

	assert.ErrorIs(t, s.Profiles().MarkVerified(buyer2), ledger.ErrNotFound)
}

func TestStatistics(t *testing.T) {
	s := newStore(t)
	a := registerArt(t, s, 1000, 1)
	registerArt(t, s, 50, 1)
	_, err := s.Profiles().Create(buyer1, "Ana", "")
	require.NoError(t, err)

	_, err = s.Settlement().PurchasePrimary(buyer1, a.ID, 300)
	require.NoError(t, err)
	_, err = s.Settlement().PurchasePrimary(buyer2, a.ID, 200)
	require.NoError(t, err)
	o, err := s.Offers().Open(buyer1, a.ID, 100, 1)
	require.NoError(t, err)
	_, err = s.Offers().Open(buyer2, a.ID, 100, 1)
	require.NoError(t, err)
	_, err = s.Settlement().AcceptOffer(o.ID, buyer2)
	require.NoError(t, err)

	stats, err := s.Stats().AssetStats(a.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.AssetStats{TotalSupply: 1000, TotalSold: 500, HolderCount: 2}, stats)

	_, err = s.Stats().AssetStats(999)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	assert.Equal(t, ledger.PlatformStats{
		AssetCount:       2,
		ParticipantCount: 1,
		OfferCount:       2,
		OpenOfferCount:   1,
	}, s.Stats().PlatformStats())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newStore(t)
	a := registerArt(t, s, 100, 3)
	_, err := s.Profiles().Create(buyer1, "Ana", "")
	require.NoError(t, err)
	_, err = s.Settlement().PurchasePrimary(buyer1, a.ID, 40)
	require.NoError(t, err)
	o, err := s.Offers().Open(buyer1, a.ID, 10, 5)
	require.NoError(t, err)

	restored, err := ledger.Restore(s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), restored.Snapshot())

	next := registerArt(t, restored, 1, 1)
	assert.Equal(t, a.ID+1, next.ID)

	_, err = restored.Settlement().AcceptOffer(o.ID, buyer2)
	require.NoError(t, err)
	p, _ := restored.Profiles().Get(buyer1)
	assert.True(t, decimal.NewFromInt(120).Equal(p.TotalInvested))
}

func TestRestoreRejectsBrokenSnapshots(t *testing.T) {
	asset := models.Asset{ID: 1, TotalSupply: 10}

	_, err := ledger.Restore(models.Snapshot{
		Assets: []models.Asset{asset},
		Holdings: []models.Holding{
			{Asset: 1, Holder: buyer1, TokensHeld: 6},
			{Asset: 1, Holder: buyer2, TokensHeld: 6},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrSupplyExceeded)

	_, err = ledger.Restore(models.Snapshot{
		Assets:   []models.Asset{asset},
		Holdings: []models.Holding{{Asset: 1, Holder: buyer1, TokensHeld: 0}},
	})
	assert.Error(t, err)

	_, err = ledger.Restore(models.Snapshot{
		Holdings: []models.Holding{{Asset: 7, Holder: buyer1, TokensHeld: 1}},
	})
	assert.Error(t, err)

	_, err = ledger.Restore(models.Snapshot{
		Assets: []models.Asset{asset},
		Offers: []models.Offer{{ID: 1, Asset: 1, Seller: buyer1, Status: "pending"}},
	})
	assert.Error(t, err)

	_, err = ledger.Restore(models.Snapshot{
		Assets:   []models.Asset{asset},
		Holdings: []models.Holding{{Asset: 1, Holder: models.Anonymous, TokensHeld: 1}},
	})
	assert.Error(t, err)
}

func TestRestoreRejectsDanglingOffersAndProfiles(t *testing.T) {
	asset := models.Asset{ID: 1, TotalSupply: 10}
	valid := models.Snapshot{
		Assets:   []models.Asset{asset},
		Offers:   []models.Offer{{ID: 1, Asset: 1, Seller: buyer1, TokensOffered: 1, Status: models.OfferOpen}},
		Profiles: []models.Profile{{ID: buyer1, TotalInvested: decimal.NewFromInt(5)}},
	}
	_, err := ledger.Restore(valid)
	require.NoError(t, err)

	cases := map[string]models.Snapshot{
		"oferta de obra inexistente": {
			Assets: []models.Asset{asset},
			Offers: []models.Offer{{ID: 1, Asset: 9, Seller: buyer1, Status: models.OfferOpen}},
		},
		"oferta sem vendedor": {
			Assets: []models.Asset{asset},
			Offers: []models.Offer{{ID: 1, Asset: 1, Seller: models.Anonymous, Status: models.OfferOpen}},
		},
		"oferta duplicada": {
			Assets: []models.Asset{asset},
			Offers: []models.Offer{
				{ID: 1, Asset: 1, Seller: buyer1, Status: models.OfferOpen},
				{ID: 1, Asset: 1, Seller: buyer2, Status: models.OfferCancelled},
			},
		},
		"perfil anônimo": {
			Profiles: []models.Profile{{ID: models.Anonymous}},
		},
		"investimento negativo": {
			Profiles: []models.Profile{{ID: buyer1, TotalInvested: decimal.NewFromInt(-1)}},
		},
		"perfil duplicado": {
			Profiles: []models.Profile{{ID: buyer1}, {ID: buyer1}},
		},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.Restore(snap)
			assert.Error(t, err)
		})
	}
}

func TestMonotonicClockNeverGoesBack(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	readings := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	clock := ledger.NewMonotonicClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, base, first)
	assert.Equal(t, base, second)
	assert.Equal(t, base.Add(time.Second), third)
}
