package models

// Snapshot é o estado completo do livro-razão, usado para persistência.
type Snapshot struct {
	Assets      []Asset   `json:"assets"`
	Holdings    []Holding `json:"holdings"`
	Offers      []Offer   `json:"offers"`
	Profiles    []Profile `json:"profiles"`
	Trades      []Trade   `json:"trades"`
	NextAssetID uint64    `json:"next_asset_id"`
	NextOfferID uint64    `json:"next_offer_id"`
}
