package events

type AssetRegisteredEvent struct {
	AssetID string `json:"asset_id"`
	Owner   string `json:"owner"`
	Total   uint64 `json:"total_assets,omitempty"`
}

type ScoreComputedEvent struct {
	AssetID     string `json:"asset_id"`
	RawScore    uint64 `json:"raw_score"`
	Normalized  uint32 `json:"normalized_score"`
	LastUpdated uint64 `json:"last_updated"`
}

type WeightsInitializedEvent struct {
	InitializedBy string `json:"initialized_by"`
}

type WeightUpdatedEvent struct {
	Trait     string `json:"trait"`
	Weight    uint32 `json:"weight"`
	UpdatedBy string `json:"updated_by"`
}
