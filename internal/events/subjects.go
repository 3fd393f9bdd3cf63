package events

const (
	SubjectWeightsInitialized = "rarity.weights.initialized"
	SubjectWeightsUpdated     = "rarity.weights.updated"

	StreamName   = "RARITY_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectAssetRegistered(assetID string) string { return "rarity.asset." + assetID + ".registered" }
func SubjectScoreComputed(assetID string) string   { return "rarity.score." + assetID + ".computed" }
