package scoring

// RawScore computes the weighted sum of an asset's traits against the given
// table. Pure function: trait order does not matter and a missing weight
// entry contributes 0. With bounded inputs the sum cannot exceed
// 5 * MaxTraitValue * MaxWeight = 500,000, far inside uint64.
func RawScore(attrs AttributeSet, weights WeightTable) uint64 {
	var total uint64
	vals := attrs.Values()
	for i, name := range TraitNames {
		total += uint64(vals[i]) * uint64(weights[name])
	}
	return total
}
