package scoring

// Normalize maps a raw score onto [0, MaxNormalized] against the running
// high-water mark and returns the normalized score plus the (possibly
// advanced) mark. A raw score above the mark becomes the new ceiling and
// scores exactly MaxNormalized; otherwise the score is floor-divided
// against the current mark. With no mark yet established the score is 0.
//
// The mark is monotone non-decreasing and the denominator is shared across
// all assets, so a normalized value reflects the mark in effect when it was
// computed: recomputing a record after the mark has advanced can change its
// value even with identical attributes. Callers that need strict
// comparability across records must recompute all of them after a mark
// update. The caller is responsible for serializing the surrounding
// read-modify-write of the mark.
func Normalize(raw, maxRaw uint64) (uint32, uint64) {
	switch {
	case raw > maxRaw:
		return MaxNormalized, raw
	case maxRaw > 0:
		return uint32(raw * MaxNormalized / maxRaw), maxRaw
	default:
		return 0, maxRaw
	}
}
