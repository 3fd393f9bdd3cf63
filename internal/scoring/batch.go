package scoring

// BatchSummary reports the folded statistics for one batch computation.
// An empty batch (no id resolved) is all zeros.
type BatchSummary struct {
	Count   uint32 `json:"count"`
	Average uint32 `json:"average"`
	Min     uint32 `json:"min"`
	Max     uint32 `json:"max"`
}

// BatchAccumulator folds normalized scores into running min/max/sum
// statistics. Only resolved assets enter the fold: an unknown id is skipped
// entirely, never contributed as a zero. The min seed sits at the top of
// the normalized scale and the max seed at zero, so an empty fold is
// distinguishable from a genuine all-zero result.
type BatchAccumulator struct {
	count uint32
	sum   uint64
	min   uint32
	max   uint32
}

// NewBatchAccumulator returns an accumulator with sentinel seeds.
func NewBatchAccumulator() *BatchAccumulator {
	return &BatchAccumulator{min: MaxNormalized}
}

// Add folds one normalized score into the running statistics.
func (b *BatchAccumulator) Add(score uint32) {
	b.count++
	b.sum += uint64(score)
	if score < b.min {
		b.min = score
	}
	if score > b.max {
		b.max = score
	}
}

// Summary closes the fold. Average is floor(sum/count); with nothing
// folded the summary is all zeros rather than a divide by zero.
func (b *BatchAccumulator) Summary() BatchSummary {
	if b.count == 0 {
		return BatchSummary{}
	}
	return BatchSummary{
		Count:   b.count,
		Average: uint32(b.sum / uint64(b.count)),
		Min:     b.min,
		Max:     b.max,
	}
}
