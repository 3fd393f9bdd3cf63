package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mintmesh/rarityd/internal/events"
	"github.com/mintmesh/rarityd/internal/scoring"
	"github.com/mintmesh/rarityd/internal/store"
)

// Engine executes the scoring operations one at a time. Every mutating
// call holds the mutex for its full duration, so the read-modify-write of
// the shared high-water mark, the registration counter, and the
// initialization latch never interleave. The store runs each call in a
// single transaction; a precondition failure rolls the whole call back.
type Engine struct {
	store  store.Store
	events events.Client
	owner  string
	logger *slog.Logger

	mu sync.Mutex
}

func New(s store.Store, ev events.Client, owner string, logger *slog.Logger) *Engine {
	return &Engine{
		store:  s,
		events: ev,
		owner:  owner,
		logger: logger,
	}
}

// Initialize performs the one-time genesis of the weight table with the
// default distribution. Only the owner identity may trigger it; a second
// call is rejected, not silently ignored.
func (e *Engine) Initialize(ctx context.Context, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.owner {
		return fmt.Errorf("caller %q: %w", caller, ErrUnauthorized)
	}
	if err := e.store.InitializeWeights(ctx, scoring.DefaultWeights()); err != nil {
		return err
	}

	e.logger.Info("weight table initialized", "caller", caller)
	if e.events != nil {
		_ = e.events.Publish(events.SubjectWeightsInitialized, events.WeightsInitializedEvent{
			InitializedBy: caller,
		})
	}
	return nil
}

// Register creates the write-once attribute record for an asset. The
// caller becomes the owning identity. Fails before any write if the weight
// table has not been initialized or any trait value is out of bounds.
func (e *Engine) Register(ctx context.Context, caller string, assetID uuid.UUID, attrs scoring.AttributeSet) (*store.AttributeRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	initialized, err := e.store.WeightsInitialized(ctx)
	if err != nil {
		return nil, fmt.Errorf("check latch: %w", err)
	}
	if !initialized {
		return nil, ErrNotInitialized
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	rec := &store.AttributeRecord{
		AssetID: assetID,
		Attrs:   attrs,
		Owner:   caller,
	}
	if err := e.store.RegisterAsset(ctx, rec); err != nil {
		return nil, err
	}
	assetsRegistered.Inc()

	total, err := e.store.GetTotalAssets(ctx)
	if err != nil {
		// The registration itself committed; publish without a count
		// rather than a wrong one.
		e.logger.Warn("failed to read total after registration", "asset_id", assetID, "error", err)
		total = 0
	}
	e.logger.Info("asset registered", "asset_id", assetID, "owner", caller, "total", total)
	if e.events != nil {
		_ = e.events.Publish(events.SubjectAssetRegistered(assetID.String()), events.AssetRegisteredEvent{
			AssetID: assetID.String(),
			Owner:   caller,
			Total:   total,
		})
	}
	return rec, nil
}

// ComputeScore scores one registered asset against the current weight
// table, normalizes it against the shared high-water mark, and upserts the
// score record. The normalized value reflects the mark at computation
// time; recomputing after the mark advances can change it.
func (e *Engine) ComputeScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scoreOne(ctx, assetID)
}

// BatchCompute runs the per-asset scoring pipeline over up to
// scoring.MaxBatchSize ids in one store transaction and folds the
// normalized scores into summary statistics. Unknown ids are skipped, not
// fatal, and never enter the fold; any other failure rolls the whole batch
// back, committed-nothing.
func (e *Engine) BatchCompute(ctx context.Context, assetIDs []uuid.UUID) (scoring.BatchSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(assetIDs) > scoring.MaxBatchSize {
		return scoring.BatchSummary{}, fmt.Errorf("%w: %d ids (max %d)", ErrBatchLimit, len(assetIDs), scoring.MaxBatchSize)
	}
	batchRequests.Inc()

	var advances uint64
	recs, err := e.store.ScoreBatch(ctx, assetIDs, func(attrs scoring.AttributeSet, weights scoring.WeightTable, maxRaw uint64) (uint64, uint32, uint64) {
		raw := scoring.RawScore(attrs, weights)
		normalized, newMax := scoring.Normalize(raw, maxRaw)
		if newMax > maxRaw {
			advances++
		}
		return raw, normalized, newMax
	})
	if err != nil {
		return scoring.BatchSummary{}, err
	}

	acc := scoring.NewBatchAccumulator()
	for _, rec := range recs {
		scoresComputed.Inc()
		acc.Add(rec.Normalized)
		if e.events != nil {
			_ = e.events.Publish(events.SubjectScoreComputed(rec.AssetID.String()), events.ScoreComputedEvent{
				AssetID:     rec.AssetID.String(),
				RawScore:    rec.RawScore,
				Normalized:  rec.Normalized,
				LastUpdated: rec.LastUpdated,
			})
		}
	}
	highWaterAdvances.Add(float64(advances))
	if skipped := len(assetIDs) - len(recs); skipped > 0 {
		e.logger.Warn("batch skipped unknown assets", "skipped", skipped)
	}

	summary := acc.Summary()
	e.logger.Info("batch computed", "requested", len(assetIDs), "scored", summary.Count,
		"average", summary.Average, "min", summary.Min, "max", summary.Max)
	return summary, nil
}

// scoreOne runs the single-asset pipeline under the already-held mutex.
func (e *Engine) scoreOne(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error) {
	var advanced bool
	rec, err := e.store.ScoreAsset(ctx, assetID, func(attrs scoring.AttributeSet, weights scoring.WeightTable, maxRaw uint64) (uint64, uint32, uint64) {
		raw := scoring.RawScore(attrs, weights)
		normalized, newMax := scoring.Normalize(raw, maxRaw)
		advanced = newMax > maxRaw
		return raw, normalized, newMax
	})
	if err != nil {
		return nil, err
	}
	scoresComputed.Inc()
	if advanced {
		highWaterAdvances.Inc()
		e.logger.Info("high-water mark advanced", "asset_id", assetID, "raw_score", rec.RawScore)
	}

	if e.events != nil {
		_ = e.events.Publish(events.SubjectScoreComputed(assetID.String()), events.ScoreComputedEvent{
			AssetID:     assetID.String(),
			RawScore:    rec.RawScore,
			Normalized:  rec.Normalized,
			LastUpdated: rec.LastUpdated,
		})
	}
	return rec, nil
}

// UpdateWeight replaces one trait's weight. Owner-gated; the trait name
// must belong to the closed set and the weight must not exceed the bound.
func (e *Engine) UpdateWeight(ctx context.Context, caller, name string, weight uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.owner {
		return fmt.Errorf("caller %q: %w", caller, ErrUnauthorized)
	}
	if err := scoring.ValidateWeight(name, weight); err != nil {
		return err
	}
	if err := e.store.UpdateWeight(ctx, name, weight); err != nil {
		return err
	}
	weightUpdates.Inc()

	e.logger.Info("weight updated", "trait", name, "weight", weight, "caller", caller)
	if e.events != nil {
		_ = e.events.Publish(events.SubjectWeightsUpdated, events.WeightUpdatedEvent{
			Trait:     name,
			Weight:    weight,
			UpdatedBy: caller,
		})
	}
	return nil
}

// --- Read-only surface ---

func (e *Engine) GetAttributes(ctx context.Context, assetID uuid.UUID) (*store.AttributeRecord, error) {
	return e.store.GetAttributeRecord(ctx, assetID)
}

func (e *Engine) GetScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error) {
	return e.store.GetScoreRecord(ctx, assetID)
}

func (e *Engine) GetWeight(ctx context.Context, name string) (uint32, bool, error) {
	return e.store.GetWeight(ctx, name)
}

func (e *Engine) GetWeights(ctx context.Context) (scoring.WeightTable, error) {
	return e.store.GetWeights(ctx)
}

func (e *Engine) GetTotalAssets(ctx context.Context) (uint64, error) {
	return e.store.GetTotalAssets(ctx)
}

func (e *Engine) GetStats(ctx context.Context) (*store.Stats, error) {
	return e.store.GetStats(ctx)
}
