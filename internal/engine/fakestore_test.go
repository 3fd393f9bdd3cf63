package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintmesh/rarityd/internal/scoring"
	"github.com/mintmesh/rarityd/internal/store"
)

// fakeStore is an in-memory store.Store with the same serialized,
// all-or-nothing semantics as the Postgres implementation.
type fakeStore struct {
	attrs       map[uuid.UUID]*store.AttributeRecord
	scores      map[uuid.UUID]*store.ScoreRecord
	weights     scoring.WeightTable
	initialized bool
	total       uint64
	maxRaw      uint64
	height      uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		attrs:   make(map[uuid.UUID]*store.AttributeRecord),
		scores:  make(map[uuid.UUID]*store.ScoreRecord),
		weights: scoring.WeightTable{},
	}
}

func (f *fakeStore) RegisterAsset(_ context.Context, rec *store.AttributeRecord) error {
	if _, ok := f.attrs[rec.AssetID]; ok {
		return fmt.Errorf("asset %s: %w", rec.AssetID, store.ErrAlreadyExists)
	}
	rec.CreatedAt = time.Now()
	cp := *rec
	f.attrs[rec.AssetID] = &cp
	f.total++
	return nil
}

func (f *fakeStore) GetAttributeRecord(_ context.Context, id uuid.UUID) (*store.AttributeRecord, error) {
	rec, ok := f.attrs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) InitializeWeights(_ context.Context, weights scoring.WeightTable) error {
	if f.initialized {
		return fmt.Errorf("weight table: %w", store.ErrAlreadyExists)
	}
	for name, w := range weights {
		f.weights[name] = w
	}
	f.initialized = true
	return nil
}

func (f *fakeStore) UpdateWeight(_ context.Context, name string, weight uint32) error {
	f.weights[name] = weight
	return nil
}

func (f *fakeStore) GetWeight(_ context.Context, name string) (uint32, bool, error) {
	w, ok := f.weights[name]
	return w, ok, nil
}

func (f *fakeStore) GetWeights(_ context.Context) (scoring.WeightTable, error) {
	out := scoring.WeightTable{}
	for name, w := range f.weights {
		out[name] = w
	}
	return out, nil
}

func (f *fakeStore) WeightsInitialized(_ context.Context) (bool, error) {
	return f.initialized, nil
}

func (f *fakeStore) ScoreAsset(_ context.Context, id uuid.UUID, fn store.ScoreFn) (*store.ScoreRecord, error) {
	rec, ok := f.attrs[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, store.ErrNotFound)
	}
	raw, normalized, newMax := fn(rec.Attrs, f.weights, f.maxRaw)
	f.maxRaw = newMax
	f.height++
	score := &store.ScoreRecord{
		AssetID:     id,
		RawScore:    raw,
		Normalized:  normalized,
		LastUpdated: f.height,
		UpdatedAt:   time.Now(),
	}
	f.scores[id] = score
	cp := *score
	return &cp, nil
}

func (f *fakeStore) ScoreBatch(_ context.Context, ids []uuid.UUID, fn store.ScoreFn) ([]*store.ScoreRecord, error) {
	// Mirrors the transactional store: stage everything, commit once, and
	// stamp every record of the batch with the same height.
	maxRaw := f.maxRaw
	height := f.height + 1
	var recs []*store.ScoreRecord
	for _, id := range ids {
		rec, ok := f.attrs[id]
		if !ok {
			continue
		}
		raw, normalized, newMax := fn(rec.Attrs, f.weights, maxRaw)
		maxRaw = newMax
		recs = append(recs, &store.ScoreRecord{
			AssetID:     id,
			RawScore:    raw,
			Normalized:  normalized,
			LastUpdated: height,
			UpdatedAt:   time.Now(),
		})
	}
	if len(recs) == 0 {
		return nil, nil
	}
	for _, score := range recs {
		cp := *score
		f.scores[score.AssetID] = &cp
	}
	f.maxRaw = maxRaw
	f.height = height
	return recs, nil
}

func (f *fakeStore) GetScoreRecord(_ context.Context, id uuid.UUID) (*store.ScoreRecord, error) {
	score, ok := f.scores[id]
	if !ok {
		return nil, nil
	}
	cp := *score
	return &cp, nil
}

func (f *fakeStore) GetTotalAssets(_ context.Context) (uint64, error) { return f.total, nil }
func (f *fakeStore) GetMaxRawScore(_ context.Context) (uint64, error) { return f.maxRaw, nil }

func (f *fakeStore) GetStats(_ context.Context) (*store.Stats, error) {
	return &store.Stats{
		TotalAssets:  f.total,
		ScoredAssets: uint64(len(f.scores)),
		MaxRawScore:  f.maxRaw,
		Height:       f.height,
		Initialized:  f.initialized,
	}, nil
}

func (f *fakeStore) Close() error { return nil }
