package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mintmesh/rarityd/internal/scoring"
)

var (
	// ErrNotFound reports a reference to an unregistered asset id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists reports a duplicate registration or a repeated
	// weight-table initialization.
	ErrAlreadyExists = errors.New("already exists")
)

// AttributeRecord is the write-once trait record for one asset. It is
// created exactly once at registration and never mutated or deleted.
type AttributeRecord struct {
	AssetID   uuid.UUID            `json:"asset_id"`
	Attrs     scoring.AttributeSet `json:"attributes"`
	Owner     string               `json:"owner"`
	CreatedAt time.Time            `json:"created_at"`
}

// ScoreRecord is the upsertable scoring output for one asset. Rank is a
// reserved slot and stays 0 until population-wide ranking exists.
type ScoreRecord struct {
	AssetID     uuid.UUID `json:"asset_id"`
	RawScore    uint64    `json:"raw_score"`
	Normalized  uint32    `json:"normalized_score"`
	Rank        uint32    `json:"rank"`
	LastUpdated uint64    `json:"last_updated"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stats is the global scalar snapshot exposed to operators.
type Stats struct {
	TotalAssets  uint64 `json:"total_assets"`
	ScoredAssets uint64 `json:"scored_assets"`
	MaxRawScore  uint64 `json:"max_raw_score"`
	Height       uint64 `json:"height"`
	Initialized  bool   `json:"weights_initialized"`
}

// ScoreFn computes the raw and normalized scores for one asset given its
// traits, the current weight table, and the current high-water mark. It
// returns the possibly advanced mark. The store invokes it inside a
// transaction holding the state row lock, so the read-modify-write of the
// mark is atomic.
type ScoreFn func(attrs scoring.AttributeSet, weights scoring.WeightTable, maxRaw uint64) (raw uint64, normalized uint32, newMax uint64)

type Store interface {
	// Attributes (write-once per asset id)
	RegisterAsset(ctx context.Context, rec *AttributeRecord) error
	GetAttributeRecord(ctx context.Context, id uuid.UUID) (*AttributeRecord, error)

	// Weight table
	InitializeWeights(ctx context.Context, weights scoring.WeightTable) error
	UpdateWeight(ctx context.Context, name string, weight uint32) error
	GetWeight(ctx context.Context, name string) (uint32, bool, error)
	GetWeights(ctx context.Context) (scoring.WeightTable, error)
	WeightsInitialized(ctx context.Context) (bool, error)

	// Scoring. ScoreBatch runs the whole batch in one transaction: every
	// record carries the same height stamp and a failure discards all of
	// the batch's writes. Unregistered ids are skipped, not fatal.
	ScoreAsset(ctx context.Context, id uuid.UUID, fn ScoreFn) (*ScoreRecord, error)
	ScoreBatch(ctx context.Context, ids []uuid.UUID, fn ScoreFn) ([]*ScoreRecord, error)
	GetScoreRecord(ctx context.Context, id uuid.UUID) (*ScoreRecord, error)

	// Global scalars
	GetTotalAssets(ctx context.Context) (uint64, error)
	GetMaxRawScore(ctx context.Context) (uint64, error)
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
