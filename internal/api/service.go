package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/mintmesh/rarityd/internal/scoring"
	"github.com/mintmesh/rarityd/internal/store"
)

// Service is the engine surface the handlers consume.
type Service interface {
	Initialize(ctx context.Context, caller string) error
	Register(ctx context.Context, caller string, assetID uuid.UUID, attrs scoring.AttributeSet) (*store.AttributeRecord, error)
	ComputeScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error)
	BatchCompute(ctx context.Context, assetIDs []uuid.UUID) (scoring.BatchSummary, error)
	UpdateWeight(ctx context.Context, caller, name string, weight uint32) error
	GetAttributes(ctx context.Context, assetID uuid.UUID) (*store.AttributeRecord, error)
	GetScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error)
	GetWeight(ctx context.Context, name string) (uint32, bool, error)
	GetWeights(ctx context.Context) (scoring.WeightTable, error)
	GetTotalAssets(ctx context.Context) (uint64, error)
	GetStats(ctx context.Context) (*store.Stats, error)
}
