package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mintmesh/rarityd/internal/engine"
	"github.com/mintmesh/rarityd/internal/scoring"
	"github.com/mintmesh/rarityd/internal/store"
)

// MockService implements the Service interface for testing
type MockService struct {
	mock.Mock
}

func (m *MockService) Initialize(ctx context.Context, caller string) error {
	args := m.Called(ctx, caller)
	return args.Error(0)
}

func (m *MockService) Register(ctx context.Context, caller string, assetID uuid.UUID, attrs scoring.AttributeSet) (*store.AttributeRecord, error) {
	args := m.Called(ctx, caller, assetID, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AttributeRecord), args.Error(1)
}

func (m *MockService) ComputeScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ScoreRecord), args.Error(1)
}

func (m *MockService) BatchCompute(ctx context.Context, assetIDs []uuid.UUID) (scoring.BatchSummary, error) {
	args := m.Called(ctx, assetIDs)
	return args.Get(0).(scoring.BatchSummary), args.Error(1)
}

func (m *MockService) UpdateWeight(ctx context.Context, caller, name string, weight uint32) error {
	args := m.Called(ctx, caller, name, weight)
	return args.Error(0)
}

func (m *MockService) GetAttributes(ctx context.Context, assetID uuid.UUID) (*store.AttributeRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AttributeRecord), args.Error(1)
}

func (m *MockService) GetScore(ctx context.Context, assetID uuid.UUID) (*store.ScoreRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ScoreRecord), args.Error(1)
}

func (m *MockService) GetWeight(ctx context.Context, name string) (uint32, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint32), args.Bool(1), args.Error(2)
}

func (m *MockService) GetWeights(ctx context.Context) (scoring.WeightTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(scoring.WeightTable), args.Error(1)
}

func (m *MockService) GetTotalAssets(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockService) GetStats(ctx context.Context) (*store.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Stats), args.Error(1)
}

func computeWith(t *testing.T, svcErr error) *httptest.ResponseRecorder {
	t.Helper()

	id := uuid.New()
	svc := new(MockService)
	svc.On("ComputeScore", mock.Anything, id).Return(nil, svcErr)

	h := NewScoresHandler(svc)

	r := chi.NewRouter()
	r.Post("/scores/{id}", h.Compute)

	req := httptest.NewRequest("POST", "/scores/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	svc.AssertExpectations(t)
	return w
}

func TestComputeErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", engine.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"not initialized", engine.ErrNotInitialized, http.StatusConflict},
		{"already exists", store.ErrAlreadyExists, http.StatusConflict},
		{"invalid attribute", scoring.ErrInvalidAttribute, http.StatusBadRequest},
		{"invalid weight", scoring.ErrInvalidWeight, http.StatusBadRequest},
		{"batch limit", engine.ErrBatchLimit, http.StatusBadRequest},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := computeWith(t, tc.err)
			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestComputeReturnsRecord(t *testing.T) {
	id := uuid.New()
	rec := &store.ScoreRecord{AssetID: id, RawScore: 13000, Normalized: 10000, LastUpdated: 1}

	svc := new(MockService)
	svc.On("ComputeScore", mock.Anything, id).Return(rec, nil)

	h := NewScoresHandler(svc)
	r := chi.NewRouter()
	r.Post("/scores/{id}", h.Compute)

	req := httptest.NewRequest("POST", "/scores/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"raw_score":13000`)
	svc.AssertExpectations(t)
}
