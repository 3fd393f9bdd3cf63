package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assetsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rarityd_assets_registered_total",
		Help: "Assets registered since process start.",
	})
	scoresComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rarityd_scores_computed_total",
		Help: "Score computations, including per-asset batch iterations.",
	})
	highWaterAdvances = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rarityd_high_water_advances_total",
		Help: "Times a raw score advanced the shared high-water mark.",
	})
	batchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rarityd_batch_requests_total",
		Help: "Batch computations accepted.",
	})
	weightUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rarityd_weight_updates_total",
		Help: "Owner weight updates applied.",
	})
)
