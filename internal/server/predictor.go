package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/cache"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

// PredictorConfig describes the upstream prediction service and its cache.
type PredictorConfig struct {
	Endpoint string
	Timeout  time.Duration
	// Store caches successful predictions for TTL. Nil disables caching.
	Store cache.Store
	TTL   time.Duration
}

// NewPredictor chains the HTTP client behind the cache and a singleflight
// group, so identical concurrent payloads share one upstream call.
func NewPredictor(cfg PredictorConfig, logger *zap.Logger) submission.Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	var predictor submission.Predictor = submission.NewClient(cfg.Endpoint,
		submission.WithTimeout(cfg.Timeout),
		submission.WithClientLogger(logger),
	)
	if cfg.Store != nil {
		predictor = submission.NewCachingPredictor(predictor, cfg.Store, cfg.TTL, logger)
	}
	return submission.NewSharedPredictor(predictor)
}
