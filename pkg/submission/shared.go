package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formwizard/pkg/cache"
)

// SharedPredictor collapses concurrent identical submissions into a single
// upstream request. Callers with the same payload share the first caller's
// result. The shared request runs detached from any one caller's
// cancellation; each caller stops waiting when its own context ends.
type SharedPredictor struct {
	next  Predictor
	group singleflight.Group
}

var _ Predictor = (*SharedPredictor)(nil)

// NewSharedPredictor wraps next.
func NewSharedPredictor(next Predictor) *SharedPredictor {
	return &SharedPredictor{next: next}
}

// Predict forwards payload unless an identical request is already running.
func (s *SharedPredictor) Predict(ctx context.Context, payload url.Values) (Result, error) {
	flight := context.WithoutCancel(ctx)
	ch := s.group.DoChan(cache.Key(payload), func() (any, error) {
		return s.next.Predict(flight, payload)
	})
	select {
	case res := <-ch:
		result, _ := res.Val.(Result)
		return result, res.Err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
	}
}

// CachingPredictor answers repeated payloads from a cache.Store. Only
// successful predictions are stored; server errors and transport failures
// always reach the upstream again.
type CachingPredictor struct {
	next   Predictor
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

var _ Predictor = (*CachingPredictor)(nil)

// NewCachingPredictor wraps next with store. A nil logger is replaced by a
// no-op logger.
func NewCachingPredictor(next Predictor, store cache.Store, ttl time.Duration, logger *zap.Logger) *CachingPredictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingPredictor{next: next, store: store, ttl: ttl, logger: logger}
}

// Predict looks payload up before calling the upstream. Cache failures are
// logged and never fail the prediction.
func (c *CachingPredictor) Predict(ctx context.Context, payload url.Values) (Result, error) {
	key := cache.Key(payload)
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("prediction cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var cached Result
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.Prediction != nil {
			c.logger.Debug("prediction cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	result, err := c.next.Predict(ctx, payload)
	if err != nil || result.Prediction == nil || result.Error != "" {
		return result, err
	}
	encoded, merr := json.Marshal(result)
	if merr != nil {
		return result, nil
	}
	if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
		c.logger.Warn("prediction cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}
