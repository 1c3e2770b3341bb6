package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/glabrego/sponsored-cli/internal/recommend"
	"github.com/glabrego/sponsored-cli/internal/retry"
)

// Source is a single-shot recommendation lookup: the HTTP client or the
// offline catalog.
type Source interface {
	Fetch(ctx context.Context, count int) ([]recommend.Recommendation, error)
}

// Service is the provider handed to the widget. It keeps asking its source
// until it gets a non-empty answer or runs out of attempts.
type Service struct {
	source Source
	policy retry.Policy
	log    logr.Logger
	sleep  retry.Sleeper
}

// NewService wraps source with the given retry policy.
func NewService(source Source, policy retry.Policy, logger logr.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("app: source is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("app: provider %w", err)
	}
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Service{source: source, policy: policy, log: logger.WithName("provider")}, nil
}

// Fetch returns sponsored recommendations. Failed attempts are retried like
// empty ones. When attempts run out an empty list is returned, unless every
// attempt failed, in which case the last error is.
func (s *Service) Fetch(ctx context.Context, count int) ([]recommend.Recommendation, error) {
	var (
		failures int
		lastErr  error
	)
	attempt := func(ctx context.Context) ([]recommend.Recommendation, error) {
		recs, err := s.source.Fetch(ctx, count)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			failures++
			lastErr = err
			s.log.Error(err, "recommendation request failed", "count", count, "failures", failures)
			return nil, nil
		}
		return recommend.FilterSponsored(recs), nil
	}

	res, err := retry.DoWithSleeper(ctx, s.policy, s.sleep, attempt, func(recs []recommend.Recommendation) bool {
		return len(recs) > 0
	})
	switch {
	case err == nil:
		s.log.V(1).Info("fetched recommendations", "count", count, "received", len(res.Value), "attempts", res.Attempts)
		return res.Value, nil
	case errors.Is(err, retry.ErrExhausted):
		if failures == res.Attempts {
			return nil, fmt.Errorf("fetch recommendations after %d attempts: %w", res.Attempts, lastErr)
		}
		s.log.Info("no sponsored recommendations available", "count", count, "attempts", res.Attempts)
		return []recommend.Recommendation{}, nil
	default:
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
}
