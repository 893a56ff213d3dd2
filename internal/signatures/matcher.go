package signatures

import (
	"context"
	"errors"
	"sync"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// Lookup is the part of a blocklist the matcher depends on
type Lookup interface {
	Match(ctx context.Context, digest models.Digest) (Result, error)
}

// Matcher checks a file's digests against the blocklists in a fixed order
type Matcher struct {
	algorithms []models.Algorithm
	lists      map[models.Algorithm]Lookup
	failOnMiss bool
	logger     *zap.Logger

	warnOnce sync.Map // models.Algorithm -> struct{}
}

// NewMatcher creates a new blocklist matcher. With failOnMissing set, an
// unavailable list fails the file's scan; otherwise it counts as no match
// for that algorithm.
func NewMatcher(lists []*Blocklist, failOnMissing bool, logger *zap.Logger) *Matcher {
	lookups := make(map[models.Algorithm]Lookup, len(lists))
	algs := make([]models.Algorithm, 0, len(lists))
	for _, l := range lists {
		lookups[l.Algorithm] = l
		algs = append(algs, l.Algorithm)
	}
	return NewMatcherWithLookups(algs, lookups, failOnMissing, logger)
}

// NewMatcherWithLookups builds a matcher over arbitrary lookups
func NewMatcherWithLookups(algs []models.Algorithm, lists map[models.Algorithm]Lookup, failOnMissing bool, logger *zap.Logger) *Matcher {
	return &Matcher{
		algorithms: algs,
		lists:      lists,
		failOnMiss: failOnMissing,
		logger:     logger,
	}
}

// Algorithms returns the check order
func (m *Matcher) Algorithms() []models.Algorithm {
	return m.algorithms
}

// Match returns the first digest found in its blocklist, or nil when none
// matched. Lists after the first hit are not consulted.
func (m *Matcher) Match(ctx context.Context, digests map[models.Algorithm]models.Digest) (*models.Digest, error) {
	for _, alg := range m.algorithms {
		digest, ok := digests[alg]
		if !ok {
			continue
		}
		list, ok := m.lists[alg]
		if !ok {
			continue
		}

		result, err := list.Match(ctx, digest)
		switch result {
		case Found:
			return &digest, nil
		case ListUnavailable:
			if m.failOnMiss {
				return nil, err
			}
			if _, warned := m.warnOnce.LoadOrStore(alg, struct{}{}); !warned {
				m.logger.Warn("Blocklist unavailable, skipping algorithm",
					zap.String("algorithm", string(alg)),
					zap.Error(err))
			}
		default:
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				m.logger.Warn("Blocklist lookup failed",
					zap.String("algorithm", string(alg)),
					zap.Error(err))
			}
		}
	}

	return nil, nil
}
