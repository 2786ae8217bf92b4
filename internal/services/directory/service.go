// Package directory serves the listed-instrument universe with
// multi-script fuzzy search.
package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shiradev/kabuto/internal/cache"
	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/models"
)

// ErrUnavailable means the listed universe could not be fetched at all.
// A filter matching nothing is a valid empty result, not this error.
var ErrUnavailable = errors.New("listed directory unavailable")

// Service implements DirectoryService. The snapshot is replaced
// wholesale on expiry, never patched; concurrent cold-cache readers
// share one reload.
type Service struct {
	jquants interfaces.JQuantsClient
	snap    *cache.Snapshot[[]models.ListedEntry]
	ttl     time.Duration
	group   singleflight.Group
	logger  *common.Logger
}

// NewService creates the directory service
func NewService(jq interfaces.JQuantsClient, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		jquants: jq,
		snap:    cache.NewSnapshot[[]models.ListedEntry](),
		ttl:     ttl,
		logger:  logger,
	}
}

// List returns listed instruments in source-snapshot order, filtered by
// query when non-empty. A query matches an entry when any folded variant
// of it is a substring of the entry's folded code, native name or
// transliterated name.
func (s *Service) List(ctx context.Context, query string) ([]models.ListedEntry, error) {
	entries, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return entries, nil
	}

	variants := FoldQuery(query)
	matched := make([]models.ListedEntry, 0)
	for _, e := range entries {
		if entryMatches(e, variants) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// snapshot returns the cached universe, reloading it when stale.
func (s *Service) snapshot(ctx context.Context) ([]models.ListedEntry, error) {
	if entries, ok := s.snap.Get(); ok {
		return entries, nil
	}

	v, err, _ := s.group.Do("listed", func() (interface{}, error) {
		// A concurrent caller may have completed the reload already
		if entries, ok := s.snap.Get(); ok {
			return entries, nil
		}

		if s.jquants == nil {
			return nil, ErrUnavailable
		}

		entries, err := s.jquants.ListedInfo(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("listed directory fetch failed")
			return nil, err
		}
		if len(entries) == 0 {
			return nil, ErrUnavailable
		}

		s.snap.Put(entries, s.ttl)
		s.logger.Info().Int("count", len(entries)).Msg("listed directory snapshot refreshed")
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ListedEntry), nil
}

func entryMatches(e models.ListedEntry, variants []string) bool {
	fields := [3]string{Fold(e.Code), Fold(e.NativeName), Fold(e.EnglishName)}
	for _, v := range variants {
		if v == "" {
			continue
		}
		for _, f := range fields {
			if f != "" && strings.Contains(f, v) {
				return true
			}
		}
	}
	return false
}

// Ensure Service implements DirectoryService
var _ interfaces.DirectoryService = (*Service)(nil)
