package riskassessment

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/rs/zerolog"
)

// LatestCache is the key/value cache used for the per-user latest
// assessment. SetIfNewer must compare and write atomically. *cache.Cache
// satisfies it.
type LatestCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	SetIfNewer(ctx context.Context, key string, v any, rank string) (bool, error)
}

// cachedRepo serves Latest from cache and refreshes the entry on Store.
// Cache failures are logged and never fail the underlying operation.
type cachedRepo struct {
	Repository
	cache  LatestCache
	logger zerolog.Logger
}

func NewCachedRepo(inner Repository, cache LatestCache, logger zerolog.Logger) Repository {
	return &cachedRepo{Repository: inner, cache: cache, logger: logger}
}

func latestKey(userID string) string { return "latest:" + userID }

func (r *cachedRepo) Store(ctx context.Context, a *AdvancedRiskAssessment) error {
	if err := r.Repository.Store(ctx, a); err != nil {
		return err
	}
	r.offer(ctx, a)
	return nil
}

func (r *cachedRepo) Latest(ctx context.Context, userID string) (*AdvancedRiskAssessment, error) {
	if cached, ok := r.cached(ctx, userID); ok {
		return cached, nil
	}

	a, err := r.Repository.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r.offer(ctx, a) {
		return a, nil
	}
	// A newer assessment was cached while we read the store.
	if cached, ok := r.cached(ctx, userID); ok && newer(cached, a) {
		return cached, nil
	}
	return a, nil
}

func (r *cachedRepo) cached(ctx context.Context, userID string) (*AdvancedRiskAssessment, bool) {
	var cached AdvancedRiskAssessment
	hit, err := r.cache.Get(ctx, latestKey(userID), &cached)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("latest cache read failed")
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &cached, true
}

// offer caches a unless a newer assessment is already cached, and reports
// whether it was written.
func (r *cachedRepo) offer(ctx context.Context, a *AdvancedRiskAssessment) bool {
	written, err := r.cache.SetIfNewer(ctx, latestKey(a.UserID), a, rank(a))
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", a.UserID).Msg("latest cache write failed")
		return false
	}
	return written
}

// rank orders assessments the same way newer does, as a fixed-width string
// that sorts bytewise.
func rank(a *AdvancedRiskAssessment) string {
	return a.Timestamp.UTC().Format("20060102T150405.000000000") + "/" + hex.EncodeToString(a.AssessmentID[:])
}

// newer reports whether a was assessed after b. Ties fall back to the
// time-ordered UUIDv7 ids.
func newer(a, b *AdvancedRiskAssessment) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return bytes.Compare(a.AssessmentID[:], b.AssessmentID[:]) > 0
}
