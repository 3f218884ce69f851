// Package matchmaking implements candidate selection and the like/match
// ledger on top of the profile and decision repositories.
package matchmaking

import (
	"context"
	"fmt"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/domain"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/metrics"
	"github.com/oggyb/mysticmatch/internal/repository"
)

// DefaultCandidateBatch caps how many candidates one selection query loads.
const DefaultCandidateBatch = 50

type Service struct {
	appCtx    *app.AppContext
	profiles  *repository.ProfileRepository
	decisions *repository.DecisionRepository
	batch     int
}

func NewService(appCtx *app.AppContext) *Service {
	batch := DefaultCandidateBatch
	if appCtx.Config != nil && appCtx.Config.Match.CandidateBatch > 0 {
		batch = appCtx.Config.Match.CandidateBatch
	}
	return &Service{
		appCtx:    appCtx,
		profiles:  appCtx.Profiles,
		decisions: appCtx.Decisions,
		batch:     batch,
	}
}

// NextCandidate returns the next profile the viewer has not swiped yet, or
// nil when nobody is left.
//
// Behavior:
//   - The viewer must have a committed profile (svcErr.ErrProfileNotFound otherwise).
//   - The viewer, every previously swiped target and inactive profiles are excluded.
//   - Gender follows the viewer's preference; "all" or unset means no filter.
//   - The candidate's own preference is not consulted.
//   - Without a new decision, repeated calls return the same candidate.
//
// Example:
//
//	svc.NextCandidate(ctx, 99) // -> profile 42, if 42 is female and 99 wants women
func (s *Service) NextCandidate(ctx context.Context, viewerID int64) (*db.Profile, error) {
	viewer, err := s.profiles.Get(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filter := repository.CandidateFilter{ViewerID: viewerID}
	if g, ok := domain.Preference(viewer.Preference()).GenderFilter(); ok {
		filter.Gender = string(g)
	}

	candidates, err := s.profiles.QueryCandidates(ctx, filter, s.batch)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.appCtx.Logger.Debug("no candidates left", "viewer", viewerID)
		return nil, nil
	}
	return &candidates[0], nil
}

// RecordDecision stores a like or pass and reports whether it created a new match.
//
// Behavior:
//   - Deciding on yourself returns svcErr.ErrSelfDecision.
//   - Both users must have a profile (svcErr.ErrProfileNotFound otherwise).
//   - A like invalidates the target's cached like counter.
//   - Exactly one of two reciprocal likes reports isNewMatch = true.
func (s *Service) RecordDecision(ctx context.Context, userID, targetID int64, liked bool) (isNewMatch bool, err error) {
	if userID == targetID {
		return false, svcErr.ErrSelfDecision
	}
	for _, id := range []int64{userID, targetID} {
		ok, err := s.profiles.Exists(ctx, id)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("user %d: %w", id, svcErr.ErrProfileNotFound)
		}
	}

	isNewMatch, err = s.decisions.RecordDecision(ctx, userID, targetID, liked)
	if err != nil {
		return false, err
	}
	metrics.Swipes.WithLabelValues(metrics.Decision(liked)).Inc()

	if liked && s.appCtx.RedisCache != nil {
		if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, targetID); err != nil {
			s.appCtx.Logger.Warn("invalidate like count", "user", targetID, "err", err)
		}
	}
	if isNewMatch {
		metrics.Matches.Inc()
		s.appCtx.Logger.Info("new match", "user", userID, "target", targetID)
	}
	return isNewMatch, nil
}

// IsMatched reports whether a and b share an active match, in either order.
func (s *Service) IsMatched(ctx context.Context, a, b int64) (bool, error) {
	return s.decisions.IsMatched(ctx, a, b)
}

// Matches returns the profiles of every active match of userID, oldest first.
func (s *Service) Matches(ctx context.Context, userID int64) ([]db.Profile, error) {
	ids, err := s.decisions.MatchedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetMany(ctx, ids)
}

// CountLikes returns how many distinct users liked userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On a miss falls back to DecisionRepository.CountLikers.
//  3. Writes the DB value back with a 1h TTL.
func (s *Service) CountLikes(ctx context.Context, userID int64) (int64, error) {
	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetLikeCount(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Warn("redis like count read failed", "user", userID, "err", err)
		} else if ok {
			return n, nil
		}
	}

	n, err := s.decisions.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rc != nil {
		if err := rc.UpdateLikeCount(ctx, userID, n); err != nil {
			s.appCtx.Logger.Warn("redis like count write failed", "user", userID, "err", err)
		}
	}
	return n, nil
}
