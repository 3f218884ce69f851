package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/mysticmatch/internal/db"
)

// DecisionRepository is the like/match ledger. It records every swipe and
// derives match rows from mutual likes.
type DecisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new repository bound to the given DB connection.
func NewDecisionRepository(database *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: database}
}

// RecordDecision appends a like record for user -> target and, for likes,
// creates the match when the target already liked the user.
//
// Behavior:
//   - The like record is always inserted; repeated swipes on the same
//     target add more rows.
//   - When liked = true and a reciprocal like exists, a Match is inserted.
//     The unique (pair_low, pair_high) index makes the insert a no-op if the
//     pair already matched, so newMatch is true for exactly one call per pair.
//   - Everything runs in one transaction. Both profile rows are locked
//     first, lowest id first, so decisions on the same pair run one after
//     the other and the second of two reciprocal likes always sees the first.
//
// Example:
//
//	repo.RecordDecision(ctx, 99, 42, true) // true if 42 had already liked 99
func (r *DecisionRepository) RecordDecision(
	ctx context.Context,
	userID, targetID int64,
	liked bool,
) (newMatch bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, userID, targetID).Error; err != nil {
			return fmt.Errorf("lock pair %d<->%d: %w", userID, targetID, err)
		}

		record := db.LikeRecord{UserID: userID, TargetID: targetID, Liked: liked}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert like record: %w", err)
		}
		if !liked {
			return nil
		}

		mutual, err := hasLiked(tx.Clauses(clause.Locking{Strength: "UPDATE"}), targetID, userID)
		if err != nil {
			return err
		}
		if !mutual {
			return nil
		}

		low, high := db.SortedPair(userID, targetID)
		match := db.Match{User1ID: userID, User2ID: targetID, PairLow: low, PairHigh: high, Active: true}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
		if res.Error != nil {
			return fmt.Errorf("insert match: %w", res.Error)
		}
		newMatch = res.RowsAffected == 1
		return nil
	})
	return newMatch, err
}

// lockPair selects both profile rows FOR UPDATE in id order. SQLite has no
// row locks and drops the clause; it serializes writers on its own.
func lockPair(tx *gorm.DB, a, b int64) *gorm.DB {
	low, high := db.SortedPair(a, b)
	var ids []int64
	return tx.Model(&db.Profile{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ?", []int64{low, high}).
		Order("user_id").
		Pluck("user_id", &ids)
}

// HasLiked checks whether an actor has liked a recipient at least once.
//
// Example:
//
//	repo.HasLiked(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *DecisionRepository) HasLiked(ctx context.Context, actorID, recipientID int64) (bool, error) {
	return hasLiked(r.db.WithContext(ctx), actorID, recipientID)
}

func hasLiked(tx *gorm.DB, actorID, recipientID int64) (bool, error) {
	var count int64
	err := tx.Model(&db.LikeRecord{}).
		Where("user_id = ? AND target_id = ? AND liked = ?", actorID, recipientID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check like %d->%d: %w", actorID, recipientID, err)
	}
	return count > 0, nil
}

// IsMatched reports whether an active match exists for the pair, in either order.
func (r *DecisionRepository) IsMatched(ctx context.Context, a, b int64) (bool, error) {
	low, high := db.SortedPair(a, b)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("pair_low = ? AND pair_high = ? AND active = ?", low, high, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check match %d<->%d: %w", a, b, err)
	}
	return count > 0, nil
}

// MatchedUserIDs lists the counterparts of every active match of userID,
// oldest match first.
func (r *DecisionRepository) MatchedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?) AND active = ?", userID, userID, true).
		Order("id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list matches for %d: %w", userID, err)
	}

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Other(userID))
	}
	return ids, nil
}

// SetMatchActive toggles a match without deleting it.
func (r *DecisionRepository) SetMatchActive(ctx context.Context, a, b int64, active bool) error {
	low, high := db.SortedPair(a, b)
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("pair_low = ? AND pair_high = ?", low, high).
		Update("active", active).Error
	if err != nil {
		return fmt.Errorf("set match %d<->%d active=%v: %w", a, b, active, err)
	}
	return nil
}

// CountLikers returns how many distinct users liked the recipient.
// Used behind the redis counter cache; the DB is the fallback.
//
// Example:
//
//	repo.CountLikers(ctx, 42) // -> 3
func (r *DecisionRepository) CountLikers(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikeRecord{}).
		Where("target_id = ? AND liked = ?", recipientID, true).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count likers of %d: %w", recipientID, err)
	}
	return count, nil
}

// CountDecisions returns how many like records user -> target exist. Mostly
// useful to observe the append-only history.
func (r *DecisionRepository) CountDecisions(ctx context.Context, userID, targetID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikeRecord{}).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count decisions %d->%d: %w", userID, targetID, err)
	}
	return count, nil
}
