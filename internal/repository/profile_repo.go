package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/mysticmatch/internal/db"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
)

// ProfileRepository is the profile store: lookup, creation, partial update
// and candidate queries.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// ProfileUpdate carries the fields of a partial update. Nil fields are left untouched.
type ProfileUpdate struct {
	Username     *string
	InterestedIn *string
	City         *string
	Bio          *string
	Photo        *string
	Active       *bool
}

func (u ProfileUpdate) columns() map[string]any {
	cols := map[string]any{}
	if u.Username != nil {
		cols["username"] = *u.Username
	}
	if u.InterestedIn != nil {
		cols["interested_in"] = *u.InterestedIn
	}
	if u.City != nil {
		cols["city"] = *u.City
	}
	if u.Bio != nil {
		cols["bio"] = *u.Bio
	}
	if u.Photo != nil {
		cols["photo"] = *u.Photo
	}
	if u.Active != nil {
		cols["active"] = *u.Active
	}
	return cols
}

// CandidateFilter narrows QueryCandidates.
//
//   - ViewerID is always excluded, as is every user the viewer already swiped.
//   - Gender, when non-empty, restricts candidates to that gender.
type CandidateFilter struct {
	ViewerID int64
	Gender   string
}

// Get returns the profile for userID or svcErr.ErrProfileNotFound.
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*db.Profile, error) {
	var p db.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", userID, err)
	}
	return &p, nil
}

// Exists is a cheap presence check used for registration gating.
func (r *ProfileRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check profile %d: %w", userID, err)
	}
	return count > 0, nil
}

// Create inserts a new profile in a single write.
func (r *ProfileRepository) Create(ctx context.Context, p *db.Profile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create profile %d: %w", p.UserID, err)
	}
	return nil
}

// Update applies a partial update. Updating a missing profile returns
// svcErr.ErrProfileNotFound.
func (r *ProfileRepository) Update(ctx context.Context, userID int64, u ProfileUpdate) error {
	cols := u.columns()
	if len(cols) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&db.Profile{}).Where("user_id = ?", userID).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update profile %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 rows for no-op updates, so confirm the row is really gone.
		ok, err := r.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.ErrProfileNotFound
		}
	}
	return nil
}

// GetMany loads profiles for the given ids, preserving the order of ids.
// Unknown ids are skipped.
func (r *ProfileRepository) GetMany(ctx context.Context, ids []int64) ([]db.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []db.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}

	byID := make(map[int64]db.Profile, len(rows))
	for _, p := range rows {
		byID[p.UserID] = p
	}
	out := make([]db.Profile, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// QueryCandidates returns up to limit swipe candidates for the filter.
//
// Behavior:
//   - Only active profiles with a preference set (finished registration).
//   - Excludes the viewer and every target the viewer has a like record for,
//     liked or passed.
//   - Optional gender filter. The candidate's own preference is not checked.
//   - Ordered by user_id so unchanged data always yields the same first row.
func (r *ProfileRepository) QueryCandidates(ctx context.Context, f CandidateFilter, limit int) ([]db.Profile, error) {
	seen := r.db.Model(&db.LikeRecord{}).Select("target_id").Where("user_id = ?", f.ViewerID)

	query := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id <> ?", f.ViewerID).
		Where("user_id NOT IN (?)", seen).
		Where("active = ?", true).
		Where("interested_in IS NOT NULL")
	if f.Gender != "" {
		query = query.Where("gender = ?", f.Gender)
	}

	var out []db.Profile
	if err := query.Order("user_id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query candidates for %d: %w", f.ViewerID, err)
	}
	return out, nil
}
