package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritydate/verity-backend/internal/db"
)

// MatchRepository provides data access methods for the Match model.
//
// Pair uniqueness is enforced in the store: matches are keyed by the
// canonical (user_low, user_high) ordering with a unique index, so two
// racing like calls both land on the same row.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent creates the match for the unordered pair {user1, user2}
// unless one already exists. Returns the match row either way; created
// reports whether this call inserted it.
//
// The insert is OnConflict-DoNothing against the canonical pair index
// followed by a fetch, so the loser of a race converges on the winner's
// row instead of failing.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, user1, user2 string) (*db.Match, bool, error) {
	low, high := user1, user2
	if low > high {
		low, high = high, low
	}

	m := db.Match{
		ID:             uuid.NewString(),
		UserLow:        low,
		UserHigh:       high,
		User1:          user1,
		User2:          user2,
		BothInterested: true,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low"}, {Name: "user_high"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &m, true, nil
	}

	var existing db.Match
	if err := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// GetByID fetches a match by id.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByPair fetches the match for an unordered pair, or nil when none exists.
func (r *MatchRepository) GetByPair(ctx context.Context, userA, userB string) (*db.Match, error) {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	var m db.Match
	err := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns every match the user participates in, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_low = ? OR user_high = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// UnlockChat flips the post-date flags after a mutual "yes".
func (r *MatchRepository) UnlockChat(ctx context.Context, matchID string) error {
	return r.db.WithContext(ctx).Model(&db.Match{}).
		Where("id = ?", matchID).
		Updates(map[string]any{
			"chat_unlocked":   true,
			"both_interested": true,
		}).Error
}
