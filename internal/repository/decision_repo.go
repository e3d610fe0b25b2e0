package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritydate/verity-backend/internal/db"
)

// DecisionRepository provides data access methods for the SeenDecision
// model: the per-pair like/pass record that feeds the discovery
// exclusion set and the undo operation.
type DecisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new repository bound to the given DB connection.
func NewDecisionRepository(database *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: database}
}

// Upsert inserts or updates the decision for (userID, seenUserID).
//
// Behavior:
//   - If the pair exists, the row is updated with the new action and a
//     fresh seen_at timestamp.
//   - If it doesn't, a new row is inserted.
//   - The unique pair index guarantees a single row per pair.
func (r *DecisionRepository) Upsert(ctx context.Context, userID, seenUserID, action string) error {
	decision := db.SeenDecision{
		ID:         uuid.NewString(),
		UserID:     userID,
		SeenUserID: seenUserID,
		Action:     action,
		SeenAt:     time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "seen_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "seen_at"}),
		}).
		Create(&decision).Error
}

// SeenUserIDs returns every user the given user has already decided on,
// regardless of action. This is the discovery exclusion set.
func (r *DecisionRepository) SeenUserIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&db.SeenDecision{}).
		Where("user_id = ?", userID).
		Pluck("seen_user_id", &ids).Error
	return ids, err
}

// LastPass returns the most recently timestamped pass for a user, or
// (nil, nil) when the user has no pass history.
func (r *DecisionRepository) LastPass(ctx context.Context, userID string) (*db.SeenDecision, error) {
	var d db.SeenDecision
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND action = ?", userID, db.ActionPass).
		Order("seen_at DESC").
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a decision row by id, returning the target profile to
// the candidate pool.
func (r *DecisionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&db.SeenDecision{}, "id = ?", id).Error
}
