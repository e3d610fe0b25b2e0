package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritydate/verity-backend/internal/db"
)

// DateRepository provides data access methods for the DateSession model.
type DateRepository struct {
	db *gorm.DB
}

// NewDateRepository creates a new repository bound to the given DB connection.
func NewDateRepository(database *gorm.DB) *DateRepository {
	return &DateRepository{db: database}
}

// CreateForMatch creates the pending date session for a match unless one
// already exists. Like match creation, the insert ignores duplicates and
// falls back to a fetch, so a like flow retried after partial failure
// completes the missing session instead of erroring.
func (r *DateRepository) CreateForMatch(ctx context.Context, matchID string) (*db.DateSession, bool, error) {
	d := db.DateSession{
		ID:      uuid.NewString(),
		MatchID: matchID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}},
			DoNothing: true,
		}).
		Create(&d)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &d, true, nil
	}

	existing, err := r.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID fetches a date session by id.
func (r *DateRepository) GetByID(ctx context.Context, id string) (*db.DateSession, error) {
	var d db.DateSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByMatchID fetches the date session bound to a match.
func (r *DateRepository) GetByMatchID(ctx context.Context, matchID string) (*db.DateSession, error) {
	var d db.DateSession
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// SetSchedule stamps the agreed call time.
func (r *DateRepository) SetSchedule(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&db.DateSession{}).
		Where("id = ?", id).
		Update("scheduled_at", at).Error
}

// SetRoom stores the video room url once the external provider created it.
func (r *DateRepository) SetRoom(ctx context.Context, id, roomURL string) error {
	return r.db.WithContext(ctx).Model(&db.DateSession{}).
		Where("id = ?", id).
		Update("room_url", roomURL).Error
}

// SetFeedback records one side's post-call feedback and marks the
// session completed. A second submit from the same side overwrites its
// own field only.
func (r *DateRepository) SetFeedback(ctx context.Context, id string, forUser1 bool, feedback string) error {
	column := "user2_feedback"
	if forUser1 {
		column = "user1_feedback"
	}
	return r.db.WithContext(ctx).Model(&db.DateSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			column:      feedback,
			"completed": true,
		}).Error
}
