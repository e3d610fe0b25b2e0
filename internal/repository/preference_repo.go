package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritydate/verity-backend/internal/db"
)

// PreferenceRepository provides data access methods for per-user
// discovery preferences.
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new repository bound to the given DB connection.
func NewPreferenceRepository(database *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: database}
}

// Get fetches a user's preferences.
func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*db.Preference, error) {
	var p db.Preference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes a user's preferences, replacing any existing row.
func (r *PreferenceRepository) Upsert(ctx context.Context, p *db.Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gender_prefs", "age_min", "age_max", "distance_km"}),
		}).
		Create(p).Error
}
