package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/geo"
	"github.com/veritydate/verity-backend/internal/logger"
)

// ProfileRepository provides data access methods for the Profile model.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Create inserts a new profile, assigning an id if none is set.
func (r *ProfileRepository) Create(ctx context.Context, p *db.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByUserID fetches a profile by its owner's user id.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUserIDs fetches profiles for a set of user ids. Missing ids are
// silently absent from the result.
func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]db.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []db.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

// NearbyParams narrows the candidate set for a discovery query.
type NearbyParams struct {
	Origin      geo.Point
	RadiusKm    float64
	GenderPrefs []string // may contain db.GenderEveryone
	AgeMin      int
	AgeMax      int // inclusive
	ExcludedIDs []string
}

// Nearby returns candidate profiles within the search radius.
//
// Behavior:
//   - SQL narrows by inclusive age bounds, gender set (skipped when the
//     prefs contain the "everyone" wildcard), exclusion ids and non-empty
//     location.
//   - Great-circle distance is computed per row on the narrowed set;
//     rows outside RadiusKm are dropped and DistanceMeters is attached
//     to the rest.
//   - Rows with a malformed location are skipped, not propagated.
//   - Ordering: profiles with a live boost (boost_expires_at in the
//     future, evaluated at query time) sort before all others; distance
//     ascending within each tier.
func (r *ProfileRepository) Nearby(ctx context.Context, params NearbyParams) ([]db.Profile, error) {
	query := r.db.WithContext(ctx).
		Where("age >= ? AND age <= ?", params.AgeMin, params.AgeMax).
		Where("location <> ''")

	if len(params.GenderPrefs) > 0 && !containsEveryone(params.GenderPrefs) {
		query = query.Where("gender IN ?", params.GenderPrefs)
	}
	if len(params.ExcludedIDs) > 0 {
		query = query.Where("user_id NOT IN ?", params.ExcludedIDs)
	}

	var rows []db.Profile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	maxMeters := params.RadiusKm * 1000

	matched := rows[:0]
	for i := range rows {
		p := rows[i]
		point, err := geo.ParsePoint(p.Location)
		if err != nil {
			logger.Warn("skipping profile with malformed location", "user_id", p.UserID, "err", err)
			continue
		}
		d := geo.DistanceMeters(params.Origin, point)
		if d > maxMeters {
			continue
		}
		p.DistanceMeters = d
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		bi, bj := boostedAt(&matched[i], now), boostedAt(&matched[j], now)
		if bi != bj {
			return bi
		}
		return matched[i].DistanceMeters < matched[j].DistanceMeters
	})

	return matched, nil
}

// ApplyBoost stamps a new boost expiry and bumps the boost counter.
func (r *ProfileRepository) ApplyBoost(ctx context.Context, userID string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"boost_expires_at": expiresAt,
			"boost_count":      gorm.Expr("boost_count + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLocation replaces the stored POINT text for a user.
func (r *ProfileRepository) UpdateLocation(ctx context.Context, userID string, point geo.Point) error {
	return r.db.WithContext(ctx).Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("location", geo.FormatPoint(point)).Error
}

// TouchLastActive stamps the user's last activity time.
func (r *ProfileRepository) TouchLastActive(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("last_active", at).Error
}

// SetVerified marks the profile as verified.
func (r *ProfileRepository) SetVerified(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("verified", true).Error
}

func containsEveryone(prefs []string) bool {
	for _, g := range prefs {
		if g == db.GenderEveryone {
			return true
		}
	}
	return false
}

func boostedAt(p *db.Profile, now time.Time) bool {
	return p.BoostExpiresAt != nil && p.BoostExpiresAt.After(now)
}
