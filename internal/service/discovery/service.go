package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/db"
	svcErr "github.com/veritydate/verity-backend/internal/errors"
	"github.com/veritydate/verity-backend/internal/geo"
	"github.com/veritydate/verity-backend/internal/repository"
)

// DefaultLimit caps a discovery page when the caller does not specify one.
const DefaultLimit = 10

// activeWindow bounds the "active recently" post-filter.
const activeWindow = 24 * time.Hour

// Defaults applied when the user has not saved preferences yet.
const (
	defaultAgeMin     = 18
	defaultAgeMax     = 100
	defaultDistanceKm = 50
)

// Filters are optional client-side post-filters. They run against the
// already-limited candidate set, so a filtered page can return fewer
// than limit items even when more would qualify. That matches the
// shipped behavior and callers paginate around it.
type Filters struct {
	VerifiedOnly   bool
	ActiveRecently bool
}

// Service computes the candidate profiles a user swipes through.
type Service struct {
	appCtx       *app.AppContext
	profileRepo  *repository.ProfileRepository
	prefRepo     *repository.PreferenceRepository
	decisionRepo *repository.DecisionRepository
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		profileRepo:  repository.NewProfileRepository(appCtx.DB),
		prefRepo:     repository.NewPreferenceRepository(appCtx.DB),
		decisionRepo: repository.NewDecisionRepository(appCtx.DB),
	}
}

// Discover returns up to limit candidate profiles for userID, excluding
// the requester, anyone already decided on, and anyone outside the
// user's preference window. Boosted profiles sort first.
//
// Failure semantics: a requester without a stored location gets
// ErrLocationMissing so the UI can route to profile completion. Every
// other downstream failure degrades to an empty page — logged, not
// surfaced — so callers must treat "empty" as "try again later".
func (s *Service) Discover(ctx context.Context, userID string, limit int, filters Filters) ([]db.Profile, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	me, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no profile for user", svcErr.ErrLocationMissing)
	}
	if err != nil {
		s.appCtx.Logger.Error("discover: failed to load requester profile", "user_id", userID, "err", err)
		return []db.Profile{}, nil
	}
	origin, err := geo.ParsePoint(me.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", svcErr.ErrLocationMissing, err)
	}

	prefs := s.loadPreferences(ctx, userID)

	seen, err := s.decisionRepo.SeenUserIDs(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("discover: failed to load seen set", "user_id", userID, "err", err)
		return []db.Profile{}, nil
	}
	excluded := append(seen, userID)

	candidates, err := s.profileRepo.Nearby(ctx, repository.NearbyParams{
		Origin:      origin,
		RadiusKm:    prefs.DistanceKm,
		GenderPrefs: prefs.GenderPrefs,
		AgeMin:      prefs.AgeMin,
		AgeMax:      prefs.AgeMax,
		ExcludedIDs: excluded,
	})
	if err != nil {
		s.appCtx.Logger.Error("discover: nearby query failed", "user_id", userID, "err", err)
		return []db.Profile{}, nil
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return applyFilters(candidates, filters, time.Now().UTC()), nil
}

// loadPreferences returns stored preferences or the open defaults.
func (s *Service) loadPreferences(ctx context.Context, userID string) db.Preference {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil || prefs == nil {
		return db.Preference{
			UserID:      userID,
			GenderPrefs: db.StringList{db.GenderEveryone},
			AgeMin:      defaultAgeMin,
			AgeMax:      defaultAgeMax,
			DistanceKm:  defaultDistanceKm,
		}
	}
	return *prefs
}

func applyFilters(profiles []db.Profile, filters Filters, now time.Time) []db.Profile {
	if !filters.VerifiedOnly && !filters.ActiveRecently {
		return profiles
	}
	cutoff := now.Add(-activeWindow)
	out := make([]db.Profile, 0, len(profiles))
	for _, p := range profiles {
		if filters.VerifiedOnly && !p.Verified {
			continue
		}
		if filters.ActiveRecently {
			if p.LastActive == nil || !p.LastActive.After(cutoff) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
