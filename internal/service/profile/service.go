package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/db"
	svcErr "github.com/veritydate/verity-backend/internal/errors"
	"github.com/veritydate/verity-backend/internal/geo"
	"github.com/veritydate/verity-backend/internal/repository"
)

const minAge = 18

// CreateInput is the onboarding payload: the profile plus the initial
// discovery preferences, written together.
type CreateInput struct {
	UserID        string
	Name          string
	DateOfBirth   time.Time
	Gender        string
	Bio           string
	Photos        []string
	IntroVideoURL string
	Verified      bool
	Location      *geo.Point

	InterestedIn []string
	AgeMin       int
	AgeMax       int
	DistanceKm   float64
}

// Service owns profile lifecycle outside of discovery: onboarding
// creation, preference upserts, location and activity updates.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	prefRepo    *repository.PreferenceRepository
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		prefRepo:    repository.NewPreferenceRepository(appCtx.DB),
	}
}

// Create writes the onboarding profile/preferences pair.
func (s *Service) Create(ctx context.Context, in CreateInput) (*db.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if in.UserID == "" || name == "" || in.Gender == "" {
		return nil, fmt.Errorf("%w: user id, name and gender are required", svcErr.ErrInvalidInput)
	}

	age := ageAt(in.DateOfBirth, time.Now().UTC())
	if age < minAge {
		return nil, fmt.Errorf("%w: must be at least %d", svcErr.ErrInvalidInput, minAge)
	}

	p := &db.Profile{
		UserID:   in.UserID,
		Name:     name,
		Age:      age,
		Photos:   db.StringList(in.Photos),
		Gender:   in.Gender,
		Verified: in.Verified,
	}
	if in.Bio != "" {
		p.Bio = &in.Bio
	}
	if in.IntroVideoURL != "" {
		p.IntroVideoURL = &in.IntroVideoURL
	}
	if in.Location != nil {
		p.Location = geo.FormatPoint(*in.Location)
	}

	if err := s.profileRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	prefs := db.Preference{
		UserID:      in.UserID,
		GenderPrefs: db.StringList(in.InterestedIn),
		AgeMin:      in.AgeMin,
		AgeMax:      in.AgeMax,
		DistanceKm:  in.DistanceKm,
	}
	if len(prefs.GenderPrefs) == 0 {
		prefs.GenderPrefs = db.StringList{db.GenderEveryone}
	}
	if prefs.AgeMin < minAge {
		prefs.AgeMin = minAge
	}
	if prefs.AgeMax < prefs.AgeMin {
		prefs.AgeMax = prefs.AgeMin
	}
	if prefs.DistanceKm <= 0 {
		prefs.DistanceKm = 50
	}
	if err := s.prefRepo.Upsert(ctx, &prefs); err != nil {
		return nil, err
	}

	return p, nil
}

// Get fetches a profile by user id.
func (s *Service) Get(ctx context.Context, userID string) (*db.Profile, error) {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile", svcErr.ErrNotFound)
	}
	return p, nil
}

// UpdatePreferences upserts the user's discovery window.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, genderPrefs []string, ageMin, ageMax int, distanceKm float64) error {
	if ageMin < minAge || ageMax < ageMin || distanceKm <= 0 {
		return fmt.Errorf("%w: invalid preference window", svcErr.ErrInvalidInput)
	}
	prefs := db.Preference{
		UserID:      userID,
		GenderPrefs: db.StringList(genderPrefs),
		AgeMin:      ageMin,
		AgeMax:      ageMax,
		DistanceKm:  distanceKm,
	}
	if len(prefs.GenderPrefs) == 0 {
		prefs.GenderPrefs = db.StringList{db.GenderEveryone}
	}
	return s.prefRepo.Upsert(ctx, &prefs)
}

// SetLocation replaces the user's stored coordinates.
func (s *Service) SetLocation(ctx context.Context, userID string, lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: coordinates out of range", svcErr.ErrInvalidInput)
	}
	return s.profileRepo.UpdateLocation(ctx, userID, geo.Point{Lat: lat, Lon: lon})
}

// TouchLastActive stamps the user's activity time; feeds the
// "active recently" discovery filter.
func (s *Service) TouchLastActive(ctx context.Context, userID string) error {
	return s.profileRepo.TouchLastActive(ctx, userID, time.Now().UTC())
}

// Verify marks the profile verified after the verification video review.
func (s *Service) Verify(ctx context.Context, userID string) error {
	return s.profileRepo.SetVerified(ctx, userID)
}

// ageAt computes full years between dob and now.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
