package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/repository"
)

func TestPreferenceUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewPreferenceRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, &db.Preference{
		UserID:      "alice",
		GenderPrefs: db.StringList{"male"},
		AgeMin:      21,
		AgeMax:      35,
		DistanceKm:  25,
	}))
	require.NoError(t, repo.Upsert(ctx, &db.Preference{
		UserID:      "alice",
		GenderPrefs: db.StringList{db.GenderEveryone},
		AgeMin:      18,
		AgeMax:      60,
		DistanceKm:  100,
	}))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, db.StringList{db.GenderEveryone}, got.GenderPrefs)
	assert.Equal(t, 18, got.AgeMin)
	assert.Equal(t, 60, got.AgeMax)
	assert.Equal(t, float64(100), got.DistanceKm)

	var count int64
	require.NoError(t, dbase.Model(&db.Preference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
