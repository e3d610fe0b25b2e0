package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/repository"
)

func TestDecisionUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewDecisionRepository(dbase)

	// like first
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", db.ActionLike))
	// overwrite with pass
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", db.ActionPass))

	var decisions []db.SeenDecision
	require.NoError(t, dbase.Find(&decisions).Error)
	require.Len(t, decisions, 1)
	assert.Equal(t, db.ActionPass, decisions[0].Action)
}

func TestSeenUserIDsIncludesBothActions(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewDecisionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, "alice", "bob", db.ActionLike))
	require.NoError(t, repo.Upsert(ctx, "alice", "carol", db.ActionPass))
	require.NoError(t, repo.Upsert(ctx, "dave", "alice", db.ActionLike)) // someone else's decision

	ids, err := repo.SeenUserIDs(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, ids)
}

func TestLastPassReturnsMostRecent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewDecisionRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	rows := []db.SeenDecision{
		{ID: uuid.NewString(), UserID: "alice", SeenUserID: "bob", Action: db.ActionPass, SeenAt: now.Add(-2 * time.Hour)},
		{ID: uuid.NewString(), UserID: "alice", SeenUserID: "carol", Action: db.ActionPass, SeenAt: now.Add(-time.Hour)},
		{ID: uuid.NewString(), UserID: "alice", SeenUserID: "dave", Action: db.ActionLike, SeenAt: now}, // likes never count
	}
	require.NoError(t, dbase.Create(&rows).Error)

	last, err := repo.LastPass(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "carol", last.SeenUserID)
}

func TestLastPassEmpty(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewDecisionRepository(dbase)

	last, err := repo.LastPass(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestDeleteReturnsProfileToPool(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewDecisionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, "alice", "bob", db.ActionPass))

	last, err := repo.LastPass(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, last)

	require.NoError(t, repo.Delete(ctx, last.ID))

	ids, err := repo.SeenUserIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
