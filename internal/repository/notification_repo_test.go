package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/repository"
)

func TestNotificationListNewestFirst(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewNotificationRepository(dbase)

	for _, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, repo.Create(ctx, &db.Notification{
			ID: id, UserID: "alice", Type: "match", Title: "t", Message: "m",
		}))
	}
	require.NoError(t, repo.Create(ctx, &db.Notification{
		ID: "other", UserID: "bob", Type: "match", Title: "t", Message: "m",
	}))

	items, err := repo.ListForUser(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, n := range items {
		assert.Equal(t, "alice", n.UserID)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewNotificationRepository(dbase)

	require.NoError(t, repo.Create(ctx, &db.Notification{
		ID: "n1", UserID: "alice", Type: "match", Title: "t", Message: "m",
	}))

	// another user cannot flip someone else's row
	err := repo.MarkRead(ctx, "n1", "bob")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var n db.Notification
	require.NoError(t, dbase.Where("id = ?", "n1").First(&n).Error)
	assert.False(t, n.Read)

	require.NoError(t, repo.MarkRead(ctx, "n1", "alice"))
	require.NoError(t, dbase.Where("id = ?", "n1").First(&n).Error)
	assert.True(t, n.Read)

	err = repo.MarkRead(ctx, "missing", "alice")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
