package swipe_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/cache"
	"github.com/veritydate/verity-backend/internal/config"
	"github.com/veritydate/verity-backend/internal/db"
	svcErr "github.com/veritydate/verity-backend/internal/errors"
	"github.com/veritydate/verity-backend/internal/notify"
	"github.com/veritydate/verity-backend/internal/service/swipe"
)

// setupService spins up an in-memory SQLite DB, applies migrations,
// starts a miniredis, and wires everything into a swipe Service.
//
// Each test gets its own isolated DB + Redis + notification recorder.
func setupService(t *testing.T) (*swipe.Service, *gorm.DB, *notify.Recorder) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := &notify.Recorder{}

	appCtx := app.New(dbase, redisCache, logger, recorder)
	return swipe.NewService(appCtx), dbase, recorder
}

func seedSwipeProfile(t *testing.T, dbase *gorm.DB, userID, name string) {
	t.Helper()
	require.NoError(t, dbase.Create(&db.Profile{
		ID:       userID + "-profile",
		UserID:   userID,
		Name:     name,
		Age:      28,
		Gender:   "female",
		Location: "POINT(-0.127600 51.507200)",
	}).Error)
}

func TestLikeWithoutReciprocal(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := setupService(t)

	res, err := svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.Empty(t, res.MatchID)
	assert.Empty(t, recorder.Sent)
}

func TestMutualLikeCreatesMatchAndDate(t *testing.T) {
	ctx := context.Background()
	svc, dbase, recorder := setupService(t)

	seedSwipeProfile(t, dbase, "alice", "Alice")
	seedSwipeProfile(t, dbase, "bob", "Bob")

	_, err := svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)

	res, err := svc.Like(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, res.IsMatch)
	require.NotEmpty(t, res.MatchID)

	// single canonical match row
	var matches []db.Match
	require.NoError(t, dbase.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, res.MatchID, matches[0].ID)

	// pending date session attached
	var date db.DateSession
	require.NoError(t, dbase.Where("match_id = ?", res.MatchID).First(&date).Error)
	assert.False(t, date.Completed)
	assert.Nil(t, date.RoomURL)

	// both parties notified, once each
	require.Len(t, recorder.Sent, 2)
	for _, n := range recorder.Sent {
		assert.Equal(t, notify.TypeMatch, n.Type)
		assert.Equal(t, res.MatchID, n.RelatedID)
	}
	assert.Equal(t, "alice", recorder.Sent[0].RecipientID)
	assert.Contains(t, recorder.Sent[0].Message, "Bob")
	assert.Equal(t, "bob", recorder.Sent[1].RecipientID)
	assert.Contains(t, recorder.Sent[1].Message, "Alice")
}

func TestRepeatedLikeDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, dbase, recorder := setupService(t)

	seedSwipeProfile(t, dbase, "alice", "Alice")
	seedSwipeProfile(t, dbase, "bob", "Bob")

	_, err := svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)
	first, err := svc.Like(ctx, "bob", "alice")
	require.NoError(t, err)

	// the retry still reports the match but does not notify again
	again, err := svc.Like(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, again.IsMatch)
	assert.Equal(t, first.MatchID, again.MatchID)
	assert.Len(t, recorder.Sent, 2)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordDecisionValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	err := svc.RecordDecision(ctx, "alice", "alice", db.ActionLike)
	assert.ErrorIs(t, err, svcErr.ErrInvalidInput)

	err = svc.RecordDecision(ctx, "alice", "bob", "superlike")
	assert.ErrorIs(t, err, svcErr.ErrInvalidInput)
}

func TestUndoLastPassRequiresPremium(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.UndoLastPass(ctx, "alice", false)
	assert.ErrorIs(t, err, svcErr.ErrRequiresPremium)
}

func TestUndoLastPassNothingToUndo(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	res, err := svc.UndoLastPass(ctx, "alice", true)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.ProfileID)
}

func TestUndoLastPassRemovesMostRecent(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	require.NoError(t, svc.Pass(ctx, "alice", "bob"))
	require.NoError(t, svc.Pass(ctx, "alice", "carol"))
	// likes are never undone
	_, err := svc.Like(ctx, "alice", "dave")
	require.NoError(t, err)

	res, err := svc.UndoLastPass(ctx, "alice", true)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "carol", res.ProfileID)

	var remaining []db.SeenDecision
	require.NoError(t, dbase.Where("user_id = ?", "alice").Find(&remaining).Error)
	assert.Len(t, remaining, 2)

	// a second undo removes the next pass back
	res, err = svc.UndoLastPass(ctx, "alice", true)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "bob", res.ProfileID)
}

func TestBoostRequiresPremium(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Boost(ctx, "alice", false)
	assert.ErrorIs(t, err, svcErr.ErrRequiresPremium)
}

func TestBoostStampsExpiry(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	seedSwipeProfile(t, dbase, "alice", "Alice")

	before := time.Now().UTC()
	expiresAt, err := svc.Boost(ctx, "alice", true)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(swipe.BoostDuration), expiresAt, 2*time.Second)

	var p db.Profile
	require.NoError(t, dbase.Where("user_id = ?", "alice").First(&p).Error)
	require.NotNil(t, p.BoostExpiresAt)
	assert.Equal(t, 1, p.BoostCount)
}

func TestListLikedYouRequiresPremium(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, _, err := svc.ListLikedYou(ctx, "alice", false, nil, 10)
	assert.ErrorIs(t, err, svcErr.ErrRequiresPremium)
}

func TestListLikedYouReturnsProfilesInLikeOrder(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	seedSwipeProfile(t, dbase, "bob", "Bob")
	seedSwipeProfile(t, dbase, "carol", "Carol")

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	require.NoError(t, dbase.Create(&db.Like{ID: "l1", FromUser: "bob", ToUser: "alice", CreatedAt: base}).Error)
	require.NoError(t, dbase.Create(&db.Like{ID: "l2", FromUser: "carol", ToUser: "alice", CreatedAt: base.Add(time.Minute)}).Error)

	profiles, next, err := svc.ListLikedYou(ctx, "alice", true, nil, 10)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, profiles, 2)
	assert.Equal(t, "carol", profiles[0].UserID)
	assert.Equal(t, "bob", profiles[1].UserID)
}

func TestCountLikedYouCacheFallthrough(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Like(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = svc.Like(ctx, "carol", "alice")
	require.NoError(t, err)

	// the like flow primed the cache with increments
	count, err := svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

}

func TestRepeatedLikeDoesNotDriftCachedCount(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	_, err := svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)

	// one edge in the store, and the cached counter agrees
	var edges int64
	require.NoError(t, dbase.Model(&db.Like{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	count, err := svc.CountLikedYou(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountLikedYouColdCache(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, dbase.Create(&db.Like{ID: "l1", FromUser: "bob", ToUser: "alice", CreatedAt: base}).Error)
	require.NoError(t, dbase.Create(&db.Like{ID: "l2", FromUser: "carol", ToUser: "alice", CreatedAt: base}).Error)

	count, err := svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// second read is served from the freshly primed cache
	count, err = svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMatchesListing(t *testing.T) {
	ctx := context.Background()
	svc, dbase, _ := setupService(t)

	seedSwipeProfile(t, dbase, "alice", "Alice")
	seedSwipeProfile(t, dbase, "bob", "Bob")

	_, err := svc.Like(ctx, "alice", "bob")
	require.NoError(t, err)
	res, err := svc.Like(ctx, "bob", "alice")
	require.NoError(t, err)

	summaries, err := svc.Matches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, res.MatchID, summaries[0].Match.ID)
	require.NotNil(t, summaries[0].Other)
	assert.Equal(t, "bob", summaries[0].Other.UserID)
	require.NotNil(t, summaries[0].Date)
	assert.Equal(t, res.MatchID, summaries[0].Date.MatchID)
}
