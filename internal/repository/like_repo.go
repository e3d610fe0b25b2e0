package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/utils/pagination"
)

// LikeRepository provides data access methods for the append-only Like
// edge set.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Create appends a like edge from -> to and reports whether a row was
// actually inserted. A repeated like for the same pair is ignored rather
// than duplicated, so callers can key side effects off the inserted flag.
func (r *LikeRepository) Create(ctx context.Context, fromUser, toUser string) (bool, error) {
	like := db.Like{
		ID:       uuid.NewString(),
		FromUser: fromUser,
		ToUser:   toUser,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user"}, {Name: "to_user"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether a like edge from -> to is present. Used for the
// reciprocal check in the like flow.
func (r *LikeRepository) Exists(ctx context.Context, fromUser, toUser string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Like{}).
		Where("from_user = ? AND to_user = ?", fromUser, toUser).
		Count(&count).Error
	return count > 0, err
}

// ListLikers returns the like edges pointing at toUser, newest first,
// with cursor-based pagination.
func (r *LikeRepository) ListLikers(
	ctx context.Context,
	toUser string,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("to_user = ?", toUser).
		Order("created_at DESC, from_user DESC").
		Limit(limit + 1)

	if cursor.FromUser != "" && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND from_user < ?))",
			ts, ts, cursor.FromUser,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			FromUser:    last.FromUser,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// CountLikers returns how many users liked the given user.
func (r *LikeRepository) CountLikers(ctx context.Context, toUser string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Like{}).
		Where("to_user = ?", toUser).
		Count(&count).Error
	return count, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
