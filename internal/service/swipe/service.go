package swipe

import (
	"context"
	"fmt"
	"time"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/db"
	svcErr "github.com/veritydate/verity-backend/internal/errors"
	"github.com/veritydate/verity-backend/internal/notify"
	"github.com/veritydate/verity-backend/internal/repository"
)

// BoostDuration is how long a profile boost stays live. Expiry is
// evaluated at query time only; no cleanup job exists or is needed.
const BoostDuration = 30 * time.Minute

// LikeResult reports the outcome of a like.
type LikeResult struct {
	IsMatch bool   `json:"is_match"`
	MatchID string `json:"match_id,omitempty"`
}

// UndoResult reports the outcome of an undo. Success=false with a nil
// error means there was nothing to undo.
type UndoResult struct {
	Success   bool   `json:"success"`
	ProfileID string `json:"profile_id,omitempty"`
}

// MatchSummary is a match joined with the other party's profile and the
// attached date session, for the matches listing.
type MatchSummary struct {
	Match db.Match        `json:"match"`
	Other *db.Profile     `json:"other,omitempty"`
	Date  *db.DateSession `json:"date,omitempty"`
}

// Service implements decision recording, the like/mutual-match flow and
// the premium-gated operations (undo, boost, liked-you).
type Service struct {
	appCtx       *app.AppContext
	decisionRepo *repository.DecisionRepository
	likeRepo     *repository.LikeRepository
	matchRepo    *repository.MatchRepository
	dateRepo     *repository.DateRepository
	profileRepo  *repository.ProfileRepository
}

// NewService creates the swipe service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		decisionRepo: repository.NewDecisionRepository(appCtx.DB),
		likeRepo:     repository.NewLikeRepository(appCtx.DB),
		matchRepo:    repository.NewMatchRepository(appCtx.DB),
		dateRepo:     repository.NewDateRepository(appCtx.DB),
		profileRepo:  repository.NewProfileRepository(appCtx.DB),
	}
}

// RecordDecision upserts the seen record for (from, to), replacing any
// prior action for the pair and refreshing its timestamp. Idempotent.
func (s *Service) RecordDecision(ctx context.Context, from, to, action string) error {
	if from == "" || to == "" || from == to {
		return fmt.Errorf("%w: cannot decide on yourself", svcErr.ErrInvalidInput)
	}
	if action != db.ActionLike && action != db.ActionPass {
		return fmt.Errorf("%w: unknown action %q", svcErr.ErrInvalidInput, action)
	}
	return s.decisionRepo.Upsert(ctx, from, to, action)
}

// Pass records a pass. No match logic, no notification.
func (s *Service) Pass(ctx context.Context, from, to string) error {
	return s.RecordDecision(ctx, from, to, db.ActionPass)
}

// Like records a like and runs mutual-match detection.
//
// Steps: upsert the seen record, append the like edge, check for the
// reciprocal edge. On a mutual like it creates the match (store-enforced
// one per unordered pair), the pending date session, and notifies both
// parties. Steps are individually re-entrant rather than transactional:
// if this call dies after the like insert, the other side's own like —
// or a retry — completes the missing match and session.
//
// Failures propagate; retry policy belongs to the caller.
func (s *Service) Like(ctx context.Context, from, to string) (*LikeResult, error) {
	if err := s.RecordDecision(ctx, from, to, db.ActionLike); err != nil {
		return nil, err
	}
	inserted, err := s.likeRepo.Create(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// best-effort cache bump for the recipient's liked-you counter; a
	// repeated like inserts nothing and must not drift the count
	if inserted {
		key := s.appCtx.RedisCache.KeyForLikeCount(to)
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
	}

	mutual, err := s.likeRepo.Exists(ctx, to, from)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return &LikeResult{IsMatch: false}, nil
	}

	match, created, err := s.matchRepo.CreateIfAbsent(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.dateRepo.CreateForMatch(ctx, match.ID); err != nil {
		return nil, err
	}

	// Only the call that actually inserted the match notifies; the racing
	// loser would otherwise duplicate both toasts.
	if created {
		s.notifyMatched(ctx, match, from, to)
	}

	return &LikeResult{IsMatch: true, MatchID: match.ID}, nil
}

func (s *Service) notifyMatched(ctx context.Context, match *db.Match, from, to string) {
	fromName := s.profileName(ctx, from)
	toName := s.profileName(ctx, to)

	s.appCtx.Notifier.Notify(ctx, notify.Notification{
		RecipientID: to,
		Type:        notify.TypeMatch,
		Title:       "🎉 New Match!",
		Message:     fmt.Sprintf("You matched with %s!", fromName),
		RelatedID:   match.ID,
	})
	s.appCtx.Notifier.Notify(ctx, notify.Notification{
		RecipientID: from,
		Type:        notify.TypeMatch,
		Title:       "🎉 It's a Match!",
		Message:     fmt.Sprintf("You matched with %s!", toName),
		RelatedID:   match.ID,
	})
}

func (s *Service) profileName(ctx context.Context, userID string) string {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil || p.Name == "" {
		return "someone"
	}
	return p.Name
}

// UndoLastPass deletes the user's most recent pass so the target profile
// re-enters the candidate pool. Premium only; the gate short-circuits
// before any read. Only the single most recent pass can be undone.
func (s *Service) UndoLastPass(ctx context.Context, userID string, isPremium bool) (*UndoResult, error) {
	if !isPremium {
		return nil, svcErr.ErrRequiresPremium
	}

	last, err := s.decisionRepo.LastPass(ctx, userID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return &UndoResult{Success: false}, nil
	}

	if err := s.decisionRepo.Delete(ctx, last.ID); err != nil {
		return nil, err
	}
	return &UndoResult{Success: true, ProfileID: last.SeenUserID}, nil
}

// Boost stamps a 30-minute visibility boost on the user's profile.
// Premium only. The effect is purely read-time: discovery ranks any
// profile with a future boost_expires_at first, and an expired stamp is
// simply ignored.
func (s *Service) Boost(ctx context.Context, userID string, isPremium bool) (time.Time, error) {
	if !isPremium {
		return time.Time{}, svcErr.ErrRequiresPremium
	}

	expiresAt := time.Now().UTC().Add(BoostDuration)
	if err := s.profileRepo.ApplyBoost(ctx, userID, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// ListLikedYou returns the profiles of users who liked userID, newest
// like first, with cursor pagination. Premium only.
func (s *Service) ListLikedYou(
	ctx context.Context,
	userID string,
	isPremium bool,
	paginationToken *string,
	limit int,
) ([]db.Profile, *string, error) {
	if !isPremium {
		return nil, nil, svcErr.ErrRequiresPremium
	}
	if limit <= 0 {
		limit = 20
	}

	likes, nextToken, err := s.likeRepo.ListLikers(ctx, userID, paginationToken, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(likes) == 0 {
		return nil, nil, nil
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.FromUser)
	}
	profiles, err := s.profileRepo.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	// keep like order
	byID := make(map[string]db.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}
	ordered := make([]db.Profile, 0, len(likes))
	for _, l := range likes {
		if p, ok := byID[l.FromUser]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nextToken, nil
}

// CountLikedYou returns how many users liked userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:<user>).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, userID string) (int64, error) {
	if n, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, userID); ok {
		return n, nil
	}

	count, err := s.likeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)

	return count, nil
}

// Matches returns the user's matches joined with the other party's
// profile and the attached date session, newest first.
func (s *Service) Matches(ctx context.Context, userID string) ([]MatchSummary, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		other := m.User1
		if other == userID {
			other = m.User2
		}
		summary := MatchSummary{Match: m}
		if p, err := s.profileRepo.GetByUserID(ctx, other); err == nil {
			summary.Other = p
		}
		if d, err := s.dateRepo.GetByMatchID(ctx, m.ID); err == nil {
			summary.Date = d
		}
		out = append(out, summary)
	}
	return out, nil
}
