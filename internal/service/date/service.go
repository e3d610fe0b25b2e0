package date

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

// RoomProvider creates video rooms. The real provider is an external
// service; this core only stores the url it returns.
type RoomProvider interface {
	CreateRoom(ctx context.Context, dateID string) (string, error)
}

// RoomProviderFunc adapts a function to the RoomProvider interface.
type RoomProviderFunc func(ctx context.Context, dateID string) (string, error)

func (f RoomProviderFunc) CreateRoom(ctx context.Context, dateID string) (string, error) {
	return f(ctx, dateID)
}

// FeedbackResult describes where the date stands after one side's
// feedback lands.
type FeedbackResult struct {
	BothResponded bool `json:"both_responded"`
	ChatUnlocked  bool `json:"chat_unlocked"`
}

// Service owns the Verity Date lifecycle: scheduling, room creation and
// the post-call feedback that gates chat unlock.
type Service struct {
	appCtx      *app.AppContext
	dateRepo    *repository.DateRepository
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
	rooms       RoomProvider
}

// NewService creates the date service with dependencies from AppContext
// and the injected room provider.
func NewService(appCtx *app.AppContext, rooms RoomProvider) *Service {
	return &Service{
		appCtx:      appCtx,
		dateRepo:    repository.NewDateRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		rooms:       rooms,
	}
}

// Get fetches a date session, verifying the caller participates in its match.
func (s *Service) Get(ctx context.Context, dateID, userID string) (*db.DateSession, error) {
	d, err := s.dateRepo.GetByID(ctx, dateID)
	if err != nil {
		return nil, fmt.Errorf("%w: date session", svcErr.ErrNotFound)
	}
	if _, err := s.participant(ctx, d, userID); err != nil {
		return nil, err
	}
	return d, nil
}

// Schedule stamps the agreed call time on a pending session.
func (s *Service) Schedule(ctx context.Context, dateID, userID string, at time.Time) error {
	d, err := s.Get(ctx, dateID, userID)
	if err != nil {
		return err
	}
	if at.Before(time.Now().UTC()) {
		return fmt.Errorf("%w: scheduled time is in the past", svcErr.ErrInvalidInput)
	}
	return s.dateRepo.SetSchedule(ctx, d.ID, at)
}

// EnsureRoom returns the session's video room url, asking the provider
// to create one if none exists yet. Both participants call this when
// they land on the waiting screen; the first one wins and the second
// sees the stored url.
func (s *Service) EnsureRoom(ctx context.Context, dateID, userID string) (string, error) {
	d, err := s.Get(ctx, dateID, userID)
	if err != nil {
		return "", err
	}
	if d.RoomURL != nil && *d.RoomURL != "" {
		return *d.RoomURL, nil
	}
	if s.rooms == nil {
		return "", fmt.Errorf("%w: no room provider configured", svcErr.ErrOperationFailed)
	}

	url, err := s.rooms.CreateRoom(ctx, d.ID)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	if err := s.dateRepo.SetRoom(ctx, d.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

// SubmitFeedback records one side's post-call verdict (yes/maybe/no) and
// marks the session completed. When both sides have answered and both
// said "yes", the match's chat unlocks and both parties are notified.
// Anything short of a double yes leaves the chat locked.
func (s *Service) SubmitFeedback(ctx context.Context, dateID, userID, feedback string) (*FeedbackResult, error) {
	switch feedback {
	case db.FeedbackYes, db.FeedbackMaybe, db.FeedbackNo:
	default:
		return nil, fmt.Errorf("%w: unknown feedback %q", svcErr.ErrInvalidInput, feedback)
	}

	d, err := s.dateRepo.GetByID(ctx, dateID)
	if err != nil {
		return nil, fmt.Errorf("%w: date session", svcErr.ErrNotFound)
	}
	match, err := s.participant(ctx, d, userID)
	if err != nil {
		return nil, err
	}

	isUser1 := userID == match.User1
	if err := s.dateRepo.SetFeedback(ctx, d.ID, isUser1, feedback); err != nil {
		return nil, err
	}

	updated, err := s.dateRepo.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if updated.User1Feedback == nil || updated.User2Feedback == nil {
		return &FeedbackResult{}, nil
	}

	bothYes := *updated.User1Feedback == db.FeedbackYes && *updated.User2Feedback == db.FeedbackYes
	if !bothYes {
		return &FeedbackResult{BothResponded: true}, nil
	}

	if err := s.matchRepo.UnlockChat(ctx, match.ID); err != nil {
		return nil, err
	}
	s.notifyUnlocked(ctx, match)

	return &FeedbackResult{BothResponded: true, ChatUnlocked: true}, nil
}

// participant loads the session's match and checks the user belongs to it.
func (s *Service) participant(ctx context.Context, d *db.DateSession, userID string) (*db.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, d.MatchID)
	if err != nil {
		return nil, fmt.Errorf("%w: match", svcErr.ErrNotFound)
	}
	if userID != match.User1 && userID != match.User2 {
		return nil, fmt.Errorf("%w: not a participant of this date", svcErr.ErrInvalidInput)
	}
	return match, nil
}

func (s *Service) notifyUnlocked(ctx context.Context, match *db.Match) {
	for _, pair := range [][2]string{{match.User1, match.User2}, {match.User2, match.User1}} {
		recipient, other := pair[0], pair[1]
		name := "your match"
		if p, err := s.profileRepo.GetByUserID(ctx, other); err == nil && p.Name != "" {
			name = p.Name
		}
		s.appCtx.Notifier.Notify(ctx, notify.Notification{
			RecipientID: recipient,
			Type:        notify.TypeChatUnlocked,
			Title:       "💬 Chat Unlocked",
			Message:     fmt.Sprintf("You and %s both felt the connection!", name),
			RelatedID:   match.ID,
		})
	}
}
