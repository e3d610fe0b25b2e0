package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/veritydate/verity-backend/internal/cache"
	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/repository"
)

// Types of notifications this service emits.
const (
	TypeMatch        = "match"
	TypeChatUnlocked = "chat_unlocked"
)

// Notification is the payload handed to the sink.
type Notification struct {
	RecipientID string `json:"recipient_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	RelatedID   string `json:"related_id,omitempty"`
}

// Notifier delivers notifications. Fire-and-forget from the caller's
// perspective: implementations never return an error to the matchmaking
// flow.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// StoreNotifier persists each notification and publishes it on the
// recipient's redis channel for realtime delivery. Failures are logged
// and swallowed; a missed toast must not fail a match.
type StoreNotifier struct {
	repo  *repository.NotificationRepository
	cache *cache.RedisCache
	log   *slog.Logger
}

func NewStoreNotifier(repo *repository.NotificationRepository, rdb *cache.RedisCache, log *slog.Logger) *StoreNotifier {
	return &StoreNotifier{repo: repo, cache: rdb, log: log}
}

func (s *StoreNotifier) Notify(ctx context.Context, n Notification) {
	row := db.Notification{
		UserID:    n.RecipientID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		s.log.Error("failed to persist notification", "recipient", n.RecipientID, "type", n.Type, "err", err)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Error("failed to encode notification", "err", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.cache.Publish(pubCtx, s.cache.KeyForNotifyChannel(n.RecipientID), payload); err != nil {
		s.log.Warn("failed to publish notification", "recipient", n.RecipientID, "err", err)
	}
}

// Recorder collects notifications in memory. Test double.
type Recorder struct {
	Sent []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.Sent = append(r.Sent, n)
}
