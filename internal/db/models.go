package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Decision actions.
const (
	ActionLike = "like"
	ActionPass = "pass"
)

// Date feedback values.
const (
	FeedbackYes   = "yes"
	FeedbackMaybe = "maybe"
	FeedbackNo    = "no"
)

// GenderEveryone is the wildcard entry in Preference.GenderPrefs.
const GenderEveryone = "everyone"

// StringList stores a []string as JSON text. Used for photo URLs and
// gender preference sets.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// User is the auth boundary record. Session issuance lives at the HTTP
// layer; nothing in the matchmaking core reads this table.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Premium      bool   `gorm:"default:false"`
	CreatedAt    time.Time
}

// Profile is a user's public-facing dating identity.
//
// Location is stored as "POINT(lon lat)" text and parsed at read time.
// Boost fields are written by the boost operation and interpreted purely
// at query time: a profile counts as boosted iff boost_expires_at is in
// the future when the discovery query runs.
type Profile struct {
	ID             string     `gorm:"primaryKey;size:36"`
	UserID         string     `gorm:"uniqueIndex;size:36;not null"`
	Name           string     `gorm:"size:64;not null"`
	Age            int        `gorm:"not null;index"`
	Bio            *string    `gorm:"size:1024"`
	Photos         StringList `gorm:"type:text"`
	IntroVideoURL  *string    `gorm:"size:512"`
	Gender         string     `gorm:"size:16;not null;index"`
	Location       string     `gorm:"size:64"`
	Verified       bool       `gorm:"default:false"`
	LastActive     *time.Time
	BoostExpiresAt *time.Time
	BoostCount     int       `gorm:"default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	// DistanceMeters is computed by the nearby query, never persisted.
	DistanceMeters float64 `gorm:"-" json:"distance_meters,omitempty"`
}

// Preference holds a user's discovery settings. One row per user,
// upsert semantics. Age bounds are inclusive.
type Preference struct {
	UserID      string     `gorm:"primaryKey;size:36"`
	GenderPrefs StringList `gorm:"type:text"`
	AgeMin      int        `gorm:"not null"`
	AgeMax      int        `gorm:"not null"`
	DistanceKm  float64    `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

// SeenDecision records a like/pass decision on another profile.
//
// Unique (user_id, seen_user_id): a later decision upserts over an
// earlier one for the same pair. This is the exclusion set for discovery
// and the record the undo operation deletes.
type SeenDecision struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_seen_pair,priority:1;index:idx_user_action_seen,priority:1"`
	SeenUserID string    `gorm:"size:36;not null;uniqueIndex:idx_seen_pair,priority:2"`
	Action     string    `gorm:"size:8;not null;index:idx_user_action_seen,priority:2"`
	SeenAt     time.Time `gorm:"not null;index:idx_user_action_seen,priority:3,sort:desc"`
}

// Like is a one-directional positive edge. Append-only; never deleted.
// The unique pair index makes a repeated like a no-op instead of a
// duplicate edge, which keeps the mutual-match flow safe to re-enter.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36"`
	FromUser  string    `gorm:"size:36;not null;uniqueIndex:idx_like_pair,priority:1"`
	ToUser    string    `gorm:"size:36;not null;uniqueIndex:idx_like_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is created once per reciprocal-like pair.
//
// UserLow/UserHigh hold the pair in canonical (sorted) order and carry a
// unique index, so racing likes from both sides converge on a single
// row. User1/User2 preserve the order of the like that created the match
// for notification payloads.
type Match struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserLow        string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:1"`
	UserHigh       string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:2"`
	User1          string    `gorm:"size:36;not null;index"`
	User2          string    `gorm:"size:36;not null;index"`
	BothInterested bool      `gorm:"default:false"`
	ChatUnlocked   bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// DateSession is the scheduled timed video call attached to a match.
// Chat stays locked until both sides leave "yes" feedback.
type DateSession struct {
	ID            string     `gorm:"primaryKey;size:36"`
	MatchID       string     `gorm:"size:36;not null;uniqueIndex"`
	ScheduledAt   *time.Time
	RoomURL       *string   `gorm:"size:512"`
	User1Feedback *string   `gorm:"size:8"`
	User2Feedback *string   `gorm:"size:8"`
	Completed     bool      `gorm:"default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Notification is the persisted side of the fire-and-forget notify sink.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;index"`
	Type      string    `gorm:"size:32;not null"`
	Title     string    `gorm:"size:128;not null"`
	Message   string    `gorm:"size:512;not null"`
	RelatedID string    `gorm:"size:36"`
	Read      bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
