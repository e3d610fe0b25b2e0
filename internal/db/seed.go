package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNames = []string{
	"Oliver", "Jack", "Harry", "George", "Noah", "Charlie", "Leo", "Oscar", "Arthur", "Henry",
	"Olivia", "Amelia", "Isla", "Ava", "Mia", "Grace", "Sophia", "Emily", "Freya", "Lily",
}

// SeedDemoData resets the database and populates it with demo users,
// profiles, preferences and swipe history.
//
// Behavior:
//  1. Clears all matchmaking tables.
//  2. Creates 20 users (10 male, 10 female) with profiles scattered
//     around central London and sensible preferences.
//  3. Generates swipe decisions with ~70% likes; every 3rd like gets a
//     guaranteed reciprocal so mutual-match flows have data to hit.
func SeedDemoData(gdb *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{
		"notifications", "date_sessions", "matches", "likes", "seen_decisions",
		"preferences", "profiles", "users",
	} {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userIDs := make([]string, 0, len(seedNames))
	for i, name := range seedNames {
		gender := "male"
		interested := "female"
		if i >= 10 {
			gender, interested = interested, gender
		}

		user := User{
			ID:           uuid.NewString(),
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			PasswordHash: string(hash),
			Premium:      i%5 == 0,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		userIDs = append(userIDs, user.ID)

		// jitter around central London, roughly within 10km
		lat := 51.5072 + (r.Float64()-0.5)*0.15
		lon := -0.1276 + (r.Float64()-0.5)*0.2
		lastActive := time.Now().UTC().Add(-time.Duration(r.Intn(72)) * time.Hour)

		profile := Profile{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			Name:       name,
			Age:        21 + r.Intn(20),
			Photos:     StringList{fmt.Sprintf("https://cdn.verity.example/photos/%s/main.jpg", user.ID)},
			Gender:     gender,
			Location:   fmt.Sprintf("POINT(%g %g)", lon, lat),
			Verified:   i%3 == 0,
			LastActive: &lastActive,
		}
		if err := gdb.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		prefs := Preference{
			UserID:      user.ID,
			GenderPrefs: StringList{interested},
			AgeMin:      20,
			AgeMax:      45,
			DistanceKm:  25,
		}
		if err := gdb.Create(&prefs).Error; err != nil {
			return fmt.Errorf("failed to seed preferences: %w", err)
		}
	}
	log.Printf("Seeded %d users.", len(userIDs))

	// Swipe history: each user decides on ~8 others of the opposite half.
	counter := 0
	for i, actor := range userIDs {
		for j := 0; j < 8; j++ {
			var target string
			if i < 10 {
				target = userIDs[10+r.Intn(10)]
			} else {
				target = userIDs[r.Intn(10)]
			}
			if target == actor {
				continue
			}

			liked := r.Intn(100) < 70
			if counter%3 == 0 {
				liked = true
				if err := seedLike(gdb, target, actor); err != nil {
					return err
				}
			}

			action := ActionPass
			if liked {
				action = ActionLike
				if err := seedLike(gdb, actor, target); err != nil {
					return err
				}
			}

			decision := SeenDecision{
				ID:         uuid.NewString(),
				UserID:     actor,
				SeenUserID: target,
				Action:     action,
				SeenAt:     time.Now().UTC().Add(-time.Duration(r.Intn(1000)) * time.Minute),
			}
			if err := gdb.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "seen_user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"action", "seen_at"}),
			}).Create(&decision).Error; err != nil {
				return fmt.Errorf("failed to seed decision: %w", err)
			}
			counter++
		}
	}

	return nil
}

func seedLike(gdb *gorm.DB, from, to string) error {
	like := Like{ID: uuid.NewString(), FromUser: from, ToUser: to}
	err := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user"}, {Name: "to_user"}},
		DoNothing: true,
	}).Create(&like).Error
	if err != nil {
		return fmt.Errorf("failed to seed like: %w", err)
	}
	return nil
}
