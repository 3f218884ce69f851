package db

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCities = []string{"Riga", "Tallinn", "Vilnius", "Berlin", "Warsaw"}

// SeedTestData resets the database and populates it with demo profiles and swipes.
//
// Behavior:
//  1. Clears chat messages, matches, like records and profiles.
//  2. Creates 20 profiles (10 male interested in women, 10 female interested in men).
//  3. Generates random swipes with ~70% likes; every 3rd pair is forced mutual
//     and gets a Match row.
//
// Seeded user ids start at 1000 so they never collide with real Telegram ids
// used while testing locally.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := clearAll(db); err != nil {
		return err
	}

	for i := 1; i <= 20; i++ {
		gender, pref := "male", "female"
		if i > 10 {
			gender, pref = "female", "male"
		}
		p := Profile{
			UserID:       int64(1000 + i),
			Username:     fmt.Sprintf("demo%d", i),
			Name:         fmt.Sprintf("Demo %d", i),
			Age:          18 + r.Intn(30),
			Gender:       gender,
			InterestedIn: &pref,
			City:         seedCities[r.Intn(len(seedCities))],
			Bio:          "Seeded profile",
			Photo:        fmt.Sprintf("seed-photo-%d", i),
			Active:       true,
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}

	counter := 0
	for actor := int64(1001); actor <= 1020; actor++ {
		for j := 0; j < 6; j++ {
			target := int64(1001 + r.Intn(20))
			if target == actor || (actor <= 1010) == (target <= 1010) {
				continue
			}

			liked := r.Intn(100) < 70
			if counter%3 == 0 {
				liked = true
				if err := seedMutual(db, actor, target); err != nil {
					return err
				}
			}

			if err := db.Create(&LikeRecord{UserID: actor, TargetID: target, Liked: liked}).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			counter++
		}
	}

	return nil
}

func seedMutual(db *gorm.DB, actor, target int64) error {
	if err := db.Create(&LikeRecord{UserID: target, TargetID: actor, Liked: true}).Error; err != nil {
		return fmt.Errorf("failed to seed reciprocal like: %w", err)
	}
	low, high := SortedPair(actor, target)
	m := Match{User1ID: actor, User2ID: target, PairLow: low, PairHigh: high, Active: true}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to seed match: %w", err)
	}
	return nil
}

func clearAll(db *gorm.DB) error {
	for _, table := range []string{"chat_messages", "matches", "like_records", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE like_records AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE chat_messages AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('like_records', 'matches', 'chat_messages')")
	}
	return nil
}
