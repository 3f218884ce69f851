// Package dbtest opens isolated in-memory databases for tests.
package dbtest

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/mysticmatch/internal/db"
)

var seq atomic.Int64

// Open spins up a migrated in-memory SQLite database private to t.
// A single connection keeps transactions and plain queries on the same
// in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	return open(t, dsn, 1)
}

// OpenFile opens a migrated file-backed SQLite database with several
// connections, for tests that run transactions in parallel. Transactions
// take the write lock on BEGIN and wait for each other instead of failing
// with SQLITE_BUSY.
func OpenFile(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL", path)
	return open(t, dsn, conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// Pref returns a pointer to a preference value, for building profiles inline.
func Pref(s string) *string { return &s }

// Profile inserts a fully registered, active profile.
func Profile(t *testing.T, database *gorm.DB, userID int64, name, gender, interestedIn string) db.Profile {
	t.Helper()

	p := db.Profile{
		UserID:       userID,
		Username:     strings.ToLower(name),
		Name:         name,
		Age:          25,
		Gender:       gender,
		InterestedIn: Pref(interestedIn),
		City:         "Riga",
		Bio:          "hi",
		Photo:        fmt.Sprintf("photo-%d", userID),
		Active:       true,
	}
	require.NoError(t, database.Create(&p).Error)
	return p
}
