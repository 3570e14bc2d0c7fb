// Package testsupport provides shared test databases and seed helpers.
package testsupport

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"showroom/internal/activity"
	"showroom/internal/store"
	"showroom/internal/users"
	"showroom/internal/websites"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// allModels returns all showroom models for migration
func allModels() []any {
	return []any{
		&users.User{},
		&websites.Website{},
		&activity.Record{},
		&store.ReportRecord{},
	}
}

// SetupTestDB creates a test database with all showroom models migrated.
// Uses a named in-memory database with cache=shared to allow multiple
// connections to share the same database within a test. Caches the database
// by test name so multiple calls within the same test return the same
// database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	// Use root test name for caching to handle closure issues where
	// setup functions capture the outer t while t.Run has subtest t
	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	// cache=shared allows multiple connections to the same database
	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// CreateTestUser creates a user with the given signup time.
func CreateTestUser(t *testing.T, db *gorm.DB, email string, createdAt time.Time) users.User {
	t.Helper()

	user := users.User{
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		CreatedAt:    createdAt,
		LastActiveAt: createdAt,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateTestWebsite creates a website owned by the given user.
func CreateTestWebsite(t *testing.T, db *gorm.DB, userID int64, title, category, status string, createdAt time.Time) websites.Website {
	t.Helper()

	website := websites.Website{
		UserID:    userID,
		Title:     title,
		URL:       fmt.Sprintf("https://%s.example.com", strings.ToLower(strings.ReplaceAll(title, " ", "-"))),
		Category:  category,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(&website).Error)
	return website
}

// CreateTestActivity records one user action at the given time.
func CreateTestActivity(t *testing.T, db *gorm.DB, userID int64, websiteID *int64, action string, occurredAt time.Time) activity.Record {
	t.Helper()

	record := activity.Record{
		UserID:     userID,
		WebsiteID:  websiteID,
		Action:     action,
		OccurredAt: occurredAt,
		CreatedAt:  occurredAt,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

// CleanAllTables clears all non-system tables in the database
func CleanAllTables(db *gorm.DB) {
	var tableNames []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tableNames)

	if len(tableNames) == 0 {
		return
	}

	db.Exec("PRAGMA foreign_keys = OFF")
	defer db.Exec("PRAGMA foreign_keys = ON")

	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tableNames {
			tx.Exec("DELETE FROM " + table)
			tx.Exec("DELETE FROM sqlite_sequence WHERE name=?", table)
		}
		return nil
	})
}
