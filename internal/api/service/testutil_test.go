package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"animediary/internal/api/models"
	"animediary/internal/api/repository"
)

// setupTestDB opens a throwaway sqlite database with foreign keys enabled
// so cascade and restrict constraints behave like the production store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := "./test_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open("file:"+dbPath+"?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Anime{}, &models.DiaryEntry{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	svc := NewUserService(repository.NewUserRepository(db))
	user, err := svc.Create(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	return user
}

func createTestAnime(t *testing.T, db *gorm.DB, malID int64, title string) *models.Anime {
	t.Helper()

	anime := &models.Anime{MalID: malID, Title: title}
	require.NoError(t, db.Create(anime).Error)
	return anime
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
