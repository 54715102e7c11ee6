// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/aslectra/backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:     "Doe",
		Forename: email,
		Email:    email,
		Role:     role,
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name, color string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Color: color}
	require.NoError(t, db.Create(category).Error)
	return category
}

func Prefer(t *testing.T, db *gorm.DB, userID, categoryID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Preference{UserID: userID, CategoryID: categoryID}).Error)
}

// CreateActuality inserts a top-level actuality created at the given time.
func CreateActuality(t *testing.T, db *gorm.DB, userID, categoryID uint, message string, at time.Time) *models.Actuality {
	t.Helper()
	actuality := &models.Actuality{
		UserID:     userID,
		CategoryID: categoryID,
		Message:    message,
		CreatedAt:  at,
	}
	require.NoError(t, db.Omit("User", "Category").Create(actuality).Error)
	return actuality
}

func CreateComment(t *testing.T, db *gorm.DB, userID uint, parent *models.Actuality, message string) *models.Actuality {
	t.Helper()
	parentID := parent.ID
	comment := &models.Actuality{
		UserID:      userID,
		CategoryID:  parent.CategoryID,
		ActualityID: &parentID,
		Message:     message,
	}
	require.NoError(t, db.Omit("User", "Category").Create(comment).Error)
	return comment
}
