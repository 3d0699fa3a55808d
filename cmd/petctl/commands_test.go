package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pet-adoption-api/models"
	"pet-adoption-api/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.Migrate(db))
	return db
}

func insertUser(t *testing.T, db *gorm.DB, email, password, provider string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		Name:         email,
		Email:        email,
		Password:     password,
		Role:         models.RoleUser,
		AuthProvider: provider,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}).Error)
}

func storedPassword(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("email = ?", email).Take(&u).Error)
	return u.Password
}

func TestHashPasswords(t *testing.T) {
	db := newTestDB(t)
	hashed, err := utils.HashPassword("already-hashed")
	require.NoError(t, err)

	insertUser(t, db, "plain@example.com", "plain-secret", models.ProviderLocal)
	insertUser(t, db, "hashed@example.com", hashed, models.ProviderLocal)
	insertUser(t, db, "google@example.com", "", models.ProviderGoogle)

	t.Run("dry run writes nothing", func(t *testing.T) {
		res, err := hashPasswords(db, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"plain@example.com"}, res.Updated)
		assert.Equal(t, 2, res.Skipped)
		assert.Equal(t, "plain-secret", storedPassword(t, db, "plain@example.com"))
	})

	t.Run("hashes plain passwords", func(t *testing.T) {
		res, err := hashPasswords(db, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"plain@example.com"}, res.Updated)
		assert.Empty(t, res.Failed)

		stored := storedPassword(t, db, "plain@example.com")
		assert.True(t, utils.CheckPasswordHash("plain-secret", stored))
		assert.Equal(t, hashed, storedPassword(t, db, "hashed@example.com"))
		assert.Empty(t, storedPassword(t, db, "google@example.com"))
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		res, err := hashPasswords(db, false)
		require.NoError(t, err)
		assert.Empty(t, res.Updated)
		assert.Equal(t, 3, res.Skipped)
	})
}

func TestSeedDemo(t *testing.T) {
	db := newTestDB(t)

	created, err := seedDemo(db, "demo-pass-123")
	require.NoError(t, err)
	assert.Equal(t, 9, created)

	var users, pets int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Pet{}).Count(&pets).Error)
	assert.EqualValues(t, 4, users)
	assert.EqualValues(t, 3, pets)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").Take(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, utils.CheckPasswordHash("demo-pass-123", admin.Password))

	var kiwi models.Pet
	require.NoError(t, db.Where("name = ?", "Kiwi").Take(&kiwi).Error)
	assert.False(t, kiwi.Approved)
	assert.Equal(t, models.PetUnlisted, kiwi.AdoptionStatus)

	_, err = seedDemo(db, "demo-pass-123")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Pet{}).Count(&pets).Error)
	assert.EqualValues(t, 4, users)
	assert.EqualValues(t, 3, pets)
}

func TestSeedDemoRejectsWeakPassword(t *testing.T) {
	_, err := seedDemo(newTestDB(t), "short")
	assert.Error(t, err)
}
