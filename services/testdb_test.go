package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pet-adoption-api/models"
)

// newTestDB returns a private in-memory SQLite database with the schema applied.
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

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
		AuthProvider: models.ProviderLocal,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedPet(t *testing.T, db *gorm.DB, p models.Pet) models.Pet {
	t.Helper()
	if p.Name == "" {
		p.Name = "Milo"
	}
	if p.Species == "" {
		p.Species = "cat"
	}
	if p.AdoptionStatus == "" {
		p.AdoptionStatus = models.PetAvailable
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedApplication(t *testing.T, db *gorm.DB, wf Workflow, petID, userID uint, status string) models.Application {
	t.Helper()
	app := models.Application{
		PetID:         petID,
		UserID:        userID,
		Status:        status,
		ApplicantName: "Applicant",
		Address:       "1 Test Street",
		HouseholdSize: 2,
		TermsAgreed:   true,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, db.Table(wf.Table()).Create(&app).Error)
	return app
}

func loadApplication(t *testing.T, db *gorm.DB, wf Workflow, id uint) models.Application {
	t.Helper()
	var app models.Application
	require.NoError(t, db.Table(wf.Table()).Where("application_id = ?", id).Take(&app).Error)
	return app
}

func loadPet(t *testing.T, db *gorm.DB, id uint) models.Pet {
	t.Helper()
	var pet models.Pet
	require.NoError(t, db.Where("pet_id = ?", id).Take(&pet).Error)
	return pet
}

func countRows(t *testing.T, db *gorm.DB, table string, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var items []models.Notification
	require.NoError(t, db.Where("user_id = ?", userID).Order("notification_id").Find(&items).Error)
	return items
}

// recordingDispatcher keeps every batch it is handed.
type recordingDispatcher struct {
	mu      sync.Mutex
	batches [][]models.Notification
}

func (r *recordingDispatcher) Dispatch(_ context.Context, notes []models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, notes)
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}
