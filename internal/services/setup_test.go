// internal/services/setup_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tapedeck/tapedeck-backend/internal/config"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

func newQueueParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database so every pooled connection sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.MasterRelease{},
		&models.Variant{},
		&models.VariantImage{},
		&models.SubmissionVote{},
		&models.CollectionEntry{},
		&models.WishlistEntry{},
		&models.Rating{},
		&models.MarketplaceListing{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Moderation:  config.ModerationConfig{AutoApproveVotes: 10},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		UserType: models.UserTypeMember,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword("TestPass123!"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func validVariantFields() VariantFields {
	return VariantFields{
		Format:      models.FormatVHS,
		Region:      "NTSC (US)",
		ReleaseYear: 1986,
		CaseType:    models.CaseTypeSlipcase,
	}
}

func coverAndBackImages() []ImageUpload {
	return []ImageUpload{
		{Slot: models.ImageSlotCover, Data: []byte("front"), Filename: "front.jpg", ContentType: "image/jpeg"},
		{Slot: models.ImageSlotBack, Data: []byte("back"), Filename: "back.jpg", ContentType: "image/jpeg"},
	}
}

// fakeImageStore records uploads and removals in memory. Remove can be made
// to fail to exercise the best-effort purge paths.
type fakeImageStore struct {
	mu         sync.Mutex
	counter    int
	objects    map[string][]byte
	removed    []string
	failUpload bool
	failRemove bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}}
}

func (f *fakeImageStore) Upload(data []byte, originalName, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return "", errors.New("object store unavailable")
	}

	f.counter++
	url := fmt.Sprintf("https://images.test/variants/%d-%s", f.counter, originalName)
	f.objects[url] = data
	return url, nil
}

func (f *fakeImageStore) Remove(imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removed = append(f.removed, imageURL)
	if f.failRemove {
		return errors.New("object store unavailable")
	}
	delete(f.objects, imageURL)
	return nil
}

func (f *fakeImageStore) removedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removed)
}

// fakePosterLookup serves a canned poster URL or error.
type fakePosterLookup struct {
	url string
	err error
}

func (f *fakePosterLookup) LookupPoster(ctx context.Context, title string, year int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func seedVariant(t *testing.T, db *gorm.DB, submitter uuid.UUID, approved bool) *models.Variant {
	t.Helper()

	master := &models.MasterRelease{
		Title:     "The Wraith",
		Year:      1986,
		CreatedBy: submitter,
	}
	if err := db.Create(master).Error; err != nil {
		t.Fatalf("failed to create master: %v", err)
	}

	variant := &models.Variant{
		MasterReleaseID: master.ID,
		Format:          models.FormatVHS,
		Region:          "NTSC (US)",
		ReleaseYear:     1987,
		CaseType:        models.CaseTypeSlipcase,
		Approved:        approved,
		SubmittedBy:     submitter,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("failed to create variant: %v", err)
	}
	return variant
}
