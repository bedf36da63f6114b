package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestRun_SeedsEmptyStore(t *testing.T) {
	db := newTestDB(t)
	s := New(db, nil, nil)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Seeded, 7)
	assert.Empty(t, report.Marked)

	assert.EqualValues(t, 1, count(t, db, &database.Profile{}))
	assert.EqualValues(t, 5, count(t, db, &database.TechnicalSkill{}))
	assert.EqualValues(t, 4, count(t, db, &database.ProfessionalSkill{}))
	assert.EqualValues(t, 6, count(t, db, &database.Technology{}))
	assert.EqualValues(t, 3, count(t, db, &database.Project{}))
	assert.EqualValues(t, 3, count(t, db, &database.Experience{}))
	assert.EqualValues(t, 3, count(t, db, &database.SocialLink{}))

	var profile database.Profile
	require.NoError(t, db.First(&profile, database.ProfileID).Error)
	assert.Equal(t, "Your Name", profile.Name)
	assert.Equal(t, "3+ Years", profile.ExperienceYears)

	var project database.Project
	require.NoError(t, db.Preload("Technologies").Where("title = ?", "E-commerce Platform").First(&project).Error)
	assert.True(t, project.IsFeatured)
	assert.Len(t, project.Technologies, 3)

	var current database.Experience
	require.NoError(t, db.Where("title = ?", "Senior Developer").First(&current).Error)
	assert.Equal(t, "2020 - Present", current.Period())
}

func TestRun_Idempotent(t *testing.T) {
	db := newTestDB(t)
	s := New(db, nil, nil)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Seeded)
	assert.Len(t, report.Skipped, 7)
	assert.EqualValues(t, 5, count(t, db, &database.TechnicalSkill{}))
	assert.EqualValues(t, 3, count(t, db, &database.Project{}))
}

func TestRun_DoesNotReseedEmptiedTable(t *testing.T) {
	db := newTestDB(t)
	s := New(db, nil, nil)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Exec("DELETE FROM project_technologies").Error)
	require.NoError(t, db.Where("1 = 1").Delete(&database.Project{}).Error)

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count(t, db, &database.Project{}))
}

func TestRun_MarksExistingContent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&database.SocialLink{Name: "Mastodon", URL: "https://example.social/@me", IsActive: true}).Error)

	report, err := New(db, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, report.Marked, EntitySocialLinks)
	assert.EqualValues(t, 1, count(t, db, &database.SocialLink{}))
}

func TestRun_ProjectsSkipMissingTechnologies(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&database.Technology{Name: "React", IsActive: true}).Error)

	_, err := New(db, nil, nil).Run(context.Background())
	require.NoError(t, err)

	var project database.Project
	require.NoError(t, db.Preload("Technologies").Where("title = ?", "Task Management App").First(&project).Error)
	require.Len(t, project.Technologies, 1)
	assert.Equal(t, "React", project.Technologies[0].Name)
}

func TestEnsureProfile_KeepsExisting(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&database.Profile{ID: database.ProfileID, Name: "Ada"}).Error)

	require.NoError(t, EnsureProfile(context.Background(), db))
	require.NoError(t, EnsureProfile(context.Background(), db))

	var profile database.Profile
	require.NoError(t, db.First(&profile, database.ProfileID).Error)
	assert.Equal(t, "Ada", profile.Name)
	assert.EqualValues(t, 1, count(t, db, &database.Profile{}))
}

type fakeLocker struct {
	acquired bool
	err      error
	released bool
}

func (f *fakeLocker) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	if f.err != nil || !f.acquired {
		return nil, false, f.err
	}
	return func() { f.released = true }, true, nil
}

func TestRun_Locking(t *testing.T) {
	t.Run("held elsewhere", func(t *testing.T) {
		db := newTestDB(t)
		report, err := New(db, &fakeLocker{}, nil).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.LockHeld)
		assert.EqualValues(t, 0, count(t, db, &database.Profile{}))
	})

	t.Run("acquired and released", func(t *testing.T) {
		db := newTestDB(t)
		locker := &fakeLocker{acquired: true}
		report, err := New(db, locker, nil).Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.Seeded, 7)
		assert.True(t, locker.released)
	})

	t.Run("lock error falls back", func(t *testing.T) {
		db := newTestDB(t)
		report, err := New(db, &fakeLocker{err: errors.New("redis down")}, nil).Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.Seeded, 7)
	})
}
