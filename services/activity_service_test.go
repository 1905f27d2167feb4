package services

import (
	"testing"

	"mini_kpi_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Activity{}, &models.Photo{}))
	return db
}

func makeActivity(date, customer string) *models.Activity {
	return &models.Activity{
		Date:        date,
		Customer:    customer,
		ContactType: models.ContactTypeInPerson,
	}
}

func TestAddActivity(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac d.o.o.")
	err := AddActivity(db, activity)
	require.NoError(t, err)
	assert.NotEmpty(t, activity.ID)

	fetched, err := GetActivity(db, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kupac d.o.o.", fetched.Customer)
	assert.Equal(t, "2025-03-15", fetched.Date)
}

func TestAddActivityValidation(t *testing.T) {
	db := setupTestDB(t)

	// Customer is required
	err := AddActivity(db, makeActivity("2025-03-15", "   "))
	assert.ErrorIs(t, err, ErrInvalidActivity)

	// Contact type must be one of the known values
	bad := makeActivity("2025-03-15", "Kupac")
	bad.ContactType = "fax"
	assert.ErrorIs(t, AddActivity(db, bad), ErrInvalidActivity)

	// Photo cap
	capped := makeActivity("2025-03-15", "Kupac")
	capped.Photos = make([]models.Photo, models.MaxPhotosPerActivity+1)
	assert.ErrorIs(t, AddActivity(db, capped), ErrInvalidActivity)
}

func TestAddActivityNormalizesDate(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15T10:30:00Z", "Kupac")
	require.NoError(t, AddActivity(db, activity))
	assert.Equal(t, "2025-03-15", activity.Date)
}

func TestAddActivityAssignsPhotoPositions(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac")
	activity.Photos = []models.Photo{
		{FileName: "a.jpg"},
		{FileName: "b.jpg"},
		{FileName: "c.jpg"},
	}
	require.NoError(t, AddActivity(db, activity))

	fetched, err := GetActivity(db, activity.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Photos, 3)
	assert.Equal(t, "a.jpg", fetched.Photos[0].FileName)
	assert.Equal(t, "c.jpg", fetched.Photos[2].FileName)
	assert.Equal(t, 2, fetched.Photos[2].Position)
}

func TestGetActivityNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetActivity(db, "no-such-id")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestGetActivitiesByDay(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, AddActivity(db, makeActivity("2025-03-14", "A")))
	require.NoError(t, AddActivity(db, makeActivity("2025-03-15", "B")))
	require.NoError(t, AddActivity(db, makeActivity("2025-03-16", "C")))

	// Legacy row on the same day, still carrying a timestamp suffix
	legacy := makeActivity("2025-03-15", "D")
	require.NoError(t, AddActivity(db, legacy))
	require.NoError(t, db.Model(&models.Activity{}).Where("id = ?", legacy.ID).
		Update("date", "2025-03-15T18:45:00Z").Error)

	got, err := GetActivitiesByDay(db, "2025-03-15")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Customer)
	assert.Equal(t, "D", got[1].Customer)
}

func TestGetActivitiesByPeriod(t *testing.T) {
	db := setupTestDB(t)

	for _, day := range []string{"2025-03-10", "2025-03-12", "2025-03-14", "2025-03-20"} {
		require.NoError(t, AddActivity(db, makeActivity(day, "K "+day)))
	}

	got, err := GetActivitiesByPeriod(db, "2025-03-11", "2025-03-15")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-12", got[0].Date)
	assert.Equal(t, "2025-03-14", got[1].Date)

	// Reversed bounds are equivalent
	swapped, err := GetActivitiesByPeriod(db, "2025-03-15", "2025-03-11")
	require.NoError(t, err)
	assert.Equal(t, got, swapped)
}

func TestUpdateActivity(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac")
	require.NoError(t, AddActivity(db, activity))

	err := UpdateActivity(db, activity.ID, map[string]interface{}{
		"customer": "Novi kupac",
		"date":     "2025-04-01T08:00:00Z",
	})
	require.NoError(t, err)

	fetched, err := GetActivity(db, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novi kupac", fetched.Customer)
	assert.Equal(t, "2025-04-01", fetched.Date)
}

func TestUpdateActivityNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := UpdateActivity(db, "no-such-id", map[string]interface{}{"customer": "X"})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestReplacePhotos(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac")
	activity.Photos = []models.Photo{{FileName: "old.jpg"}}
	require.NoError(t, AddActivity(db, activity))

	err := ReplacePhotos(db, activity.ID, []models.Photo{
		{FileName: "new1.jpg"},
		{FileName: "new2.jpg"},
	})
	require.NoError(t, err)

	fetched, err := GetActivity(db, activity.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Photos, 2)
	assert.Equal(t, "new1.jpg", fetched.Photos[0].FileName)
	assert.Equal(t, 1, fetched.Photos[1].Position)
}

func TestReplacePhotosNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := ReplacePhotos(db, "no-such-id", nil)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestReplacePhotosCap(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac")
	require.NoError(t, AddActivity(db, activity))

	err := ReplacePhotos(db, activity.ID, make([]models.Photo, models.MaxPhotosPerActivity+1))
	assert.ErrorIs(t, err, ErrInvalidActivity)
}

func TestDeleteActivity(t *testing.T) {
	db := setupTestDB(t)

	activity := makeActivity("2025-03-15", "Kupac")
	activity.Photos = []models.Photo{{FileName: "a.jpg"}}
	require.NoError(t, AddActivity(db, activity))

	require.NoError(t, DeleteActivity(db, activity.ID))

	_, err := GetActivity(db, activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	var photoCount int64
	require.NoError(t, db.Model(&models.Photo{}).Count(&photoCount).Error)
	assert.Equal(t, int64(0), photoCount)
}

func TestClearAllActivities(t *testing.T) {
	db := setupTestDB(t)

	a := makeActivity("2025-03-15", "Kupac")
	a.Photos = []models.Photo{{FileName: "a.jpg"}}
	require.NoError(t, AddActivity(db, a))
	require.NoError(t, AddActivity(db, makeActivity("2025-03-16", "Drugi")))

	require.NoError(t, ClearAllActivities(db))

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMigrateNormalizeDates(t *testing.T) {
	db := setupTestDB(t)

	a := makeActivity("2025-03-15", "Kupac")
	require.NoError(t, AddActivity(db, a))
	require.NoError(t, db.Model(&models.Activity{}).Where("id = ?", a.ID).
		Update("date", "2025-03-15T10:00:00Z").Error)

	migrated, err := MigrateNormalizeDates(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), migrated)

	fetched, err := GetActivity(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", fetched.Date)

	// Second run is a no-op
	migrated, err = MigrateNormalizeDates(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), migrated)
}
