package services

import (
	"errors"
	"fmt"
	"strings"

	"mini_kpi_app_go/models"

	"gorm.io/gorm"
)

// daySentinel closes a lexicographic day range: comparing against
// date <= day+daySentinel also catches legacy rows that still carry a
// timestamp suffix on the same day.
const daySentinel = "￿"

var (
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidActivity marks entry-boundary validation failures, as opposed
	// to store failures; handlers map the two to different status codes.
	ErrInvalidActivity = errors.New("invalid activity")
)

// AddActivity inserts a new activity, normalizing its date to day precision
// and stamping creation/update times. The photo cap is enforced here because
// this is the entry boundary; rows already persisted are never rejected.
func AddActivity(dbConn *gorm.DB, activity *models.Activity) error {
	if strings.TrimSpace(activity.Customer) == "" {
		return fmt.Errorf("%w: customer is required", ErrInvalidActivity)
	}
	if !models.IsValidContactType(activity.ContactType) {
		return fmt.Errorf("%w: unknown contact type %q", ErrInvalidActivity, activity.ContactType)
	}
	if len(activity.Photos) > models.MaxPhotosPerActivity {
		return fmt.Errorf("%w: too many photos: %d (max %d)", ErrInvalidActivity, len(activity.Photos), models.MaxPhotosPerActivity)
	}

	activity.Date = NormalizeDate(activity.Date)
	for i := range activity.Photos {
		activity.Photos[i].Position = i
	}

	if err := dbConn.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetActivity fetches one activity with its photos in attachment order
func GetActivity(dbConn *gorm.DB, id string) (*models.Activity, error) {
	var activity models.Activity
	err := dbConn.Preload("Photos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&activity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}
	return &activity, nil
}

// GetActivitiesByDay returns all activities whose normalized date equals the
// given day, ascending by date string.
func GetActivitiesByDay(dbConn *gorm.DB, day string) ([]models.Activity, error) {
	d := NormalizeDate(day)
	return scanRange(dbConn, d, d)
}

// GetActivitiesByPeriod returns all activities in the inclusive [from, to]
// period. Reversed bounds are swapped, so scan(A, B) == scan(B, A).
func GetActivitiesByPeriod(dbConn *gorm.DB, from, to string) ([]models.Activity, error) {
	lo := NormalizeDate(from)
	hi := NormalizeDate(to)
	if lo > hi {
		lo, hi = hi, lo
	}
	return scanRange(dbConn, lo, hi)
}

func scanRange(dbConn *gorm.DB, lo, hi string) ([]models.Activity, error) {
	var activities []models.Activity
	err := dbConn.
		Where("date >= ? AND date <= ?", lo, hi+daySentinel).
		Order("date ASC").
		Preload("Photos", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	return activities, nil
}

// UpdateActivity applies a partial update to an existing activity. A missing
// record is an explicit failure, not a silent no-op: it indicates the caller
// holds a stale or corrupted id.
func UpdateActivity(dbConn *gorm.DB, id string, updates map[string]interface{}) error {
	if dateVal, ok := updates["date"].(string); ok {
		updates["date"] = NormalizeDate(dateVal)
	}
	delete(updates, "id")

	result := dbConn.Model(&models.Activity{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	return nil
}

// ReplacePhotos swaps the photo list of an activity. Used by the edit view
// for per-photo and bulk removal before save.
func ReplacePhotos(dbConn *gorm.DB, activityID string, photos []models.Photo) error {
	if len(photos) > models.MaxPhotosPerActivity {
		return fmt.Errorf("%w: too many photos: %d (max %d)", ErrInvalidActivity, len(photos), models.MaxPhotosPerActivity)
	}

	var existing models.Activity
	if err := dbConn.First(&existing, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrActivityNotFound, activityID)
		}
		return fmt.Errorf("failed to fetch activity: %w", err)
	}

	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to clear photos: %w", err)
		}
		for i := range photos {
			photos[i].ActivityID = activityID
			photos[i].Position = i
			if err := tx.Create(&photos[i]).Error; err != nil {
				return fmt.Errorf("failed to save photo: %w", err)
			}
		}
		return tx.Model(&models.Activity{}).Where("id = ?", activityID).
			Update("updated_at", tx.NowFunc()).Error
	})
}

// DeleteActivity removes an activity and its photos
func DeleteActivity(dbConn *gorm.DB, id string) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to delete photos: %w", err)
		}
		if err := tx.Delete(&models.Activity{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		return nil
	})
}

// ClearAllActivities wipes the store. Maintenance only.
func ClearAllActivities(dbConn *gorm.DB) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to clear photos: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Activity{}).Error; err != nil {
			return fmt.Errorf("failed to clear activities: %w", err)
		}
		return nil
	})
}

// MigrateNormalizeDates truncates legacy timestamp dates to day precision.
// One-shot helper for stores written before date normalization existed.
func MigrateNormalizeDates(dbConn *gorm.DB) (int64, error) {
	var activities []models.Activity
	if err := dbConn.Where("length(date) > 10").Find(&activities).Error; err != nil {
		return 0, fmt.Errorf("failed to scan for legacy dates: %w", err)
	}

	var migrated int64
	for _, a := range activities {
		normalized := NormalizeDate(a.Date)
		if normalized == a.Date {
			continue
		}
		if err := dbConn.Model(&models.Activity{}).Where("id = ?", a.ID).
			Update("date", normalized).Error; err != nil {
			return migrated, fmt.Errorf("failed to migrate activity %s: %w", a.ID, err)
		}
		migrated++
	}
	return migrated, nil
}
