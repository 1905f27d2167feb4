package handlers

import (
	"errors"
	"net/http"

	"mini_kpi_app_go/db"
	"mini_kpi_app_go/models"
	"mini_kpi_app_go/services"

	"github.com/labstack/echo/v4"
)

// Form/JSON keys the typed model knows about. Anything else in a PATCH body
// is preserved in the record's extra-field side map.
var knownActivityKeys = map[string]bool{
	"date":             true,
	"customer":         true,
	"location":         true,
	"contact_type":     true,
	"subject":          true,
	"conclusion":       true,
	"next_step":        true,
	"note":             true,
	"competition_note": true,
	"crm_updated":      true,
}

// CreateActivityHandler records a new activity from the entry form,
// including its photo attachments.
func CreateActivityHandler(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	files := form.File["photos"]
	if len(files) > models.MaxPhotosPerActivity {
		return echo.NewHTTPError(http.StatusBadRequest, "Maksimalno 10 slika po aktivnosti.")
	}

	scope := displayScope(c, "entry")
	photos := make([]models.Photo, 0, len(files))
	for _, fh := range files {
		if err := services.ValidateImageUpload(fh); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		photo, err := services.MakePhoto(services.Blobs, scope, fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		photos = append(photos, *photo)
	}

	activity := models.Activity{
		Date:            c.FormValue("date"),
		Customer:        c.FormValue("customer"),
		Location:        c.FormValue("location"),
		ContactType:     c.FormValue("contact_type"),
		Subject:         c.FormValue("subject"),
		Conclusion:      c.FormValue("conclusion"),
		NextStep:        c.FormValue("next_step"),
		Note:            c.FormValue("note"),
		CompetitionNote: c.FormValue("competition_note"),
		CRMUpdated:      c.FormValue("crm_updated") == "on" || c.FormValue("crm_updated") == "true",
		Photos:          photos,
	}

	if err := services.AddActivity(db.DB, &activity); err != nil {
		if errors.Is(err, services.ErrInvalidActivity) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save activity")
	}

	return c.JSON(http.StatusCreated, activity)
}

// GetActivitiesHandler lists activities for a single day (?day=) or an
// inclusive period (?from=&to=). With ?resolve=1 each photo also gets a
// display source resolved under the caller's scope.
func GetActivitiesHandler(c echo.Context) error {
	var (
		activities []models.Activity
		err        error
	)

	switch {
	case c.QueryParam("day") != "":
		activities, err = services.GetActivitiesByDay(db.DB, c.QueryParam("day"))
	case c.QueryParam("from") != "" && c.QueryParam("to") != "":
		activities, err = services.GetActivitiesByPeriod(db.DB, c.QueryParam("from"), c.QueryParam("to"))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Provide ?day= or ?from=&to=")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}

	if c.QueryParam("resolve") == "1" {
		scope := displayScope(c, "list")
		for i := range activities {
			for j := range activities[i].Photos {
				p := &activities[i].Photos[j]
				p.BlobURL = services.Normalizer.DisplaySource(scope, p)
			}
		}
	}

	return c.JSON(http.StatusOK, activities)
}

// GetActivityHandler fetches one activity with its photos
func GetActivityHandler(c echo.Context) error {
	activity, err := services.GetActivity(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrActivityNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Activity not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activity")
	}
	return c.JSON(http.StatusOK, activity)
}

// UpdateActivityHandler applies a partial JSON update. Unknown keys are kept
// in the extra-field side map instead of being dropped, so generically
// edited legacy fields survive round trips.
func UpdateActivityHandler(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if len(body) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Empty update")
	}

	id := c.Param("id")
	updates := make(map[string]interface{})
	extra := make(map[string]interface{})
	for key, value := range body {
		if key == "id" || key == "photos" || key == "extra" {
			continue
		}
		if knownActivityKeys[key] {
			updates[key] = value
		} else {
			extra[key] = value
		}
	}

	if len(updates) == 0 && len(extra) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No updatable fields in body")
	}

	if len(extra) > 0 {
		existing, err := services.GetActivity(db.DB, id)
		if errors.Is(err, services.ErrActivityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Activity not found")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activity")
		}
		merged := models.ExtraFields{}
		for k, v := range existing.Extra {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		updates["extra"] = merged
	}

	if err := services.UpdateActivity(db.DB, id, updates); err != nil {
		if errors.Is(err, services.ErrActivityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Activity not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update activity")
	}

	activity, err := services.GetActivity(db.DB, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activity")
	}
	return c.JSON(http.StatusOK, activity)
}

// ReplacePhotosHandler swaps the photo list of an activity: kept existing
// photos (ordered ?keep= ids) plus newly uploaded files.
func ReplacePhotosHandler(c echo.Context) error {
	id := c.Param("id")

	activity, err := services.GetActivity(db.DB, id)
	if errors.Is(err, services.ErrActivityNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Activity not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activity")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	byID := make(map[string]models.Photo, len(activity.Photos))
	for _, p := range activity.Photos {
		byID[p.ID] = p
	}

	var photos []models.Photo
	for _, keepID := range form.Value["keep"] {
		if p, ok := byID[keepID]; ok {
			photos = append(photos, p)
		}
	}

	scope := displayScope(c, "edit")
	for _, fh := range form.File["photos"] {
		if err := services.ValidateImageUpload(fh); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		photo, err := services.MakePhoto(services.Blobs, scope, fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		photos = append(photos, *photo)
	}

	if err := services.ReplacePhotos(db.DB, id, photos); err != nil {
		if errors.Is(err, services.ErrActivityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Activity not found")
		}
		if errors.Is(err, services.ErrInvalidActivity) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to replace photos")
	}

	updated, err := services.GetActivity(db.DB, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activity")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteActivityHandler removes an activity and its photos
func DeleteActivityHandler(c echo.Context) error {
	if err := services.DeleteActivity(db.DB, c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete activity")
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearActivitiesHandler wipes the whole store. Maintenance endpoint.
func ClearActivitiesHandler(c echo.Context) error {
	if err := services.ClearAllActivities(db.DB); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear activities")
	}
	return c.NoContent(http.StatusNoContent)
}

// MigrateDatesHandler truncates legacy timestamp dates to day precision
func MigrateDatesHandler(c echo.Context) error {
	migrated, err := services.MigrateNormalizeDates(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Date migration failed")
	}
	return c.JSON(http.StatusOK, map[string]int64{"migrated": migrated})
}

// displayScope names the UI scope transient references belong to
func displayScope(c echo.Context, fallback string) string {
	if scope := c.QueryParam("scope"); scope != "" {
		return scope
	}
	return fallback
}
