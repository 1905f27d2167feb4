package handlers

import (
	"net/http"

	"mini_kpi_app_go/services"

	"github.com/labstack/echo/v4"
)

// ServeBlobHandler streams a registered in-memory blob. Returns 404 once the
// blob or its scope has been released.
func ServeBlobHandler(c echo.Context) error {
	data, mimeType, ok := services.Blobs.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Blob not found")
	}
	return c.Blob(http.StatusOK, mimeType, data)
}

// ReleaseScopeHandler frees every blob registered under a scope
func ReleaseScopeHandler(c echo.Context) error {
	services.Blobs.ReleaseScope(c.Param("scope"))
	return c.NoContent(http.StatusNoContent)
}
