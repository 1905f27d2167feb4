package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportExcelHandler(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-15", "Kupac")

	_, c, rec := setupEcho(http.MethodGet, "/api/reports/excel?day=2025-03-15", nil)

	err := ExportExcelHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "KPI_IZVJESTAJ_2025-03-15.xlsx")

	// xlsx is a zip container
	body := rec.Body.Bytes()
	require.Greater(t, len(body), 4)
	assert.Equal(t, []byte{'P', 'K'}, body[:2])
}

func TestExportExcelHandlerEmptyDay(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/reports/excel?day=2025-03-15", nil)

	err := ExportExcelHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nema podataka za odabrani dan.")
	assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
}

func TestExportExcelHandlerInvalidDate(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(http.MethodGet, "/api/reports/excel?day=15.03.2025", nil)

	err := ExportExcelHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestExportExcelHandlerReversedBounds(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-10", "Kupac")

	// Query strings flow straight into the period; reversed bounds normalize
	_, c, rec := setupEcho(http.MethodGet, "/api/reports/excel?from=2025-03-15&to=2025-03-01", nil)

	err := ExportExcelHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition),
		"KPI_IZVJESTAJ_2025-03-01_do_2025-03-15.xlsx")
}

func TestExportHTMLHandler(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-10", "Kupac")

	// Inline by default
	_, c, rec := setupEcho(http.MethodGet, "/api/reports/html?from=2025-03-01&to=2025-03-15", nil)

	err := ExportHTMLHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "KPI Izvještaj")
	assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))

	// mode=download serves the same document as an attachment
	_, c, rec = setupEcho(http.MethodGet, "/api/reports/html?from=2025-03-01&to=2025-03-15&mode=download", nil)

	err = ExportHTMLHandler(c)
	require.NoError(t, err)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition),
		"KPI_izvjestaj_za_period_od_2025-03-01_do_2025-03-15.html")
}

func TestExportHTMLHandlerOverridesAndNotes(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-15", "Kupac")

	_, c, rec := setupEcho(http.MethodGet,
		"/api/reports/html?day=2025-03-15&offers=7&comment=sve+u+redu", nil)

	err := ExportHTMLHandler(c)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="val">7</div>`)
	assert.Contains(t, body, "Ručno")
	assert.Contains(t, body, "sve u redu")
}

func TestExportHTMLHandlerInvalidOverride(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(http.MethodGet, "/api/reports/html?day=2025-03-15&offers=-3", nil)

	err := ExportHTMLHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestExportWordHandler(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-15", "Kupac")

	_, c, rec := setupEcho(http.MethodGet, "/api/reports/word?day=2025-03-15", nil)

	err := ExportWordHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition),
		"KPI_Izvjestaj_za_period_od_2025-03-15.docx")

	body := rec.Body.Bytes()
	require.Greater(t, len(body), 4)
	assert.Equal(t, []byte{'P', 'K'}, body[:2])
}

func TestExportWordHandlerEmptyPeriod(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/reports/word?from=2025-03-01&to=2025-03-15", nil)

	err := ExportWordHandler(c)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "Nema podataka za odabrani period.")
}

func TestMetricsHandler(t *testing.T) {
	setupTestDB(t)

	createTestActivity(t, "2025-03-15", "Kupac")

	_, c, rec := setupEcho(http.MethodGet, "/api/metrics?day=2025-03-15", nil)

	err := MetricsHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"visits":1`)
	assert.Contains(t, body, `"offers_provenance":"Automatski"`)

	// Manual override flips provenance
	_, c, rec = setupEcho(http.MethodGet, "/api/metrics?day=2025-03-15&closed=4", nil)

	err = MetricsHandler(c)
	require.NoError(t, err)
	body = rec.Body.String()
	assert.Contains(t, body, `"closed":4`)
	assert.Contains(t, body, `"closed_provenance":"Ručno"`)
}
