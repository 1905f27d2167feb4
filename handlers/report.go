package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mini_kpi_app_go/db"
	"mini_kpi_app_go/models"
	"mini_kpi_app_go/services"

	"github.com/labstack/echo/v4"
)

// reportRequest gathers the query parameters shared by every export route
type reportRequest struct {
	Period    services.ReportPeriod
	Notes     services.ReportNotes
	Overrides services.MetricOverrides
}

func parseReportRequest(c echo.Context) (*reportRequest, error) {
	var period services.ReportPeriod
	switch {
	case c.QueryParam("day") != "":
		day := c.QueryParam("day")
		if _, err := services.ParseDate(day); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD")
		}
		period = services.NewDayPeriod(day)
	case c.QueryParam("from") != "" && c.QueryParam("to") != "":
		from := c.QueryParam("from")
		to := c.QueryParam("to")
		if _, err := services.ParseDate(from); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		if _, err := services.ParseDate(to); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		period = services.NewRangePeriod(from, to)
	default:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Provide ?day= or ?from=&to=")
	}

	req := &reportRequest{
		Period: period,
		Notes: services.ReportNotes{
			Comment:     c.QueryParam("comment"),
			Suggestions: c.QueryParam("suggestions"),
			Problems:    c.QueryParam("problems"),
		},
	}

	if v := c.QueryParam("offers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid offers override")
		}
		req.Overrides.Offers = &n
	}
	if v := c.QueryParam("closed"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid closed override")
		}
		req.Overrides.Closed = &n
	}

	return req, nil
}

func fetchReportRows(req *reportRequest) ([]models.Activity, error) {
	if req.Period.SingleDay {
		return services.GetActivitiesByDay(db.DB, req.Period.From)
	}
	return services.GetActivitiesByPeriod(db.DB, req.Period.From, req.Period.To)
}

func emptyReportResponse(c echo.Context, period services.ReportPeriod) error {
	msg := "Nema podataka za odabrani period."
	if period.SingleDay {
		msg = "Nema podataka za odabrani dan."
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func attachmentHeader(c echo.Context, fileName string) {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(fileName)))
}

// ExportExcelHandler builds the Excel workbook with embedded photo
// thumbnails for the requested day or period.
func ExportExcelHandler(c echo.Context) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	rows, err := fetchReportRows(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}
	if len(rows) == 0 {
		return emptyReportResponse(c, req.Period)
	}

	buf, fileName, err := services.BuildExcelReport(services.Normalizer, rows, req.Period)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build Excel report")
	}

	attachmentHeader(c, fileName)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportHTMLHandler renders the printable report. mode=download serves it as
// an attachment, anything else serves it inline for the browser print dialog.
func ExportHTMLHandler(c echo.Context) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	rows, err := fetchReportRows(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}
	if len(rows) == 0 {
		return emptyReportResponse(c, req.Period)
	}

	html := services.BuildHTMLReport(services.Normalizer, rows, req.Period, req.Notes, req.Overrides)

	if c.QueryParam("mode") == "download" {
		attachmentHeader(c, services.HTMLReportFileName(req.Period))
	}
	return c.HTML(http.StatusOK, html)
}

// ExportWordHandler builds the Word document with the metric card grid and
// a detail table listing photo counts.
func ExportWordHandler(c echo.Context) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	rows, err := fetchReportRows(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}
	if len(rows) == 0 {
		return emptyReportResponse(c, req.Period)
	}

	buf, fileName, err := services.BuildWordReport(rows, req.Period, req.Overrides)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build Word report")
	}

	attachmentHeader(c, fileName)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
}

// ExportPDFHandler renders the printable report to PDF through headless
// Chrome. Requires Chrome or Chromium on the host.
func ExportPDFHandler(c echo.Context) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	rows, err := fetchReportRows(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}
	if len(rows) == 0 {
		return emptyReportResponse(c, req.Period)
	}

	pdf, fileName, err := services.BuildPDFReport(services.Normalizer, rows, req.Period, req.Notes, req.Overrides)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	attachmentHeader(c, fileName)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// MetricsHandler returns computed metrics for a day or period, with manual
// override provenance included so the client can label each card.
func MetricsHandler(c echo.Context) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	rows, err := fetchReportRows(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch activities")
	}

	metrics := req.Overrides.Apply(services.CalcMetrics(rows))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"metrics":           metrics,
		"offers_provenance": req.Overrides.OffersProvenance(),
		"closed_provenance": req.Overrides.ClosedProvenance(),
		"period":            req.Period.Label(),
	})
}
