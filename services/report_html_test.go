package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"mini_kpi_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildHTMLReportMetricCards(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewRangePeriod("2025-03-01", "2025-03-15")
	rows := []models.Activity{
		{Date: "2025-03-10", Customer: "Kupac", ContactType: "fizicki", Subject: "ponuda", CRMUpdated: true},
	}

	html := BuildHTMLReport(n, rows, period, ReportNotes{}, MetricOverrides{})

	assert.Contains(t, html, "KPI Izvještaj")
	assert.Contains(t, html, "Period: 2025-03-01 - 2025-03-15")
	assert.Contains(t, html, "Fizički posjeti kupcima")
	assert.Contains(t, html, "Poslane ponude")
	assert.Contains(t, html, "Zatvorene narudžbe")
	assert.Contains(t, html, "Izvještaji o konkurenciji")
	assert.Contains(t, html, "Fotografije s terena")
	assert.Contains(t, html, "CRM ažurirano")

	// No overrides set: every card is labeled automatic
	assert.Contains(t, html, ProvenanceAuto)
	assert.NotContains(t, html, ProvenanceManual)
}

func TestBuildHTMLReportOverrideProvenance(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewDayPeriod("2025-03-15")

	offers := 12
	html := BuildHTMLReport(n, nil, period, ReportNotes{}, MetricOverrides{Offers: &offers})

	// Manual value is shown with the manual tag
	assert.Contains(t, html, `<div class="val">12</div>`)
	assert.Contains(t, html, ProvenanceManual)
}

func TestBuildHTMLReportDetailRows(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewDayPeriod("2025-03-15")
	rows := []models.Activity{
		{Date: "2025-03-15", Customer: "Kupac <script>", ContactType: "telefon", Subject: "Tema & ostalo", CRMUpdated: false},
	}

	html := BuildHTMLReport(n, rows, period, ReportNotes{}, MetricOverrides{})

	// Field values arrive escaped
	assert.Contains(t, html, "Kupac &lt;script&gt;")
	assert.Contains(t, html, "Tema &amp; ostalo")
	assert.Contains(t, html, `<td class="crm">NE</td>`)
}

func TestBuildHTMLReportThumbnailCap(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewDayPeriod("2025-03-15")

	payload := base64.StdEncoding.EncodeToString([]byte("img"))
	photos := make([]models.Photo, 8)
	for i := range photos {
		photos[i] = models.Photo{Data: "data:image/jpeg;base64," + payload}
	}
	rows := []models.Activity{{Date: "2025-03-15", Customer: "K", Photos: photos}}

	html := BuildHTMLReport(n, rows, period, ReportNotes{}, MetricOverrides{})

	assert.Equal(t, maxThumbsPerRow, strings.Count(html, `<img class="thumb"`))
}

func TestBuildHTMLReportNotes(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewDayPeriod("2025-03-15")
	notes := ReportNotes{
		Comment:     "prva linija\ndruga linija",
		Suggestions: "<b>bez</b> markupa",
		Problems:    "",
	}

	html := BuildHTMLReport(n, nil, period, notes, MetricOverrides{})

	// Line breaks preserved, markup stripped
	assert.Contains(t, html, "prva linija<br/>druga linija")
	assert.Contains(t, html, "bez markupa")
	assert.NotContains(t, html, "<b>bez</b>")
	assert.Contains(t, html, "Komentar")
	assert.Contains(t, html, "Prijedlozi")
	assert.Contains(t, html, "Problemi")
}

func TestBuildHTMLReportFooter(t *testing.T) {
	n, _ := newTestNormalizer()
	period := NewRangePeriod("2025-03-01", "2025-03-15")

	html := BuildHTMLReport(n, nil, period, ReportNotes{}, MetricOverrides{})

	assert.Contains(t, html, "Generisano: 15.03.2025")
}
