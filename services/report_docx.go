package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"mini_kpi_app_go/models"

	docx "github.com/fumiama/go-docx"
)

// BuildWordReport produces the Word document artifact: title and period
// line, a 2x3 metric card grid with provenance tags, and a detail table that
// shows the photo count per row instead of embedded thumbnails, a size
// trade-off for a document that gets mailed around.
func BuildWordReport(rows []models.Activity, period ReportPeriod, overrides MetricOverrides) (*bytes.Buffer, string, error) {
	auto := CalcMetrics(rows)
	m := overrides.Apply(auto)

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText("KPI Izvještaj").Size("48").Bold()

	periodLine := w.AddParagraph().Justification("center")
	periodLine.AddText("Period: " + period.From + " - " + period.To).Size("28")
	w.AddParagraph() // spacing

	// 2 rows x 3 columns of metric cards
	grid := w.AddTable(2, 3, 8800, nil)
	wordMetricCell(grid.TableRows[0].TableCells[0], "Fizički posjeti kupcima", m.Visits, ProvenanceAuto)
	wordMetricCell(grid.TableRows[0].TableCells[1], "Poslane ponude", m.Offers, overrides.OffersProvenance())
	wordMetricCell(grid.TableRows[0].TableCells[2], "Zatvorene narudžbe", m.Closed, overrides.ClosedProvenance())
	wordMetricCell(grid.TableRows[1].TableCells[0], "Izvještaji o konkurenciji", m.Competition, ProvenanceAuto)
	wordMetricCell(grid.TableRows[1].TableCells[1], "Fotografije s terena", m.Photos, ProvenanceAuto)
	wordMetricCell(grid.TableRows[1].TableCells[2], "CRM ažurirano", m.CRM, ProvenanceAuto)

	w.AddParagraph()
	section := w.AddParagraph()
	section.AddText("Detaljni pregled aktivnosti").Size("26").Bold()

	detail := w.AddTable(len(rows)+1, 6, 8800, nil)
	headers := []string{"Datum", "Kupac", "Vrsta kontakta", "Tema", "CRM", "Slike"}
	for i, h := range headers {
		detail.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	for i := range rows {
		a := &rows[i]
		cells := detail.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(a.Date)
		cells[1].AddParagraph().AddText(a.Customer)
		cells[2].AddParagraph().AddText(a.ContactType)
		cells[3].AddParagraph().AddText(a.Subject)
		cells[4].AddParagraph().Justification("center").AddText(crmLabel(a.CRMUpdated))
		cells[5].AddParagraph().Justification("center").AddText(strconv.Itoa(a.PhotoCount()))
	}

	w.AddParagraph()
	footer := w.AddParagraph().Justification("center")
	footer.AddText("Generisano: " + formatGeneratedAt(time.Now())).Size("18").Color("6B7280")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to pack word document: %w", err)
	}
	return &buf, WordReportFileName(period), nil
}

// wordMetricCell fills one metric card: large value, label, provenance tag
func wordMetricCell(cell *docx.WTableCell, label string, value int, provenance string) {
	vp := cell.AddParagraph().Justification("center")
	vp.AddText(strconv.Itoa(value)).Size("56").Bold().Color("0B5ED7")
	lp := cell.AddParagraph().Justification("center")
	lp.AddText(label).Size("24").Color("374151")
	pp := cell.AddParagraph().Justification("center")
	pp.AddText(provenance).Size("18").Color("059669")
}
