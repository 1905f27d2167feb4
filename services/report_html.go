package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"mini_kpi_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// maxThumbsPerRow caps inlined thumbnails per detail-table row; photos beyond
// the cap are not shown in this format.
const maxThumbsPerRow = 5

var notePolicy = bluemonday.StrictPolicy()

// BuildHTMLReport produces the printable document: a single self-contained
// HTML page with embedded style and inlined images, usable both as a saved
// file and as a print view. The identical document serves both delivery
// modes.
func BuildHTMLReport(normalizer *PhotoNormalizer, rows []models.Activity, period ReportPeriod, notes ReportNotes, overrides MetricOverrides) string {
	auto := CalcMetrics(rows)
	m := overrides.Apply(auto)

	var trs strings.Builder
	for i := range rows {
		a := &rows[i]
		var imgs strings.Builder
		for j := range a.Photos {
			if j >= maxThumbsPerRow {
				break
			}
			src := normalizer.DataURL(&a.Photos[j])
			if src == "" {
				continue
			}
			imgs.WriteString(`<img class="thumb" src="` + src + `" />`)
		}
		trs.WriteString(fmt.Sprintf(`
      <tr>
        <td>%s</td>
        <td>%s</td>
        <td>%s</td>
        <td>%s</td>
        <td class="crm">%s</td>
        <td>%s</td>
      </tr>`,
			html.EscapeString(a.Date),
			html.EscapeString(a.Customer),
			html.EscapeString(a.ContactType),
			html.EscapeString(a.Subject),
			crmLabel(a.CRMUpdated),
			imgs.String(),
		))
	}

	genText := formatGeneratedAt(time.Now())

	return `<!doctype html><html lang="bs"><head><meta charset="utf-8"/>
  <title>KPI Izvještaj za period - ` + html.EscapeString(period.From) + ` do ` + html.EscapeString(period.To) + `</title>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <style>
  :root{--blue:#0b5ed7; --border:#e5e7eb; --text:#111827}
  *{box-sizing:border-box}
  body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,'Helvetica Neue',Arial;color:var(--text);margin:24px;}
  header{display:flex;justify-content:space-between;align-items:center;margin-bottom:24px}
  h1{font-size:36px;margin:0;text-align:center}
  .btn{background:var(--blue);color:#fff;border:none;border-radius:8px;padding:10px 14px;cursor:pointer}
  .period{font-size:18px;text-align:center;margin:6px 0 24px}
  .cards{display:grid;grid-template-columns:repeat(3,1fr);gap:16px;margin-bottom:22px}
  .card{background:#f9fafb;border:1px solid var(--border);border-radius:12px;padding:18px;text-align:center}
  .card h3{margin:0 0 8px 0;font-weight:600;color:#374151}
  .card .val{font-size:32px;font-weight:700;color:#0f172a}
  .card .meta{color:#059669;font-size:12px;margin-top:2px}
  hr.sep{border:none;border-top:2px solid #0b5ed7;margin:22px 0 12px}
  table{width:100%;border-collapse:collapse;margin-top:6px}
  th,td{border:1px solid var(--border);padding:10px 12px;vertical-align:top}
  th{background:#f3f4f6;text-align:left}
  td.crm{text-align:center}
  .thumb{height:60px;border-radius:6px;border:1px solid var(--border);object-fit:cover;margin-right:6px}
  .grid3{display:grid;grid-template-columns:repeat(3,1fr);gap:16px;margin-top:14px}
  .panel{border:1px solid var(--border);border-radius:12px;padding:12px;background:#fff}
  .panel h4{margin:0 0 8px 0}
  footer{color:#6b7280;text-align:center;margin-top:20px}
  @media print {.no-print{display:none !important} body{margin:10mm} h1{font-size:28px} .thumb{height:48px}}
  </style></head>
  <body>
  <header><button class="btn no-print" onclick="window.print()">Štampaj izvještaj</button><div style="flex:1"></div></header>
  <h1>KPI Izvještaj</h1>
  <div class="period">Period: ` + html.EscapeString(period.From) + ` - ` + html.EscapeString(period.To) + `</div>
  <section class="cards">
    ` + metricCardHTML("Fizički posjeti kupcima", m.Visits, ProvenanceAuto) + `
    ` + metricCardHTML("Poslane ponude", m.Offers, overrides.OffersProvenance()) + `
    ` + metricCardHTML("Zatvorene narudžbe", m.Closed, overrides.ClosedProvenance()) + `
    ` + metricCardHTML("Izvještaji o konkurenciji", m.Competition, ProvenanceAuto) + `
    ` + metricCardHTML("Fotografije s terena", m.Photos, ProvenanceAuto) + `
    ` + metricCardHTML("CRM ažurirano", m.CRM, ProvenanceAuto) + `
  </section>
  <h3>Detaljni pregled aktivnosti</h3><hr class="sep"/>
  <table><thead><tr>
    <th>Datum</th><th>Kupac</th><th>Vrsta kontakta</th><th>Tema</th><th>CRM</th><th>Slike</th>
  </tr></thead><tbody>` + trs.String() + `</tbody></table>
  <section class="grid3">
    <div class="panel"><h4>Komentar</h4><div>` + noteHTML(notes.Comment) + `</div></div>
    <div class="panel"><h4>Prijedlozi</h4><div>` + noteHTML(notes.Suggestions) + `</div></div>
    <div class="panel"><h4>Problemi</h4><div>` + noteHTML(notes.Problems) + `</div></div>
  </section>
  <footer>Generisano: ` + FormatDMY(period.To) + ` • ` + genText + `</footer>
  </body></html>`
}

func metricCardHTML(label string, value int, provenance string) string {
	return fmt.Sprintf(
		`<div class="card"><h3>%s</h3><div class="val">%d</div><div class="meta">%s</div></div>`,
		label, value, provenance,
	)
}

// noteHTML sanitizes a free-text note and preserves its line breaks
func noteHTML(text string) string {
	clean := notePolicy.Sanitize(text)
	return strings.ReplaceAll(clean, "\n", "<br/>")
}
