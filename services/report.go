package services

import "time"

// Report file name prefixes. Exporters on the receiving side key on these,
// so they are reproduced verbatim.
const (
	excelReportPrefix = "KPI_IZVJESTAJ"
	htmlReportPrefix  = "KPI_izvjestaj_za_period_od"
	wordReportPrefix  = "KPI_Izvjestaj_za_period_od"
)

// ReportPeriod is either a single day or an inclusive [From, To] range,
// always normalized so From <= To.
type ReportPeriod struct {
	From      string
	To        string
	SingleDay bool
}

// NewDayPeriod builds a single-day period
func NewDayPeriod(day string) ReportPeriod {
	d := NormalizeDate(day)
	return ReportPeriod{From: d, To: d, SingleDay: true}
}

// NewRangePeriod builds an inclusive period, swapping reversed bounds
func NewRangePeriod(from, to string) ReportPeriod {
	lo := NormalizeDate(from)
	hi := NormalizeDate(to)
	if lo > hi {
		lo, hi = hi, lo
	}
	return ReportPeriod{From: lo, To: hi}
}

// Label renders the period for report headers
func (p ReportPeriod) Label() string {
	if p.SingleDay {
		return p.From
	}
	return p.From + " - " + p.To
}

func (p ReportPeriod) fileName(prefix, ext string) string {
	if p.SingleDay {
		return prefix + "_" + p.From + ext
	}
	return prefix + "_" + p.From + "_do_" + p.To + ext
}

// ExcelReportFileName encodes the period into the workbook file name
func ExcelReportFileName(p ReportPeriod) string {
	return p.fileName(excelReportPrefix, ".xlsx")
}

// HTMLReportFileName encodes the period into the printable document file name
func HTMLReportFileName(p ReportPeriod) string {
	return p.fileName(htmlReportPrefix, ".html")
}

// WordReportFileName encodes the period into the Word document file name
func WordReportFileName(p ReportPeriod) string {
	return p.fileName(wordReportPrefix, ".docx")
}

// PDFReportFileName encodes the period into the PDF file name
func PDFReportFileName(p ReportPeriod) string {
	return p.fileName(htmlReportPrefix, ".pdf")
}

// ReportNotes are the free-text sections the field team fills in by hand
// before exporting a periodic report.
type ReportNotes struct {
	Comment     string `json:"comment"`
	Suggestions string `json:"suggestions"`
	Problems    string `json:"problems"`
}

// formatGeneratedAt stamps report footers: "DD. MM. YYYY. HH:MM:SS"
func formatGeneratedAt(t time.Time) string {
	return t.Format("02. 01. 2006. 15:04:05")
}

// crmLabel renders the CRM flag the way the team reads it
func crmLabel(updated bool) string {
	if updated {
		return "DA"
	}
	return "NE"
}
