package services

import (
	"regexp"
	"strings"

	"mini_kpi_app_go/models"
)

// Provenance labels shown next to metric values in the reports
const (
	ProvenanceAuto   = "Automatski"
	ProvenanceManual = "Ručno"
)

// Keyword heuristics over free text. These are known-approximate signals,
// kept byte-for-byte compatible with the historical matching: "ponud" catches
// ponuda/ponude/ponudu, the closed pattern catches narudžba (with and without
// the diacritic) and zatvoreno.
var (
	offerPattern  = regexp.MustCompile(`(?i)\bponud`)
	closedPattern = regexp.MustCompile(`(?i)\bnarudž|narudz|zatvoren`)
)

// Metrics are derived counts over a record set, recomputed fresh on every
// call and never persisted.
type Metrics struct {
	Visits      int `json:"visits"`
	Offers      int `json:"offers"`
	Closed      int `json:"closed"`
	Competition int `json:"competition"`
	Photos      int `json:"photos"`
	CRM         int `json:"crm"`
}

// MetricOverrides carry manually entered values for the two metrics the field
// team is allowed to correct by hand. Nil means "use the automatic count".
type MetricOverrides struct {
	Offers *int `json:"offers,omitempty"`
	Closed *int `json:"closed,omitempty"`
}

// OffersProvenance returns the label for the offers metric
func (o MetricOverrides) OffersProvenance() string {
	if o.Offers != nil {
		return ProvenanceManual
	}
	return ProvenanceAuto
}

// ClosedProvenance returns the label for the closed-orders metric
func (o MetricOverrides) ClosedProvenance() string {
	if o.Closed != nil {
		return ProvenanceManual
	}
	return ProvenanceAuto
}

// CalcMetrics derives the summary counts from a record set. Pure function of
// its input: no hidden state, no caching.
func CalcMetrics(activities []models.Activity) Metrics {
	var m Metrics
	for i := range activities {
		a := &activities[i]
		if a.IsInPersonContact() {
			m.Visits++
		}
		text := strings.ToLower(a.CombinedText())
		if offerPattern.MatchString(text) {
			m.Offers++
		}
		if closedPattern.MatchString(text) {
			m.Closed++
		}
		if a.HasCompetitionNote() {
			m.Competition++
		}
		m.Photos += a.PhotoCount()
		if a.CRMUpdated {
			m.CRM++
		}
	}
	return m
}

// Apply replaces the overridable counts with their manual values where set.
// The other metrics are never affected by overrides.
func (o MetricOverrides) Apply(auto Metrics) Metrics {
	out := auto
	if o.Offers != nil {
		out.Offers = *o.Offers
	}
	if o.Closed != nil {
		out.Closed = *o.Closed
	}
	return out
}
