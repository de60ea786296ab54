package registry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks registry outcomes. Result labels are "ok" or the short
// reason a request was rejected.
type Metrics struct {
	FacilitySet        *prometheus.CounterVec
	PractitionerAdd    *prometheus.CounterVec
	PractitionerLookup *prometheus.CounterVec
	Practitioners      prometheus.Gauge
}

// NewMetrics registers the registry collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FacilitySet: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospreg_facility_set_total",
			Help: "Total number of set-facility requests by result",
		}, []string{"result"}),
		PractitionerAdd: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospreg_practitioner_add_total",
			Help: "Total number of add-practitioner requests by result",
		}, []string{"result"}),
		PractitionerLookup: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospreg_practitioner_lookup_total",
			Help: "Total number of practitioner lookups by result",
		}, []string{"result"}),
		Practitioners: f.NewGauge(prometheus.GaugeOpts{
			Name: "hospreg_practitioners",
			Help: "Number of practitioners currently registered",
		}),
	}
}

func (m *Metrics) observeFacilitySet(err error) {
	if m == nil {
		return
	}
	m.FacilitySet.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) observePractitionerAdd(err error, total int) {
	if m == nil {
		return
	}
	m.PractitionerAdd.WithLabelValues(resultLabel(err)).Inc()
	m.Practitioners.Set(float64(total))
}

func (m *Metrics) observeLookup(found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.PractitionerLookup.WithLabelValues(result).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFacilityNameRequired):
		return "name_required"
	case errors.Is(err, ErrFacilityNotSet):
		return "facility_not_set"
	case errors.Is(err, ErrFieldsRequired):
		return "fields_required"
	case errors.Is(err, ErrIDNotNumeric):
		return "id_not_numeric"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	default:
		return "error"
	}
}
