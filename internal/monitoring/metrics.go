// Package monitoring expone las métricas Prometheus del servicio.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores. Un *Metrics nil es válido y no registra nada,
// así los casos de uso no necesitan comprobarlo.
type Metrics struct {
	CompaniesRegistered prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	MessagesSubmitted   *prometheus.CounterVec
	MessageStatusChange *prometheus.CounterVec
	QuotaRejections     *prometheus.CounterVec
	RateLimited         *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New crea los colectores y los registra en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CompaniesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_companies_registered_total",
			Help: "Empresas registradas",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_company_status_transitions_total",
			Help: "Transiciones de estado de empresas",
		}, []string{"from", "to"}),
		MessagesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_messages_submitted_total",
			Help: "Mensajes anónimos aceptados por tipo",
		}, []string{"type"}),
		MessageStatusChange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_message_status_changes_total",
			Help: "Cambios de estado de mensajes por estado destino",
		}, []string{"to"}),
		QuotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_quota_rejections_total",
			Help: "Reservas rechazadas por cuota",
		}, []string{"resource"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_rate_limited_requests_total",
			Help: "Peticiones anónimas rechazadas por rate limit",
		}, []string{"route"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedback_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		m.CompaniesRegistered,
		m.StatusTransitions,
		m.MessagesSubmitted,
		m.MessageStatusChange,
		m.QuotaRejections,
		m.RateLimited,
		m.HTTPDuration,
	)
	return m
}

func (m *Metrics) CompanyRegistered() {
	if m == nil {
		return
	}
	m.CompaniesRegistered.Inc()
}

func (m *Metrics) CompanyTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) MessageSubmitted(msgType string) {
	if m == nil {
		return
	}
	m.MessagesSubmitted.WithLabelValues(msgType).Inc()
}

func (m *Metrics) MessageStatusChanged(to string) {
	if m == nil {
		return
	}
	m.MessageStatusChange.WithLabelValues(to).Inc()
}

func (m *Metrics) QuotaRejected(resource string) {
	if m == nil {
		return
	}
	m.QuotaRejections.WithLabelValues(resource).Inc()
}

func (m *Metrics) RateLimitHit(route string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(route).Inc()
}

func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
