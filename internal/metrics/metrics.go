package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	PartnerDecisions  *prometheus.CounterVec
	UsersRegistered   *prometheus.CounterVec
	Bookings          *prometheus.CounterVec
	SelfActionsDenied *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PartnerDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinn_partner_decisions_total",
			Help: "Partner verification transitions attempted by admins",
		}, []string{"action", "result"}),
		UsersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinn_users_registered_total",
			Help: "Accounts created through registration",
		}, []string{"role"}),
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinn_bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"result"}),
		SelfActionsDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinn_self_action_denied_total",
			Help: "Admin actions refused because they targeted the acting admin",
		}, []string{"action"}),
	}
	if reg != nil {
		reg.MustRegister(m.PartnerDecisions, m.UsersRegistered, m.Bookings, m.SelfActionsDenied)
	}
	return m
}

// RecordPartnerDecision counts an approve/reject/suspend attempt.
func (m *Metrics) RecordPartnerDecision(action, result string) {
	if m == nil {
		return
	}
	m.PartnerDecisions.WithLabelValues(action, result).Inc()
}

func (m *Metrics) RecordRegistration(role string) {
	if m == nil {
		return
	}
	m.UsersRegistered.WithLabelValues(role).Inc()
}

func (m *Metrics) RecordBooking(result string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSelfActionDenied(action string) {
	if m == nil {
		return
	}
	m.SelfActionsDenied.WithLabelValues(action).Inc()
}
