// Package metrics exposes relay counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skyrelay/internal/events"
)

const namespace = "skyrelay"

type Metrics struct {
	commands      *prometheus.CounterVec
	sent          *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	rooms         prometheus.Gauge
	connections   prometheus.Gauge
	members       prometheus.Gauge
	lifecycle     *prometheus.CounterVec
	gamesEnded    *prometheus.CounterVec
	duplicateHits prometheus.Counter
	unknownHits   prometheus.Counter
	archived      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands applied by the event loop, by event.",
		}, []string{"event"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Frames queued for delivery, by event.",
		}, []string{"event"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Frames dropped on a full send queue, by event.",
		}, []string{"event"}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Live rooms.",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Connected clients.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "room_members",
			Help:      "Connections bound to a room.",
		}),
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_events_total",
			Help:      "Room lifecycle transitions, by kind.",
		}, []string{"kind"}),
		gamesEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_ended_total",
			Help:      "Contests ended, by reason.",
		}, []string{"reason"}),
		duplicateHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_hits_total",
			Help:      "Hits reported for enemies already destroyed.",
		}),
		unknownHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_hits_total",
			Help:      "Hits reported for enemies that were never spawned.",
		}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_archived_total",
			Help:      "Contest results written to sinks, by sink and outcome.",
		}, []string{"sink", "outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.commands, m.sent, m.dropped, m.rooms, m.connections, m.members,
		m.lifecycle, m.gamesEnded, m.duplicateHits, m.unknownHits, m.archived,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CommandHandled(event string) { m.commands.WithLabelValues(event).Inc() }
func (m *Metrics) Sent(event string)           { m.sent.WithLabelValues(event).Inc() }
func (m *Metrics) Dropped(event string)        { m.dropped.WithLabelValues(event).Inc() }

// Occupancy sets the gauges. members counts connections bound to a room and
// never exceeds connections.
func (m *Metrics) Occupancy(rooms, members, connections int) {
	m.rooms.Set(float64(rooms))
	m.members.Set(float64(members))
	m.connections.Set(float64(connections))
}

// Observe counts one lifecycle event.
func (m *Metrics) Observe(ev events.Event) {
	m.lifecycle.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == events.GameEnded && ev.Result != nil {
		m.gamesEnded.WithLabelValues(ev.Result.Reason).Inc()
		m.duplicateHits.Add(float64(ev.Result.DuplicateHits))
		m.unknownHits.Add(float64(ev.Result.UnknownHits))
	}
}

// ArchiveOutcome records whether writing a result to sink succeeded.
func (m *Metrics) ArchiveOutcome(sink string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.archived.WithLabelValues(sink, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
