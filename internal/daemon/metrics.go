package daemon

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeldir/leetbot/internal/logfields"
	"github.com/yeldir/leetbot/internal/state"
)

// Metrics bundles the Prometheus instrumentation and the optional scrape
// endpoint.
type Metrics struct {
	registry *prom.Registry

	messagesTotal  *prom.CounterVec
	notifyFailures prom.Counter
	reportsTotal   prom.Counter
	snapshotWrites prom.Counter
	snapshotErrors prom.Counter

	server *http.Server
}

// NewMetrics builds the registry. The active-chats gauge reads the store at
// scrape time.
func NewMetrics(store *state.Store) *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		messagesTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "leetbot", Name: "messages_total",
			Help: "Messages classified, labelled by outcome",
		}, []string{"outcome"}),
		notifyFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "leetbot", Name: "notification_failures_total",
			Help: "Outbound notifications that could not be delivered",
		}),
		reportsTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "leetbot", Name: "reports_total",
			Help: "Per-chat daily reports emitted",
		}),
		snapshotWrites: prom.NewCounter(prom.CounterOpts{
			Namespace: "leetbot", Name: "snapshot_writes_total",
			Help: "Successful state snapshot writes",
		}),
		snapshotErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: "leetbot", Name: "snapshot_errors_total",
			Help: "Failed state snapshot writes",
		}),
	}

	activeChats := prom.NewGaugeFunc(prom.GaugeOpts{
		Namespace: "leetbot", Name: "active_chats",
		Help: "Chats currently participating in the daily cycle",
	}, func() float64 {
		return float64(len(store.ActiveChats()))
	})

	m.registry.MustRegister(
		m.messagesTotal, m.notifyFailures, m.reportsTotal,
		m.snapshotWrites, m.snapshotErrors, activeChats,
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
	)
	return m
}

// Serve starts the scrape endpoint on listen in the background.
func (m *Metrics) Serve(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	m.server = &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("Metrics endpoint listening", slog.String("addr", listen))
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
}

// Close shuts down the scrape endpoint if it was started.
func (m *Metrics) Close(ctx context.Context) {
	if m.server == nil {
		return
	}
	if err := m.server.Shutdown(ctx); err != nil {
		slog.Error("Metrics server shutdown failed", logfields.Error(err))
	}
}
