// Package metrics exposes Prometheus counters for wallet connections and
// payments. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "tipjar"

type Metrics struct {
	connects *prometheus.CounterVec
	payments *prometheus.CounterVec
	pending  prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_total",
			Help:      "Wallet connection attempts by result.",
		}, []string{"result"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_total",
			Help:      "Payment submissions by result.",
		}, []string{"result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payment_pending",
			Help:      "1 while a payment is waiting for confirmation.",
		}),
	}
	reg.MustRegister(m.connects, m.payments, m.pending)
	return m
}

func (m *Metrics) ConnectResult(ok bool) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) PaymentResult(ok bool) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) SetPending(pending bool) {
	if m == nil {
		return
	}
	if pending {
		m.pending.Set(1)
		return
	}
	m.pending.Set(0)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
