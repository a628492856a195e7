package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scalper_cycles_total", Help: "Decision cycles run"},
		[]string{"symbol"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scalper_signals_total", Help: "Latest-bar signals by outcome"},
		[]string{"symbol", "signal", "verdict"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scalper_orders_total", Help: "Orders submitted"},
		[]string{"symbol", "side", "result"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scalper_errors_total", Help: "Cycle failures by stage"},
		[]string{"symbol", "stage"},
	)
	LastCycle = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "scalper_last_cycle_timestamp_seconds", Help: "Unix time of the last finished cycle"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, SignalsTotal, OrdersTotal, ErrorsTotal, LastCycle)
}

// Serve exposes /metrics on addr in the background
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()
	return srv
}
