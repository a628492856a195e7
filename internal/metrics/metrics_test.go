package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve("127.0.0.1:0")
	defer srv.Close()

	CyclesTotal.WithLabelValues("EUR_USD").Inc()
	OrdersTotal.WithLabelValues("EUR_USD", "BUY", "placed").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	want := map[string]bool{"scalper_cycles_total": false, "scalper_orders_total": false}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s metric not found", name)
		}
	}
}

func TestCounterIncrements(t *testing.T) {
	c := ErrorsTotal.WithLabelValues("GBP_USD", "fetch")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("errors_total = %v, want %v", got, before+1)
	}
}
