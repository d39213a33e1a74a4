package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the simulator.
    Registry = prometheus.NewRegistry()

    // Readings counts generated readings by sensor type and severity.
    Readings = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "sim_readings_total", Help: "Generated readings by sensor type and severity."},
        []string{"sensor_type", "severity"},
    )
    // ActiveJourneys tracks journeys currently in progress.
    ActiveJourneys = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "sim_active_journeys", Help: "Journeys currently in progress."},
    )
    // StageTransitions counts completed stages across all journeys.
    StageTransitions = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "sim_stage_transitions_total", Help: "Completed stage transitions."},
    )
    // TickDuration records wall time spent per shipment tick.
    TickDuration = prometheus.NewHistogram(
        prometheus.HistogramOpts{Name: "sim_tick_duration_seconds", Help: "Tick handler duration in seconds.", Buckets: prometheus.DefBuckets},
    )
    // FeedDropped counts events dropped because the feed queue was full.
    FeedDropped = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "sim_feed_dropped_total", Help: "Events dropped on feed queue overflow."},
    )
    // AnchorDeliveries counts ledger anchor outcomes by status.
    AnchorDeliveries = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "sim_anchor_deliveries_total", Help: "Ledger anchor deliveries by status."},
        []string{"status"},
    )
    // AnchorLatency tracks ledger gateway latencies in milliseconds.
    AnchorLatency = prometheus.NewHistogram(
        prometheus.HistogramOpts{Name: "sim_anchor_latency_ms", Help: "Ledger anchor latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
    )
)

// RegisterDefault registers all collectors on the simulator registry.
func RegisterDefault() {
    regOnce.Do(func() {
        Registry.MustRegister(Readings)
        Registry.MustRegister(ActiveJourneys)
        Registry.MustRegister(StageTransitions)
        Registry.MustRegister(TickDuration)
        Registry.MustRegister(FeedDropped)
        Registry.MustRegister(AnchorDeliveries)
        Registry.MustRegister(AnchorLatency)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
