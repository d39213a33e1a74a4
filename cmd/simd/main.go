package main

import (
    "context"
    "flag"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "coldsim/internal/api"
    "coldsim/internal/config"
    "coldsim/internal/metrics"
)

func main() {
    cfgPath := flag.String("config", os.Getenv("COLDSIM_CONFIG"), "path to YAML config (optional)")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatalf("load config: %v", err)
    }

    srv, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }

    metrics.RegisterDefault()

    mux := http.NewServeMux()

    // Monitoring lifecycle
    mux.HandleFunc("/v1/monitor", srv.MonitorHandler)
    mux.HandleFunc("/v1/monitor/", srv.MonitorByIDHandler)

    // Journeys
    mux.HandleFunc("/v1/journeys", srv.JourneysHandler)
    mux.HandleFunc("/v1/journeys/", srv.JourneyByIDHandler) // includes /feed, /location, /readings

    // Health
    mux.HandleFunc("/healthz", srv.HealthHandler)
    mux.HandleFunc("/readyz", srv.ReadyHandler)

    // Metrics
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    httpSrv := &http.Server{
        Addr:              cfg.Listen,
        Handler:           logMiddleware(mux),
        ReadHeaderTimeout: 5 * time.Second,
    }

    srv.Start()
    log.Printf("simulator listening on %s (tick=%s step=%s)", cfg.Listen, cfg.TickInterval, cfg.SimStep)

    errCh := make(chan error, 1)
    go func() { errCh <- httpSrv.ListenAndServe() }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case err := <-errCh:
        if err != nil && err != http.ErrServerClosed {
            log.Fatalf("server error: %v", err)
        }
    case sig := <-sigCh:
        log.Printf("shutting down on %s", sig)
    }

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = httpSrv.Shutdown(ctx)
    srv.Shutdown()
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}
