package anchor

import (
    "bytes"
    "context"
    "net/http"
    "time"

    "coldsim/internal/metrics"
    "coldsim/internal/store"
)

// Worker drains the anchor queue and POSTs signed envelopes to the ledger
// gateway, retrying with exponential backoff up to MaxAttempts.
type Worker struct {
    Store       store.Store
    HTTP        *http.Client
    Stop        chan struct{}
    GatewayURL  string
    Secret      string
    MaxAttempts int
}

func NewWorker(s store.Store, gatewayURL, secret string, maxAttempts int) *Worker {
    if maxAttempts <= 0 { maxAttempts = 10 }
    return &Worker{
        Store:       s,
        HTTP:        &http.Client{Timeout: 5 * time.Second},
        Stop:        make(chan struct{}),
        GatewayURL:  gatewayURL,
        Secret:      secret,
        MaxAttempts: maxAttempts,
    }
}

func (w *Worker) Start() {
    go func() {
        ticker := time.NewTicker(1 * time.Second)
        defer ticker.Stop()
        for {
            select {
            case <-w.Stop:
                return
            case <-ticker.C:
                w.processOnce()
            }
        }
    }()
}

func (w *Worker) processOnce() {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    items, err := w.Store.FetchDueAnchors(ctx, 50)
    if err != nil || len(items) == 0 { return }
    for _, it := range items {
        success := false
        next := time.Now().Add(nextBackoff(it.Attempts))
        req, _ := http.NewRequestWithContext(ctx, http.MethodPost, w.GatewayURL, bytes.NewReader(it.Payload))
        req.Header.Set("Content-Type", "application/json")
        req.Header.Set("X-Event-Type", it.EventType)
        if w.Secret != "" {
            req.Header.Set("X-Signature", SignHMAC(w.Secret, it.Payload))
        }
        start := time.Now()
        resp, err := w.HTTP.Do(req)
        latency := int(time.Since(start).Milliseconds())
        code := 0
        if err == nil && resp != nil {
            code = resp.StatusCode
            if resp.Body != nil { _ = resp.Body.Close() }
            if code >= 200 && code < 300 { success = true }
        }
        lastErr := ""
        if !success && err != nil { lastErr = err.Error() }
        metrics.AnchorLatency.Observe(float64(latency))
        if success {
            metrics.AnchorDeliveries.WithLabelValues("anchored").Inc()
        } else if it.Attempts+1 >= w.MaxAttempts {
            metrics.AnchorDeliveries.WithLabelValues("failed").Inc()
            _ = w.Store.FailAnchor(ctx, it.ID, lastErr, code, latency)
            continue
        } else {
            metrics.AnchorDeliveries.WithLabelValues("retry").Inc()
        }
        _ = w.Store.MarkAnchor(ctx, it.ID, success, &next, lastErr, code, latency)
    }
}

func nextBackoff(attempts int) time.Duration {
    if attempts < 0 { attempts = 0 }
    if attempts > 10 { attempts = 10 }
    base := time.Second * time.Duration(1<<attempts)
    if base > time.Hour { base = time.Hour }
    return base
}
