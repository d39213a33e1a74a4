package sim

import (
    "context"
    "errors"
    "log"
    "sync"
    "time"

    "coldsim/internal/model"
)

// Scheduler drives periodic ticks for every active journey. Each shipment
// gets its own goroutine and ticker, so ticks for a single shipment are
// strictly sequential while different shipments run independently. The
// scheduler holds explicit cancellation handles per shipment; nothing is
// orphaned on shutdown.
type Scheduler struct {
    engine   *Engine
    interval time.Duration

    mu      sync.Mutex
    cancels map[string]context.CancelFunc
    wg      sync.WaitGroup
}

func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
    if interval <= 0 { interval = 3 * time.Second }
    return &Scheduler{engine: engine, interval: interval, cancels: map[string]context.CancelFunc{}}
}

// StartMonitoring begins a new journey and registers its recurring tick.
func (s *Scheduler) StartMonitoring(shipmentID, product, origin, destination string) (model.Journey, error) {
    j, err := s.engine.Start(shipmentID, product, origin, destination)
    if err != nil { return model.Journey{}, err }

    ctx, cancel := context.WithCancel(context.Background())
    s.mu.Lock()
    s.cancels[shipmentID] = cancel
    s.mu.Unlock()

    s.wg.Add(1)
    go s.run(ctx, shipmentID)
    log.Printf("monitoring started shipment=%s stages=%d eta=%s", shipmentID, len(j.Stages), j.ETA.Format(time.RFC3339))
    return j, nil
}

func (s *Scheduler) run(ctx context.Context, shipmentID string) {
    defer s.wg.Done()
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            done, err := s.engine.Tick(shipmentID)
            if err != nil {
                // Unknown shipment means our bookkeeping and the engine
                // disagree; drop the handle rather than tick forever.
                log.Printf("tick shipment=%s: %v", shipmentID, err)
                s.drop(shipmentID)
                return
            }
            if done {
                log.Printf("journey complete shipment=%s", shipmentID)
                s.drop(shipmentID)
                return
            }
        }
    }
}

// StopMonitoring cancels the recurring tick and deactivates the journey's
// sensors. Idempotent: unknown or already-stopped shipments are a no-op.
func (s *Scheduler) StopMonitoring(shipmentID string) {
    s.drop(shipmentID)
    if err := s.engine.Stop(shipmentID); err != nil && !errors.Is(err, ErrNotFound) {
        log.Printf("stop shipment=%s: %v", shipmentID, err)
    }
}

// drop cancels and forgets the shipment's tick handle if present.
func (s *Scheduler) drop(shipmentID string) {
    s.mu.Lock()
    cancel, ok := s.cancels[shipmentID]
    if ok { delete(s.cancels, shipmentID) }
    s.mu.Unlock()
    if ok { cancel() }
}

// Active reports whether a shipment currently has a tick handle.
func (s *Scheduler) Active(shipmentID string) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    _, ok := s.cancels[shipmentID]
    return ok
}

// Shutdown cancels every tick handle and waits for tick goroutines to
// drain. Safe to call more than once.
func (s *Scheduler) Shutdown() {
    s.mu.Lock()
    for id, cancel := range s.cancels {
        cancel()
        delete(s.cancels, id)
    }
    s.mu.Unlock()
    s.wg.Wait()
}
