package feed

import (
    "context"
    "log"
    "sync"
    "time"

    "golang.org/x/time/rate"

    "coldsim/internal/anchor"
    "coldsim/internal/metrics"
    "coldsim/internal/model"
    "coldsim/internal/sim"
    "coldsim/internal/store"
)

// JourneySource lets the emitter pull a fresh journey snapshot when a
// stage or journey completes, without depending on the engine type.
type JourneySource interface {
    GetJourney(shipmentID string) (model.Journey, error)
}

// EmitterConfig sizes the queue between the engine and collaborators.
type EmitterConfig struct {
    QueueSize int
    // RatePerSec caps collaborator fan-out; 0 means unlimited.
    RatePerSec float64
}

// Emitter is the engine's sink. Emit is non-blocking: events go into a
// bounded queue and a single drain goroutine fans them out to the broker,
// the store, the location cache, and the anchor queue. Overflow is dropped
// with a log line; the simulation never waits on a collaborator.
type Emitter struct {
    broker   EventBroker
    store    store.Store
    anchors  *anchor.Publisher
    loc      *LocationCache
    journeys JourneySource

    ch   chan sim.Event
    lim  *rate.Limiter
    done chan struct{}
    once sync.Once
}

func NewEmitter(broker EventBroker, st store.Store, anchors *anchor.Publisher, loc *LocationCache, cfg EmitterConfig) *Emitter {
    if cfg.QueueSize <= 0 { cfg.QueueSize = 256 }
    var lim *rate.Limiter
    if cfg.RatePerSec > 0 {
        lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.QueueSize)
    }
    return &Emitter{
        broker:  broker,
        store:   st,
        anchors: anchors,
        loc:     loc,
        ch:      make(chan sim.Event, cfg.QueueSize),
        lim:     lim,
        done:    make(chan struct{}),
    }
}

// BindJourneys attaches the snapshot source; called once at wiring time
// since the engine itself is constructed with this emitter as its sink.
func (e *Emitter) BindJourneys(src JourneySource) { e.journeys = src }

// Emit satisfies sim.Sink. Never blocks.
func (e *Emitter) Emit(evt sim.Event) {
    select {
    case e.ch <- evt:
    default:
        metrics.FeedDropped.Inc()
        log.Printf("feed queue full, dropped %s shipment=%s", evt.Type, evt.ShipmentID)
    }
}

// Start launches the drain goroutine.
func (e *Emitter) Start() {
    go func() {
        defer close(e.done)
        for evt := range e.ch {
            if e.lim != nil { _ = e.lim.Wait(context.Background()) }
            e.dispatch(evt)
        }
    }()
}

// Shutdown stops accepting events and drains what is queued.
func (e *Emitter) Shutdown() {
    e.once.Do(func() { close(e.ch) })
    <-e.done
}

func (e *Emitter) dispatch(evt sim.Event) {
    out := Event{Type: evt.Type, ShipmentID: evt.ShipmentID, Reading: evt.Reading, Data: evt.Data}
    if e.broker != nil { e.broker.Publish(evt.ShipmentID, out) }

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()

    if evt.Reading != nil {
        r := *evt.Reading
        if e.loc != nil { e.loc.Observe(r) }
        if e.store != nil {
            if err := e.store.InsertReading(ctx, r); err != nil {
                log.Printf("persist reading shipment=%s: %v", r.ShipmentID, err)
            }
        }
        // Only excursions are anchored; normal readings stay local.
        if e.anchors != nil && r.Severity != model.SeverityNormal {
            e.anchors.Emit(ctx, r.ShipmentID, "reading.alert", r)
        }
        return
    }

    switch evt.Type {
    case sim.EventStageCompleted, sim.EventJourneyCompleted:
        if e.store != nil && e.journeys != nil {
            if j, err := e.journeys.GetJourney(evt.ShipmentID); err == nil {
                if err := e.store.SaveJourney(ctx, j); err != nil {
                    log.Printf("persist journey shipment=%s: %v", evt.ShipmentID, err)
                }
            }
        }
        if e.anchors != nil {
            e.anchors.Emit(ctx, evt.ShipmentID, evt.Type, evt.Data)
        }
    }
}
