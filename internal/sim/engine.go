package sim

import (
    "errors"
    "sync"
    "time"

    "coldsim/internal/metrics"
    "coldsim/internal/model"
)

var (
    // ErrNotFound reports an operation on a shipment with no journey.
    // Tick/Stop return it instead of silently succeeding so scheduler
    // bookkeeping bugs surface instead of masking themselves.
    ErrNotFound = errors.New("journey not found")
    // ErrExists reports a Start for a shipment that already has a journey.
    ErrExists = errors.New("journey already started")
    // ErrEmptyTemplate reports a template function that produced no stages.
    ErrEmptyTemplate = errors.New("journey template has no stages")
)

// Event types pushed to the sink.
const (
    EventReading          = "reading.recorded"
    EventStageCompleted   = "stage.completed"
    EventJourneyCompleted = "journey.completed"
)

// Event is a fire-and-forget notification to collaborators. Reading is set
// for reading events; Data carries stage/journey payloads.
type Event struct {
    Type       string
    ShipmentID string
    Reading    *model.Reading
    Data       map[string]any
}

// Sink receives engine events. Implementations must be non-blocking:
// a slow collaborator must never stall a tick.
type Sink interface {
    Emit(evt Event)
}

// TemplateFunc builds the stage template for a new journey.
type TemplateFunc func(origin, destination string) []model.StageDefinition

// EngineConfig carries the tunables the host injects.
type EngineConfig struct {
    Step      time.Duration // simulated time elapsed per tick
    Drain     float64       // battery decrement per sensor per tick
    Now       func() time.Time
    Templates TemplateFunc
}

// Engine owns every journey for its lifetime and drives per-shipment state
// through NotStarted -> InProgress(stage) -> Complete. The scheduler holds
// only shipment ids.
type Engine struct {
    mu       sync.RWMutex
    journeys map[string]*journeyState
    order    []string // insertion order for stable listing

    gen  *Generator
    sink Sink

    step      time.Duration
    drain     float64
    now       func() time.Time
    templates TemplateFunc
}

// journeyState is a Journey plus its mutable simulation bookkeeping. Its
// mutex serializes ticks against Start/Stop/snapshots for one shipment.
type journeyState struct {
    mu      sync.Mutex
    j       model.Journey
    sensors []*model.Sensor
    elapsed time.Duration // simulated time spent in the current stage
}

func NewEngine(gen *Generator, sink Sink, cfg EngineConfig) *Engine {
    if cfg.Step <= 0 { cfg.Step = 3 * time.Second }
    if cfg.Drain <= 0 { cfg.Drain = 0.5 }
    if cfg.Now == nil { cfg.Now = time.Now }
    if cfg.Templates == nil { cfg.Templates = BuildJourneyTemplate }
    if gen == nil { gen = NewGenerator(nil, cfg.Now) }
    return &Engine{
        journeys:  map[string]*journeyState{},
        gen:       gen,
        sink:      sink,
        step:      cfg.Step,
        drain:     cfg.Drain,
        now:       cfg.Now,
        templates: cfg.Templates,
    }
}

// Start builds the stage template, provisions the sensor fleet, and puts
// the journey in progress at stage 0. ETA is start plus the sum of all
// planned stage durations.
func (e *Engine) Start(shipmentID, product, origin, destination string) (model.Journey, error) {
    tmpl := e.templates(origin, destination)
    if len(tmpl) == 0 {
        return model.Journey{}, ErrEmptyTemplate
    }
    start := e.now()

    stages := make([]model.StageProgress, len(tmpl))
    for i, st := range tmpl { stages[i] = model.StageProgress{StageDefinition: st} }
    sensors := Provision(shipmentID, tmpl[0])

    st := &journeyState{
        j: model.Journey{
            ShipmentID:  shipmentID,
            Product:     product,
            Origin:      origin,
            Destination: destination,
            Status:      model.JourneyInProgress,
            Stages:      stages,
            StartedAt:   start,
            ETA:         TemplateETA(start, tmpl),
        },
        sensors: sensors,
    }

    e.mu.Lock()
    if _, ok := e.journeys[shipmentID]; ok {
        e.mu.Unlock()
        return model.Journey{}, ErrExists
    }
    e.journeys[shipmentID] = st
    e.order = append(e.order, shipmentID)
    e.mu.Unlock()

    metrics.ActiveJourneys.Inc()
    return snapshot(st), nil
}

// Tick runs one simulation step for a shipment: stamp the current stage's
// entry time if needed, emit one reading per active sensor, then advance
// the stage when its planned simulated duration has elapsed. The returned
// bool reports whether this tick completed the journey, which is the
// scheduler's cue to stop ticking. Ticking a completed journey is a no-op.
func (e *Engine) Tick(shipmentID string) (bool, error) {
    e.mu.RLock()
    st, ok := e.journeys[shipmentID]
    e.mu.RUnlock()
    if !ok { return false, ErrNotFound }

    st.mu.Lock()
    defer st.mu.Unlock()

    if st.j.Status == model.JourneyComplete { return true, nil }

    started := time.Now()
    defer func() { metrics.TickDuration.Observe(time.Since(started).Seconds()) }()

    now := e.now()
    cur := &st.j.Stages[st.j.CurrentStage]
    if cur.StartedAt == nil {
        t := now
        cur.StartedAt = &t
    }

    for _, s := range st.sensors {
        if !s.Active { continue }
        Drain(s, e.drain)
        r := e.gen.Generate(s, cur.StageDefinition)
        metrics.Readings.WithLabelValues(string(r.SensorType), string(r.Severity)).Inc()
        e.emit(Event{Type: EventReading, ShipmentID: shipmentID, Reading: &r})
    }

    st.elapsed += e.step
    if st.elapsed < cur.Duration { return false, nil }

    // Stage done: close it out and move on.
    end := now
    cur.Completed = true
    cur.EndedAt = &end
    st.j.CurrentStage++
    st.elapsed = 0
    metrics.StageTransitions.Inc()

    if st.j.CurrentStage < len(st.j.Stages) {
        next := st.j.Stages[st.j.CurrentStage]
        AdvanceToStage(st.sensors, next.StageDefinition)
        e.emit(Event{Type: EventStageCompleted, ShipmentID: shipmentID, Data: map[string]any{
            "stage":     cur.ID,
            "nextStage": next.ID,
            "progress":  StageLabel(st.j.CurrentStage, st.j.Stages),
            "endedAt":   end,
        }})
        return false, nil
    }

    st.j.Status = model.JourneyComplete
    Deactivate(st.sensors)
    metrics.ActiveJourneys.Dec()
    e.emit(Event{Type: EventStageCompleted, ShipmentID: shipmentID, Data: map[string]any{"stage": cur.ID, "progress": StageLabel(st.j.CurrentStage, st.j.Stages), "endedAt": end}})
    e.emit(Event{Type: EventJourneyCompleted, ShipmentID: shipmentID, Data: map[string]any{"completedAt": end}})
    return true, nil
}

// Stop deactivates the shipment's sensors without deleting the journey.
// Used for explicit cancellation and after natural completion. Idempotent:
// stopping an already-stopped journey changes nothing.
func (e *Engine) Stop(shipmentID string) error {
    e.mu.RLock()
    st, ok := e.journeys[shipmentID]
    e.mu.RUnlock()
    if !ok { return ErrNotFound }

    st.mu.Lock()
    defer st.mu.Unlock()
    Deactivate(st.sensors)
    if st.j.Status != model.JourneyComplete {
        st.j.Status = model.JourneyComplete
        metrics.ActiveJourneys.Dec()
    }
    return nil
}

// GetJourney returns a snapshot of one journey. Absence is an expected
// outcome and reported as ErrNotFound, never a panic.
func (e *Engine) GetJourney(shipmentID string) (model.Journey, error) {
    e.mu.RLock()
    st, ok := e.journeys[shipmentID]
    e.mu.RUnlock()
    if !ok { return model.Journey{}, ErrNotFound }
    st.mu.Lock()
    defer st.mu.Unlock()
    return snapshot(st), nil
}

// ListJourneys returns snapshots of every journey in start order.
func (e *Engine) ListJourneys() []model.Journey {
    e.mu.RLock()
    ids := append([]string(nil), e.order...)
    e.mu.RUnlock()
    out := make([]model.Journey, 0, len(ids))
    for _, id := range ids {
        if j, err := e.GetJourney(id); err == nil { out = append(out, j) }
    }
    return out
}

func (e *Engine) emit(evt Event) {
    if e.sink != nil { e.sink.Emit(evt) }
}

// snapshot deep-copies journey state so callers never share the engine's
// mutable slices. Caller holds st.mu.
func snapshot(st *journeyState) model.Journey {
    j := st.j
    j.Stages = append([]model.StageProgress(nil), st.j.Stages...)
    j.Sensors = make([]model.Sensor, len(st.sensors))
    for i, s := range st.sensors { j.Sensors[i] = *s }
    return j
}
