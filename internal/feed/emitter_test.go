package feed

import (
    "context"
    "testing"
    "time"

    "coldsim/internal/anchor"
    "coldsim/internal/model"
    "coldsim/internal/sim"
    "coldsim/internal/store"
)

func reading(shipmentID string, sev model.Severity) *model.Reading {
    return &model.Reading{
        ID:         "r-" + shipmentID + "-" + string(sev),
        SensorID:   shipmentID + "-temperature-0",
        SensorType: model.SensorTemperature,
        ShipmentID: shipmentID,
        TS:         time.Now(),
        Value:      5,
        Severity:   sev,
    }
}

func TestEmitterPersistsAndBroadcasts(t *testing.T) {
    mem := store.NewMemory()
    b := NewBroker()
    loc := NewLocationCache()
    em := NewEmitter(b, mem, nil, loc, EmitterConfig{QueueSize: 16})
    em.Start()
    defer em.Shutdown()

    ch := b.Subscribe("B1")
    defer b.Unsubscribe("B1", ch)

    em.Emit(sim.Event{Type: sim.EventReading, ShipmentID: "B1", Reading: reading("B1", model.SeverityNormal)})

    select {
    case evt := <-ch:
        if evt.Reading == nil { t.Fatal("no reading on broadcast") }
    case <-time.After(time.Second):
        t.Fatal("broadcast never arrived")
    }
    deadline := time.Now().Add(time.Second)
    for {
        items, _, err := mem.ListReadings(context.Background(), "B1", "", 10)
        if err != nil { t.Fatalf("list: %v", err) }
        if len(items) == 1 { break }
        if time.Now().After(deadline) { t.Fatalf("reading not persisted: %d", len(items)) }
        time.Sleep(5 * time.Millisecond)
    }
}

func TestEmitterAnchorsOnlyExcursions(t *testing.T) {
    mem := store.NewMemory()
    em := NewEmitter(NewBroker(), mem, anchor.NewPublisher(mem), NewLocationCache(), EmitterConfig{QueueSize: 16})
    em.Start()

    em.Emit(sim.Event{Type: sim.EventReading, ShipmentID: "B1", Reading: reading("B1", model.SeverityNormal)})
    em.Emit(sim.Event{Type: sim.EventReading, ShipmentID: "B1", Reading: reading("B1", model.SeverityWarning)})
    em.Emit(sim.Event{Type: sim.EventReading, ShipmentID: "B1", Reading: reading("B1", model.SeverityCritical)})
    em.Shutdown() // drains the queue

    due, err := mem.FetchDueAnchors(context.Background(), 10)
    if err != nil { t.Fatalf("fetch: %v", err) }
    if len(due) != 2 {
        t.Fatalf("anchored %d deliveries, want 2 (warning+critical)", len(due))
    }
}

func TestEmitterDropsOnOverflow(t *testing.T) {
    mem := store.NewMemory()
    // Not started: nothing drains, so the queue overflows immediately.
    em := NewEmitter(NewBroker(), mem, nil, nil, EmitterConfig{QueueSize: 1})
    for i := 0; i < 10; i++ {
        r := reading("B1", model.SeverityNormal)
        r.ID = r.ID + "-" + string(rune('a'+i))
        em.Emit(sim.Event{Type: sim.EventReading, ShipmentID: "B1", Reading: r})
    }
    // Drain now; only the single queued event survived.
    em.Start()
    em.Shutdown()
    items, _, err := mem.ListReadings(context.Background(), "B1", "", 100)
    if err != nil { t.Fatalf("list: %v", err) }
    if len(items) != 1 {
        t.Fatalf("persisted %d readings, want 1 (rest dropped)", len(items))
    }
}

func TestEmitterJourneySnapshots(t *testing.T) {
    mem := store.NewMemory()
    em := NewEmitter(NewBroker(), mem, nil, nil, EmitterConfig{QueueSize: 16})
    em.BindJourneys(journeyStub{})
    em.Start()

    em.Emit(sim.Event{Type: sim.EventStageCompleted, ShipmentID: "B1", Data: map[string]any{"stage": "s0"}})
    em.Shutdown()

    j, err := mem.GetJourney(context.Background(), "B1")
    if err != nil { t.Fatalf("journey not persisted: %v", err) }
    if j.ShipmentID != "B1" { t.Fatalf("bad snapshot: %+v", j) }
}

type journeyStub struct{}

func (journeyStub) GetJourney(shipmentID string) (model.Journey, error) {
    return model.Journey{ShipmentID: shipmentID, Status: model.JourneyInProgress}, nil
}

func TestLocationCacheObservesGPSOnly(t *testing.T) {
    loc := NewLocationCache()
    loc.Observe(model.Reading{SensorType: model.SensorTemperature, ShipmentID: "B1", Value: 5})
    if _, ok := loc.Get("B1"); ok {
        t.Fatal("temperature reading should not set location")
    }
    loc.Observe(model.Reading{
        SensorType: model.SensorLocation, ShipmentID: "B1", SensorID: "B1-location-2",
        Coord: model.GeoPoint{Lat: 39.1, Lng: -76.2}, TS: time.Now(),
    })
    l, ok := loc.Get("B1")
    if !ok || l.Lat != 39.1 || l.Lng != -76.2 {
        t.Fatalf("bad fix: %+v", l)
    }
}
