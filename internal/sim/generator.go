package sim

import (
    "math/rand"
    "sync"
    "time"

    "github.com/google/uuid"

    "coldsim/internal/model"
)

// Generator synthesizes one reading per active sensor per tick. The random
// source is injected so tests can seed it and demos can stay
// non-deterministic. The mutex serializes draws: shipments tick in
// parallel but share one source.
type Generator struct {
    mu  sync.Mutex
    rng *rand.Rand
    now func() time.Time
}

// NewGenerator builds a Generator over the given random source. A nil rng
// falls back to a time-seeded source; a nil now falls back to time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
    if rng == nil { rng = rand.New(rand.NewSource(time.Now().UnixNano())) }
    if now == nil { now = time.Now }
    return &Generator{rng: rng, now: now}
}

// Generate produces the reading for one sensor given the current stage.
// It never fails: values are pure arithmetic over validated sensor state.
// Severity is derived only from the value and the sensor's own thresholds.
func (g *Generator) Generate(s *model.Sensor, stage model.StageDefinition) model.Reading {
    g.mu.Lock()
    value := g.value(s, stage)
    signal := 85 + g.rng.Float64()*15
    g.mu.Unlock()
    s.LastValue = value
    return model.Reading{
        ID:         uuid.New().String(),
        SensorID:   s.ID,
        SensorType: s.Type,
        ShipmentID: s.ShipmentID,
        TS:         g.now(),
        Value:      value,
        Unit:       s.Unit,
        Location:   s.Location,
        Coord:      s.Coord,
        Severity:   Classify(value, s.Thresholds),
        Battery:    s.Battery,
        Signal:     signal,
    }
}

func (g *Generator) value(s *model.Sensor, stage model.StageDefinition) float64 {
    switch s.Type {
    case model.SensorTemperature:
        // Band midpoint, stage-dependent systematic drift, then symmetric
        // noise in [-1,+1]. Road stages drift more than facilities.
        base := (stage.TempMin + stage.TempMax) / 2
        drift := (g.rng.Float64()*2 - 1) * stage.TempDrift
        noise := g.rng.Float64()*2 - 1
        return base + drift + noise
    case model.SensorHumidity:
        // Ambient humidity, not stage-correlated.
        return 60 + g.rng.Float64()*20
    case model.SensorVibration:
        if stage.Kind == model.StageTransport {
            return 2 + g.rng.Float64()*3 // highway scale
        }
        return g.rng.Float64() * 0.5
    case model.SensorLight:
        if stage.Kind == model.StageTransport {
            return 5 + g.rng.Float64()*20 // enclosed vehicle
        }
        return 200 + g.rng.Float64()*300
    case model.SensorLocation:
        // GPS jitter within roughly 1 km of the stage's nominal position.
        // The scalar value is the latitude only; a known simplification
        // kept for reading-schema uniformity (one scalar per reading).
        lat := stage.Coord.Lat + (g.rng.Float64()*2-1)*0.009
        lng := stage.Coord.Lng + (g.rng.Float64()*2-1)*0.009
        s.Coord = model.GeoPoint{Lat: lat, Lng: lng}
        return lat
    }
    return 0
}
