package sim

import (
    "math"
    "math/rand"
    "testing"
    "time"

    "coldsim/internal/model"
)

func testGenerator(seed int64) *Generator {
    ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
    return NewGenerator(rand.New(rand.NewSource(seed)), func() time.Time { return ts })
}

func facilityStage() model.StageDefinition {
    return model.StageDefinition{
        ID: "hub", Location: "Hub", Coord: model.GeoPoint{Lat: 39.29, Lng: -76.61},
        Kind: model.StageFacility, TempMin: 2, TempMax: 8, TempDrift: 0.3,
    }
}

func transportStage() model.StageDefinition {
    return model.StageDefinition{
        ID: "linehaul", Location: "I-95", Coord: model.GeoPoint{Lat: 39.95, Lng: -75.16},
        Kind: model.StageTransport, TempMin: 2, TempMax: 8, TempDrift: 1.5,
    }
}

func TestGenerateTemperatureBounds(t *testing.T) {
    g := testGenerator(1)
    stage := transportStage()
    s := Provision("B1", stage)[0]
    mid := (stage.TempMin + stage.TempMax) / 2
    for i := 0; i < 500; i++ {
        r := g.Generate(s, stage)
        if math.Abs(r.Value-mid) > stage.TempDrift+1 {
            t.Fatalf("temperature %v outside mid±(drift+noise)", r.Value)
        }
        if r.Unit != "°C" {
            t.Fatalf("unit %s", r.Unit)
        }
    }
}

func TestGenerateHumidityRange(t *testing.T) {
    g := testGenerator(2)
    sensors := Provision("B1", facilityStage())
    var hum *model.Sensor
    for _, s := range sensors { if s.Type == model.SensorHumidity { hum = s } }
    for i := 0; i < 500; i++ {
        r := g.Generate(hum, facilityStage())
        if r.Value < 60 || r.Value > 80 {
            t.Fatalf("humidity %v outside [60,80]", r.Value)
        }
    }
}

func TestGenerateVibrationByStageKind(t *testing.T) {
    g := testGenerator(3)
    sensors := Provision("B1", facilityStage())
    var vib *model.Sensor
    for _, s := range sensors { if s.Type == model.SensorVibration { vib = s } }
    for i := 0; i < 200; i++ {
        r := g.Generate(vib, transportStage())
        if r.Value < 2 || r.Value > 5 {
            t.Fatalf("transport vibration %v outside [2,5]", r.Value)
        }
    }
    for i := 0; i < 200; i++ {
        r := g.Generate(vib, facilityStage())
        if r.Value < 0 || r.Value > 0.5 {
            t.Fatalf("facility vibration %v outside [0,0.5]", r.Value)
        }
    }
}

func TestGenerateLightDarkerInTransit(t *testing.T) {
    g := testGenerator(4)
    sensors := Provision("B1", facilityStage())
    var light *model.Sensor
    for _, s := range sensors { if s.Type == model.SensorLight { light = s } }
    for i := 0; i < 200; i++ {
        transit := g.Generate(light, transportStage())
        inside := g.Generate(light, facilityStage())
        if transit.Value >= inside.Value {
            t.Fatalf("transport light %v should be below facility light %v", transit.Value, inside.Value)
        }
    }
}

func TestGenerateLocationJitter(t *testing.T) {
    g := testGenerator(5)
    stage := facilityStage()
    sensors := Provision("B1", stage)
    var gps *model.Sensor
    for _, s := range sensors { if s.Type == model.SensorLocation { gps = s } }
    for i := 0; i < 200; i++ {
        r := g.Generate(gps, stage)
        if math.Abs(r.Coord.Lat-stage.Coord.Lat) > 0.01 || math.Abs(r.Coord.Lng-stage.Coord.Lng) > 0.01 {
            t.Fatalf("gps fix %+v drifted beyond ~1km of %+v", r.Coord, stage.Coord)
        }
        // The scalar value is the jittered latitude.
        if r.Value != r.Coord.Lat {
            t.Fatalf("value %v != lat %v", r.Value, r.Coord.Lat)
        }
    }
}

func TestGenerateSnapshotsAndDeterminism(t *testing.T) {
    stage := facilityStage()
    s1 := Provision("B1", stage)[0]
    s2 := Provision("B1", stage)[0]
    g1 := testGenerator(42)
    g2 := testGenerator(42)
    r1 := g1.Generate(s1, stage)
    r2 := g2.Generate(s2, stage)
    if r1.Value != r2.Value || r1.Signal != r2.Signal {
        t.Fatalf("same seed must reproduce values: %+v vs %+v", r1, r2)
    }
    if r1.Signal < 85 || r1.Signal > 100 {
        t.Fatalf("signal %v outside [85,100]", r1.Signal)
    }
    if r1.Battery != s1.Battery {
        t.Fatalf("battery snapshot %v != sensor battery %v", r1.Battery, s1.Battery)
    }
    if s1.LastValue != r1.Value {
        t.Fatalf("last value not recorded")
    }
}
