package sim

import (
    "testing"

    "coldsim/internal/model"
)

func TestProvisionFleet(t *testing.T) {
    stage := BuildJourneyTemplate("", "")[0]
    sensors := Provision("B1", stage)
    if len(sensors) != len(model.FleetTypes) {
        t.Fatalf("want %d sensors, got %d", len(model.FleetTypes), len(sensors))
    }
    seen := map[string]bool{}
    for i, s := range sensors {
        if s.Type != model.FleetTypes[i] {
            t.Fatalf("sensor %d: type %s, want %s", i, s.Type, model.FleetTypes[i])
        }
        if seen[s.ID] {
            t.Fatalf("duplicate sensor id %s", s.ID)
        }
        seen[s.ID] = true
        if !s.Active {
            t.Fatalf("sensor %s not active at provision", s.ID)
        }
        if s.Battery <= 0 || s.Battery > 100 {
            t.Fatalf("sensor %s battery out of range: %v", s.ID, s.Battery)
        }
        if s.Location != stage.Location {
            t.Fatalf("sensor %s not at initial stage", s.ID)
        }
    }
    // IDs are stable: provisioning again yields the same identities.
    again := Provision("B1", stage)
    for i := range sensors {
        if sensors[i].ID != again[i].ID {
            t.Fatalf("unstable id: %s vs %s", sensors[i].ID, again[i].ID)
        }
    }
}

func TestProvisionThresholdProfiles(t *testing.T) {
    sensors := Provision("B1", BuildJourneyTemplate("", "")[0])
    byType := map[model.SensorType]*model.Sensor{}
    for _, s := range sensors { byType[s.Type] = s }

    temp := byType[model.SensorTemperature].Thresholds
    if temp.Min == nil || temp.Max == nil || temp.Critical == nil {
        t.Fatal("temperature must have min/max/critical")
    }
    if *temp.Critical <= *temp.Max {
        t.Fatalf("critical %v must sit above max %v", *temp.Critical, *temp.Max)
    }
    loc := byType[model.SensorLocation].Thresholds
    if loc.Min != nil || loc.Max != nil || loc.Critical != nil {
        t.Fatal("location sensor must have no thresholds")
    }
}

func TestDrainFloorsAtZero(t *testing.T) {
    s := &model.Sensor{Active: true, Battery: 1.0}
    Drain(s, 0.5)
    if s.Battery != 0.5 {
        t.Fatalf("battery %v, want 0.5", s.Battery)
    }
    Drain(s, 0.75)
    if s.Battery != 0 {
        t.Fatalf("battery %v, want floor 0", s.Battery)
    }
    if !s.Active {
        t.Fatal("sensor must stay active at zero battery")
    }
}

func TestAdvanceToStageSkipsInactive(t *testing.T) {
    stages := BuildJourneyTemplate("", "")
    sensors := Provision("B1", stages[0])
    sensors[0].Active = false
    AdvanceToStage(sensors, stages[2])
    if sensors[0].Location != stages[0].Location {
        t.Fatal("inactive sensor location must stay frozen")
    }
    for _, s := range sensors[1:] {
        if s.Location != stages[2].Location {
            t.Fatalf("active sensor %s not relocated", s.ID)
        }
    }
}
