package sim

import (
    "testing"
    "time"

    "coldsim/internal/model"
)

func TestBuildJourneyTemplateTopology(t *testing.T) {
    stages := BuildJourneyTemplate("PlantA", "ClinicB")
    if len(stages) != 6 {
        t.Fatalf("want 6 stages, got %d", len(stages))
    }
    wantOrder := []string{"manufacturing", "packaging", "linehaul", "hub", "lastmile", "destination"}
    for i, id := range wantOrder {
        if stages[i].ID != id {
            t.Fatalf("stage %d: got %s, want %s", i, stages[i].ID, id)
        }
    }
    if stages[0].Location != "PlantA" {
        t.Fatalf("origin label not applied: %s", stages[0].Location)
    }
    if stages[5].Location != "ClinicB" {
        t.Fatalf("destination label not applied: %s", stages[5].Location)
    }
}

func TestBuildJourneyTemplateDefaults(t *testing.T) {
    stages := BuildJourneyTemplate("", "")
    if stages[0].Location != DefaultOrigin {
        t.Fatalf("got %s", stages[0].Location)
    }
    if stages[len(stages)-1].Location != DefaultDestination {
        t.Fatalf("got %s", stages[len(stages)-1].Location)
    }
}

func TestBuildJourneyTemplateBandsAndKinds(t *testing.T) {
    stages := BuildJourneyTemplate("", "")
    transports := 0
    for _, st := range stages {
        if st.TempMin >= st.TempMax {
            t.Fatalf("stage %s: inverted temperature band", st.ID)
        }
        if st.Duration <= 0 {
            t.Fatalf("stage %s: no planned duration", st.ID)
        }
        if st.Kind == model.StageTransport { transports++ }
    }
    if transports != 2 {
        t.Fatalf("want 2 transport stages, got %d", transports)
    }
    // Long-haul drifts more than any facility stage.
    var linehaul, hub model.StageDefinition
    for _, st := range stages {
        if st.ID == "linehaul" { linehaul = st }
        if st.ID == "hub" { hub = st }
    }
    if linehaul.TempDrift <= hub.TempDrift {
        t.Fatalf("linehaul drift %v should exceed facility drift %v", linehaul.TempDrift, hub.TempDrift)
    }
}

func TestTemplateETA(t *testing.T) {
    start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
    stages := []model.StageDefinition{{Duration: time.Hour}, {Duration: 30 * time.Minute}}
    got := TemplateETA(start, stages)
    if want := start.Add(90 * time.Minute); !got.Equal(want) {
        t.Fatalf("eta %v, want %v", got, want)
    }
}
