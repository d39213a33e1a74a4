package sim

import (
    "fmt"
    "time"

    "coldsim/internal/model"
)

// Default labels used when a caller leaves origin/destination blank.
const (
    DefaultOrigin      = "Origin Facility"
    DefaultDestination = "Destination Facility"
)

// BuildJourneyTemplate returns the ordered stage sequence for a shipment
// from origin to destination. Pure: same inputs, same template. The
// topology is fixed; origin/destination only label the end stages.
func BuildJourneyTemplate(origin, destination string) []model.StageDefinition {
    if origin == "" { origin = DefaultOrigin }
    if destination == "" { destination = DefaultDestination }

    return []model.StageDefinition{
        {
            ID:        "manufacturing",
            Name:      "Manufacturing",
            Location:  origin,
            Coord:     model.GeoPoint{Lat: 40.7128, Lng: -74.0060},
            Duration:  2 * time.Hour,
            Kind:      model.StageFacility,
            TempMin:   2, TempMax: 8,
            TempDrift: 0.2,
            RiskTags:  []string{"handling"},
        },
        {
            ID:        "packaging",
            Name:      "Cold Packaging",
            Location:  origin + " Packaging Line",
            Coord:     model.GeoPoint{Lat: 40.7081, Lng: -74.0124},
            Duration:  1 * time.Hour,
            Kind:      model.StageFacility,
            TempMin:   2, TempMax: 8,
            TempDrift: 0.2,
            RiskTags:  []string{"handling", "exposure"},
        },
        {
            ID:        "linehaul",
            Name:      "Long-Haul Transport",
            Location:  "Interstate Corridor",
            Coord:     model.GeoPoint{Lat: 39.9526, Lng: -75.1652},
            Duration:  8 * time.Hour,
            Kind:      model.StageTransport,
            TempMin:   2, TempMax: 8,
            TempDrift: 1.5,
            RiskTags:  []string{"vibration", "delay", "temperature-excursion"},
        },
        {
            ID:        "hub",
            Name:      "Distribution Hub",
            Location:  "Regional Distribution Hub",
            Coord:     model.GeoPoint{Lat: 39.2904, Lng: -76.6122},
            Duration:  3 * time.Hour,
            Kind:      model.StageFacility,
            TempMin:   2, TempMax: 8,
            TempDrift: 0.3,
            RiskTags:  []string{"handling", "dwell"},
        },
        {
            ID:        "lastmile",
            Name:      "Local Transport",
            Location:  "Metro Delivery Route",
            Coord:     model.GeoPoint{Lat: 38.9072, Lng: -77.0369},
            Duration:  2 * time.Hour,
            Kind:      model.StageTransport,
            TempMin:   2, TempMax: 8,
            TempDrift: 0.8,
            RiskTags:  []string{"vibration", "door-open"},
        },
        {
            ID:        "destination",
            Name:      "Destination Receiving",
            Location:  destination,
            Coord:     model.GeoPoint{Lat: 38.8951, Lng: -77.0364},
            Duration:  1 * time.Hour,
            Kind:      model.StageFacility,
            TempMin:   2, TempMax: 8,
            TempDrift: 0.2,
            RiskTags:  []string{"handling"},
        },
    }
}

// TemplateETA sums planned durations over a template.
func TemplateETA(start time.Time, stages []model.StageDefinition) time.Time {
    total := time.Duration(0)
    for _, st := range stages { total += st.Duration }
    return start.Add(total)
}

// StageLabel is a short human label used in logs and the live feed.
func StageLabel(idx int, stages []model.StageProgress) string {
    if idx < 0 || idx >= len(stages) { return "complete" }
    return fmt.Sprintf("%d/%d %s", idx+1, len(stages), stages[idx].Name)
}
