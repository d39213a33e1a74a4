package sim

import (
    "fmt"

    "coldsim/internal/model"
)

// sensorProfile is the per-type provisioning profile: starting battery,
// unit, and alert thresholds.
type sensorProfile struct {
    battery    float64
    unit       string
    thresholds model.Thresholds
}

func f(v float64) *float64 { return &v }

var profiles = map[model.SensorType]sensorProfile{
    model.SensorTemperature: {battery: 100, unit: "°C", thresholds: model.Thresholds{Min: f(2), Max: f(8), Critical: f(12)}},
    model.SensorHumidity:    {battery: 95, unit: "%", thresholds: model.Thresholds{Min: f(40), Max: f(80)}},
    model.SensorLocation:    {battery: 90, unit: "°lat"}, // no thresholds: location never alerts
    model.SensorVibration:   {battery: 85, unit: "g", thresholds: model.Thresholds{Max: f(4.5), Critical: f(7)}},
    model.SensorLight:       {battery: 88, unit: "lux", thresholds: model.Thresholds{Max: f(800)}},
}

// Provision creates the virtual sensor fleet for a shipment at its initial
// stage: one sensor per supported type. IDs are derived from shipment id,
// type, and ordinal, so they are unique within a shipment and stable
// across ticks.
func Provision(shipmentID string, initial model.StageDefinition) []*model.Sensor {
    out := make([]*model.Sensor, 0, len(model.FleetTypes))
    for i, typ := range model.FleetTypes {
        p := profiles[typ]
        out = append(out, &model.Sensor{
            ID:         fmt.Sprintf("%s-%s-%d", shipmentID, typ, i),
            Type:       typ,
            ShipmentID: shipmentID,
            Location:   initial.Location,
            Coord:      initial.Coord,
            Active:     true,
            Battery:    p.battery,
            Unit:       p.unit,
            Thresholds: p.thresholds,
        })
    }
    return out
}

// AdvanceToStage syncs every active sensor's location to the stage the
// shipment just entered. Battery is untouched.
func AdvanceToStage(sensors []*model.Sensor, stage model.StageDefinition) {
    for _, s := range sensors {
        if !s.Active { continue }
        s.Location = stage.Location
        s.Coord = stage.Coord
    }
}

// Drain decreases a sensor's battery, floored at 0. The sensor stays
// active even at zero battery: low-power hardware keeps reporting briefly.
func Drain(s *model.Sensor, amount float64) {
    s.Battery -= amount
    if s.Battery < 0 { s.Battery = 0 }
}

// Deactivate freezes every sensor: no further readings, battery and
// location stop changing. Sensors are never deleted.
func Deactivate(sensors []*model.Sensor) {
    for _, s := range sensors { s.Active = false }
}
