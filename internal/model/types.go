package model

import "time"

// Core domain types shared by the engine, stores, and collaborator adapters.

type SensorType string

const (
    SensorTemperature SensorType = "temperature"
    SensorHumidity    SensorType = "humidity"
    SensorLocation    SensorType = "location"
    SensorVibration   SensorType = "vibration"
    SensorLight       SensorType = "light"
    SensorDoor        SensorType = "door"
    SensorBattery     SensorType = "battery"
)

// FleetTypes is the set of sensor types provisioned for every shipment,
// in provisioning order. Door and battery sensors are valid reading
// sources but are not part of the standard fleet.
var FleetTypes = []SensorType{SensorTemperature, SensorHumidity, SensorLocation, SensorVibration, SensorLight}

type Severity string

const (
    SeverityNormal   Severity = "normal"
    SeverityWarning  Severity = "warning"
    SeverityCritical Severity = "critical"
)

type StageKind string

const (
    StageFacility  StageKind = "facility"
    StageTransport StageKind = "transport"
)

type GeoPoint struct {
    Lat float64 `json:"lat"`
    Lng float64 `json:"lng"`
}

// StageDefinition is immutable template data for one leg of a journey.
type StageDefinition struct {
    ID       string        `json:"id"`
    Name     string        `json:"name"`
    Location string        `json:"location"`
    Coord    GeoPoint      `json:"coord"`
    Duration time.Duration `json:"durationNs"`
    Kind     StageKind     `json:"kind"`
    TempMin  float64       `json:"tempMin"`
    TempMax  float64       `json:"tempMax"`
    // TempDrift is the amplitude of the systematic temperature drift for
    // this stage; near zero in controlled facilities, larger on the road.
    TempDrift float64  `json:"tempDrift"`
    RiskTags  []string `json:"riskTags,omitempty"`
}

// StageProgress is a StageDefinition plus per-journey progress state.
type StageProgress struct {
    StageDefinition
    Completed bool       `json:"completed"`
    StartedAt *time.Time `json:"startedAt,omitempty"`
    EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// Thresholds are alert bounds for one sensor. A nil bound never breaches.
// Equality with a bound is not a breach; Critical overrides Max.
type Thresholds struct {
    Min      *float64 `json:"min,omitempty"`
    Max      *float64 `json:"max,omitempty"`
    Critical *float64 `json:"critical,omitempty"`
}

// Sensor is a virtual telemetry source attached to one shipment. Sensors
// are created at journey start and deactivated, never deleted.
type Sensor struct {
    ID         string     `json:"id"`
    Type       SensorType `json:"type"`
    ShipmentID string     `json:"shipmentId"`
    Location   string     `json:"location"`
    Coord      GeoPoint   `json:"coord"`
    Active     bool       `json:"active"`
    Battery    float64    `json:"battery"` // 0..100, non-increasing while active
    LastValue  float64    `json:"lastValue"`
    Unit       string     `json:"unit"`
    Thresholds Thresholds `json:"thresholds"`
}

// Reading is one immutable sample emitted by a sensor during a tick.
type Reading struct {
    ID         string     `json:"id"`
    SensorID   string     `json:"sensorId"`
    SensorType SensorType `json:"sensorType"`
    ShipmentID string     `json:"shipmentId"`
    TS         time.Time  `json:"ts"`
    Value      float64    `json:"value"`
    Unit       string     `json:"unit"`
    Location   string     `json:"location"`
    Coord      GeoPoint   `json:"coord"`
    Severity   Severity   `json:"severity"`
    Battery    float64    `json:"battery"`
    Signal     float64    `json:"signal"`
}

type JourneyStatus string

const (
    JourneyInProgress JourneyStatus = "in_progress"
    JourneyComplete   JourneyStatus = "complete"
)

// Journey is the full simulated lifecycle of one shipment. CurrentStage is
// a valid index into Stages, or len(Stages) exactly once (terminal state).
type Journey struct {
    ShipmentID   string          `json:"shipmentId"`
    Product      string          `json:"product"`
    Origin       string          `json:"origin"`
    Destination  string          `json:"destination"`
    Status       JourneyStatus   `json:"status"`
    CurrentStage int             `json:"currentStage"`
    Stages       []StageProgress `json:"stages"`
    StartedAt    time.Time       `json:"startedAt"`
    ETA          time.Time       `json:"eta"`
    Sensors      []Sensor        `json:"sensors"`
}
